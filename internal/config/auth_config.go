package config

import (
	"strconv"
	"time"
)

type AuthConfig interface {
	GetJWTSecret() string
	GetAuthTokenExpiry() time.Duration
	GetAccessTokenExpiry() time.Duration
	GetCacheDefaultTTL() time.Duration
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "")
}

// GetAuthTokenExpiry is the lifetime of the one-time auth token minted
// right after the Google callback. Short on purpose: it only has to
// survive one redirect hop.
func (Auth) GetAuthTokenExpiry() time.Duration {
	return durationFromSecondsEnv("AUTH_TOKEN_EXPIRE_S", 120*time.Second)
}

func (Auth) GetAccessTokenExpiry() time.Duration {
	return durationFromSecondsEnv("ACCESS_TOKEN_EXPIRE_S", 6*time.Hour)
}

// GetCacheDefaultTTL bounds entries written to the ephemeral cache without
// an explicit TTL (OAuth handshake state, pending payments).
func (Auth) GetCacheDefaultTTL() time.Duration {
	return durationFromSecondsEnv("CACHE_DEFAULT_TTL_S", 10*time.Minute)
}

func durationFromSecondsEnv(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}

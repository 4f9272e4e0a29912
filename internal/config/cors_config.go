package config

import "strings"

type Cors struct{}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

var allowedOrigins = AllowedOrigins{
	"http://localhost:8000": nullValue{},
	"http://localhost:8080": nullValue{},
}

func (Cors) GetAllowedOrigins() AllowedOrigins {
	extra := GetEnv("CORS_ALLOWED_ORIGINS", "")
	if extra == "" {
		return allowedOrigins
	}
	merged := AllowedOrigins{}
	for origin := range allowedOrigins {
		merged[origin] = nullValue{}
	}
	for _, origin := range strings.Split(extra, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			merged[origin] = nullValue{}
		}
	}
	return merged
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}

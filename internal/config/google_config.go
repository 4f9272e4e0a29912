package config

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleRedirectURL() string
}

type Google struct{}

var _ GoogleConfig = Google{}

func (Google) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (Google) GetGoogleClientSecret() string {
	return GetEnv("GOOGLE_CLIENT_SECRET", "")
}

// GetGoogleRedirectURL is the absolute callback URL registered in the
// Google Cloud console. Defaults to the callback route on GetDomain.
func (g Google) GetGoogleRedirectURL() string {
	url := GetEnv("GOOGLE_REDIRECT_URL", "")
	if url != "" {
		return url
	}
	return EnvVars{}.GetDomain() + "/user/oauth2-callback"
}

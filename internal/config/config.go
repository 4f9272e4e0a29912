package config

type Config interface {
	EnvConfig
	CorsConfig
	AuthConfig
	GoogleConfig
	StripeConfig
	StorageConfig
	ProxyConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDomain() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Auth
	Google
	Stripe
	Storage
	Proxy
}

func New() Config {
	return mainConfig{}
}

package config

type ProxyConfig interface {
	GetOpenAIAPIKey() string
	GetOpenAIBaseURL() string
}

type Proxy struct{}

var _ ProxyConfig = Proxy{}

func (Proxy) GetOpenAIAPIKey() string {
	return GetEnv("OPENAI_API_KEY", "")
}

func (Proxy) GetOpenAIBaseURL() string {
	return GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
}

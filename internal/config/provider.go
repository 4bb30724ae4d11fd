package config

import "time"

// ProviderConfig holds the outbound LLM backend settings. Base URLs are
// overridable so tests and self-hosted gateways can point adapters elsewhere.
type ProviderConfig struct {
	OpenAIBaseURL string
	GeminiBaseURL string
	Timeout       time.Duration
}

func NewProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		Timeout:       getEnvDuration("PROVIDER_TIMEOUT", 60*time.Second),
	}
}

package factory

import (
	"context"
	"fmt"

	"ai-storefront/pkg/llm"
	"ai-storefront/pkg/llm/gemini"
	"ai-storefront/pkg/llm/ollama"
)

type Settings struct {
	Provider  string
	ModelName string
	BaseURL   string
	APIKey    string
}

func NewGateway(ctx context.Context, s Settings) (llm.Gateway, error) {
	switch s.Provider {
	case "gemini", "":
		return gemini.NewProvider(ctx, s.APIKey, s.ModelName)
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.ModelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}

package provider

import (
	"context"
	"fmt"

	"github.com/lauvickie617/vickie-ai-portfolio/model"
)

// NewProvider builds the client named by cfg.Type. Gemini is the only one
// that can ground answers in a File Search store; the others answer from the
// persona prompt alone.
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeGemini:
		return NewGeminiProvider(context.Background(), cfg)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType reads the provider key from config.toml. An empty key
// means Gemini, and "openrouter" is served by the OpenAI-compatible client.
// Unknown keys pass through so NewProvider can reject them by name.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "", "gemini":
		return ProviderTypeGemini
	case "openai", "openrouter":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	case "ollama":
		return ProviderTypeOllama
	default:
		return ProviderType(id)
	}
}

// Package provider implements model.Provider for the generation backends the
// portfolio chat can talk to.
//
// Gemini is the primary backend: it answers with the persona prompt as system
// instruction and, when a File Search store is configured, grounds answers in
// the uploaded portfolio documents. OpenAI, Anthropic and Ollama can stand in
// for Gemini without retrieval.
//
// # Architecture
//
//   - model.Provider defines the streaming contract (defined in the model
//     package to avoid import cycles)
//   - GeminiProvider, OpenAIProvider, AnthropicProvider and OllamaProvider
//     implement it
//   - NewProvider() creates a provider from Config
//   - Responder adapts a Provider into the model.Generator used by the chat
//     pipeline and the HTTP server
//   - RemoteGenerator is a model.Generator that asks a running backend
//   - StoreManager creates and fills File Search stores
//
// # Usage
//
//	p, err := provider.NewProvider(provider.ConfigFrom(cfg))
//	if err != nil {
//	    // handle error
//	}
//	gen := provider.NewResponder(p, cfg.Prompt)
//	reply, err := gen.Generate(ctx, "Who is Vickie?", nil)
package provider

import (
	"net/http"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
)

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeGemini    ProviderType = "gemini"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOllama    ProviderType = "ollama"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string

	// Generation parameters. Zero values leave the model defaults.
	// FileSearchStore is Gemini only.
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
	FileSearchStore string

	// HTTPClient overrides the transport (used by tests).
	HTTPClient *http.Client
}

// ConfigFrom builds the provider Config selected by the merged app config.
func ConfigFrom(cfg *config.Config) Config {
	typ := MapProviderIDToType(cfg.Provider)
	if typ == ProviderTypeGemini {
		return Config{
			Type:            ProviderTypeGemini,
			BaseURL:         cfg.ProviderBaseURL,
			Model:           cfg.Model,
			APIKey:          cfg.GeminiAPIKey,
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			MaxOutputTokens: cfg.MaxOutputTokens,
			FileSearchStore: cfg.FileSearchStoreName,
		}
	}
	return Config{
		Type:            typ,
		BaseURL:         cfg.ProviderBaseURL,
		Model:           cfg.ProviderModel,
		APIKey:          cfg.ProviderAPIKey,
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
}

// sampling holds the generation parameters shared by every provider.
// Zero fields are left to the model default.
type sampling struct {
	temperature     float32
	topP            float32
	maxOutputTokens int32
}

func samplingFrom(cfg Config) sampling {
	return sampling{
		temperature:     cfg.Temperature,
		topP:            cfg.TopP,
		maxOutputTokens: cfg.MaxOutputTokens,
	}
}

func (s sampling) ollamaOptions() map[string]any {
	opts := make(map[string]any)
	if s.temperature > 0 {
		opts["temperature"] = s.temperature
	}
	if s.topP > 0 {
		opts["top_p"] = s.topP
	}
	if s.maxOutputTokens > 0 {
		opts["num_predict"] = s.maxOutputTokens
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

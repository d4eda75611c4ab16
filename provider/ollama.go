package provider

import (
	"context"
	"fmt"

	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/ollama"
)

// OllamaProvider answers with a model on a local Ollama server. No API key
// is needed.
type OllamaProvider struct {
	client *ollama.Client
}

func NewOllamaProvider(cfg Config) (*OllamaProvider, error) {
	client, err := ollama.NewClient(ollama.Config{
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		HTTPClient: cfg.HTTPClient,
		Options:    samplingFrom(cfg).ollamaOptions(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return &OllamaProvider{client: client}, nil
}

// Chat sends the conversation as is; Ollama takes system messages inline.
func (p *OllamaProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	var cb ollama.StreamCallback
	if callback != nil {
		cb = ollama.StreamCallback(callback)
	}
	return p.client.Chat(ctx, ConvertToOllamaMessages(messages), cb)
}

// ListModels returns the models installed on the Ollama server.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return p.client.Models(ctx)
}

func (p *OllamaProvider) GetModel() string {
	return p.client.Model()
}

func (p *OllamaProvider) GetDisplayName() string {
	return p.client.Model() + " (local)"
}

func (p *OllamaProvider) SetModel(model string) {
	p.client.SetModel(model)
}

func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

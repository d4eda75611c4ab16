package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIDefaultModel   = "gpt-4o-mini"
)

// OpenAIProvider answers through the Chat Completions API. Any
// OpenAI-compatible endpoint (OpenRouter, vLLM) works through BaseURL.
type OpenAIProvider struct {
	client openai.Client

	mu       sync.RWMutex
	model    string
	sampling sampling
}

// NewOpenAIProvider requires cfg.APIKey. BaseURL and Model fall back to
// the public API and gpt-4o-mini.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI: %w", ErrMissingAPIKey)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = openAIDefaultModel
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIProvider{
		client:   openai.NewClient(opts...),
		model:    modelName,
		sampling: samplingFrom(cfg),
	}, nil
}

func (p *OpenAIProvider) params(messages []model.Message) openai.ChatCompletionNewParams {
	p.mu.RLock()
	defer p.mu.RUnlock()

	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(messages),
		Model:    openai.ChatModel(p.model),
	}
	if p.sampling.temperature > 0 {
		params.Temperature = openai.Float(float64(p.sampling.temperature))
	}
	if p.sampling.topP > 0 {
		params.TopP = openai.Float(float64(p.sampling.topP))
	}
	if p.sampling.maxOutputTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(p.sampling.maxOutputTokens))
	}
	return params
}

// Chat streams the completion into callback.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	stream := p.client.Chat.Completions.NewStreaming(ctx, p.params(messages))
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" || callback == nil {
			continue
		}
		if err := callback(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("OpenAI streaming error: %w", err)
	}
	return nil
}

func (p *OpenAIProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

func (p *OpenAIProvider) GetDisplayName() string {
	return p.GetModel()
}

func (p *OpenAIProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}

// Ping lists models, the cheapest authenticated call.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}

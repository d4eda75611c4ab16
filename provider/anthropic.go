package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
)

// The Messages API requires max_tokens on every request.
const anthropicDefaultMaxTokens = 2048

// AnthropicProvider answers through the Messages API. The persona prompt is
// sent as the system block.
type AnthropicProvider struct {
	client anthropic.Client

	mu       sync.RWMutex
	model    anthropic.Model
	sampling sampling
}

// NewAnthropicProvider requires cfg.APIKey. Model defaults to Claude
// Sonnet 4.5.
func NewAnthropicProvider(cfg Config) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic: %w", ErrMissingAPIKey)
	}

	modelName := anthropic.ModelClaudeSonnet4_5_20250929
	if cfg.Model != "" {
		modelName = anthropic.Model(cfg.Model)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &AnthropicProvider{
		client:   anthropic.NewClient(opts...),
		model:    modelName,
		sampling: samplingFrom(cfg),
	}, nil
}

// params builds the request. Only temperature is forwarded: recent Claude
// models reject temperature and top_p together.
func (p *AnthropicProvider) params(messages []model.Message) anthropic.MessageNewParams {
	p.mu.RLock()
	defer p.mu.RUnlock()

	converted, system := ConvertToAnthropicMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  converted,
		MaxTokens: anthropicDefaultMaxTokens,
	}
	if len(system) > 0 {
		params.System = system
	}
	if p.sampling.maxOutputTokens > 0 {
		params.MaxTokens = int64(p.sampling.maxOutputTokens)
	}
	if p.sampling.temperature > 0 {
		params.Temperature = anthropic.Float(float64(p.sampling.temperature))
	}
	return params
}

// Chat streams text deltas into callback.
func (p *AnthropicProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	stream := p.client.Messages.NewStreaming(ctx, p.params(messages))
	defer stream.Close()

	for stream.Next() {
		delta, ok := stream.Current().AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok || text.Text == "" || callback == nil {
			continue
		}
		if err := callback(text.Text); err != nil {
			return err
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("Anthropic streaming error: %w", err)
	}
	return nil
}

func (p *AnthropicProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return string(p.model)
}

func (p *AnthropicProvider) GetDisplayName() string {
	return p.GetModel()
}

func (p *AnthropicProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = anthropic.Model(model)
}

// Ping sends a one-token request; the API has no health endpoint.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.GetModel()),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}

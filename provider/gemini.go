package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned when a provider that needs a key has none.
var ErrMissingAPIKey = errors.New("API key is required")

// NewGeminiClient creates a Gemini API client from cfg. BaseURL and
// HTTPClient are optional overrides.
func NewGeminiClient(ctx context.Context, cfg Config) (*genai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini: %w", ErrMissingAPIKey)
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// GeminiProvider implements the Provider interface using the Gemini API.
// System messages become the system instruction and the File Search tool is
// attached whenever a store is set.
type GeminiProvider struct {
	client *genai.Client

	mu              sync.RWMutex
	model           string
	store           string
	temperature     float32
	topP            float32
	maxOutputTokens int32
}

// NewGeminiProvider creates a Gemini provider. The model defaults to
// config.DefaultModel.
func NewGeminiProvider(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	client, err := NewGeminiClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = config.DefaultModel
	}

	return &GeminiProvider{
		client:          client,
		model:           modelName,
		store:           cfg.FileSearchStore,
		temperature:     cfg.Temperature,
		topP:            cfg.TopP,
		maxOutputTokens: cfg.MaxOutputTokens,
	}, nil
}

// Chat implements Provider.Chat with streaming support.
func (p *GeminiProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	system, rest := model.SplitSystem(messages)
	contents := ConvertToGeminiContents(rest)

	p.mu.RLock()
	modelName := p.model
	genCfg := p.generateConfig(system)
	p.mu.RUnlock()

	for resp, err := range p.client.Models.GenerateContentStream(ctx, modelName, contents, genCfg) {
		if err != nil {
			return fmt.Errorf("Gemini streaming error: %w", err)
		}
		text := resp.Text()
		if text == "" || callback == nil {
			continue
		}
		if err := callback(text); err != nil {
			return err
		}
	}

	return ctx.Err()
}

// generateConfig must be called with p.mu held.
func (p *GeminiProvider) generateConfig(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: p.maxOutputTokens,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(system)}, genai.RoleUser)
	}
	if p.temperature != 0 {
		cfg.Temperature = genai.Ptr(p.temperature)
	}
	if p.topP != 0 {
		cfg.TopP = genai.Ptr(p.topP)
	}
	if p.store != "" {
		cfg.Tools = []*genai.Tool{{
			FileSearch: &genai.FileSearch{FileSearchStoreNames: []string{p.store}},
		}}
	}
	return cfg
}

// SetFileSearchStore changes the store answers are grounded in. An empty
// name turns retrieval off.
func (p *GeminiProvider) SetFileSearchStore(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.store = name
}

func (p *GeminiProvider) FileSearchStore() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.store
}

// SetSampling updates temperature and top-p for subsequent requests.
func (p *GeminiProvider) SetSampling(temperature, topP float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.temperature = temperature
	p.topP = topP
}

func (p *GeminiProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

func (p *GeminiProvider) GetDisplayName() string {
	return p.GetModel()
}

func (p *GeminiProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}

// Ping implements Provider.Ping by fetching the model's metadata.
func (p *GeminiProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.Get(ctx, p.GetModel(), nil); err != nil {
		return fmt.Errorf("Gemini ping failed: %w", err)
	}
	return nil
}

// Client exposes the underlying client for store management.
func (p *GeminiProvider) Client() *genai.Client {
	return p.client
}

// Package ollama is a small client for a local Ollama server, used when the
// portfolio assistant runs against a self-hosted model instead of Gemini.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.1:latest"

	pingTimeout = 5 * time.Second
)

// Config describes the server and the model options sent with every chat.
// Options use Ollama's names (temperature, top_p, num_predict).
type Config struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Options    map[string]any
}

type Client struct {
	api     *api.Client
	baseURL string
	options map[string]any

	mu    sync.RWMutex
	model string
}

type StreamCallback func(chunk string) error

type ModelInfo struct {
	Name string
	Size int64
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL %q: scheme and host are required", cfg.BaseURL)
	}

	return &Client{
		api:     api.NewClient(u, cfg.HTTPClient),
		baseURL: cfg.BaseURL,
		options: cfg.Options,
		model:   cfg.Model,
	}, nil
}

// Chat streams a reply to messages, handing each content chunk to callback.
func (c *Client) Chat(ctx context.Context, messages []api.Message, callback StreamCallback) error {
	stream := true
	req := &api.ChatRequest{
		Model:    c.Model(),
		Messages: messages,
		Stream:   &stream,
		Options:  c.options,
	}

	err := c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		if callback == nil || resp.Message.Content == "" {
			return nil
		}
		return callback(resp.Message.Content)
	})
	if err != nil {
		return fmt.Errorf("ollama chat with %s: %w", req.Model, err)
	}
	return nil
}

// Models lists what is installed on the server.
func (c *Client) Models(ctx context.Context) ([]ModelInfo, error) {
	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, ModelInfo{Name: m.Name, Size: m.Size})
	}
	return models, nil
}

func (c *Client) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping lists models with a short deadline.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.api.List(ctx); err != nil {
		return fmt.Errorf("ollama at %s is not reachable: %w", c.baseURL, err)
	}
	return nil
}

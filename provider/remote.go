package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
)

// Wire format of the chat backend. History roles are "user" and
// "assistant" on the wire; the backend maps them onto Gemini's roles.
type (
	HistoryEntry struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	ChatRequest struct {
		Message string         `json:"message"`
		History []HistoryEntry `json:"history,omitempty"`
	}

	ChatResponse struct {
		Response  string `json:"response"`
		Timestamp int64  `json:"timestamp"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}

	HealthResponse struct {
		Status             string `json:"status"`
		HasFileSearchStore bool   `json:"hasFileSearchStore"`
		Timestamp          int64  `json:"timestamp"`
	}

	StoreInfoResponse struct {
		Configured bool    `json:"configured"`
		StoreName  *string `json:"storeName"`
	}
)

// HistoryToWire converts completed turns to the backend's history format.
func HistoryToWire(turns []conversation.Turn) []HistoryEntry {
	entries := make([]HistoryEntry, len(turns))
	for i, turn := range turns {
		role := "assistant"
		if turn.Role == conversation.HistoryUser {
			role = "user"
		}
		entries[i] = HistoryEntry{Role: role, Content: turn.Text}
	}
	return entries
}

// HistoryFromWire converts backend history to turns. Any role other than
// "user" is treated as a model turn.
func HistoryFromWire(entries []HistoryEntry) []conversation.Turn {
	turns := make([]conversation.Turn, len(entries))
	for i, entry := range entries {
		role := conversation.HistoryModel
		if entry.Role == "user" {
			role = conversation.HistoryUser
		}
		turns[i] = conversation.Turn{Role: role, Text: entry.Content}
	}
	return turns
}

// RemoteGenerator is a model.Generator backed by a running chat server.
type RemoteGenerator struct {
	baseURL string
	client  *http.Client
}

// NewRemoteGenerator targets the backend at baseURL. A URL without a path
// gets the default API prefix, so "http://localhost:3001" and
// "http://localhost:3001/api" are equivalent.
func NewRemoteGenerator(baseURL string, client *http.Client) (*RemoteGenerator, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = config.DefaultAPIPrefix
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &RemoteGenerator{
		baseURL: strings.TrimSuffix(u.String(), "/"),
		client:  client,
	}, nil
}

func (g *RemoteGenerator) BaseURL() string {
	return g.baseURL
}

// Generate implements model.Generator. A transport failure becomes the
// generic fallback prose; an error body from the backend is shown as is.
func (g *RemoteGenerator) Generate(ctx context.Context, message string, history []conversation.Turn) (string, error) {
	body, err := json.Marshal(ChatRequest{Message: message, History: HistoryToWire(history)})
	if err != nil {
		return "", model.NewGenerationError(model.FallbackProse, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", model.NewGenerationError(model.FallbackProse, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", model.NewGenerationError(model.FallbackProse, fmt.Errorf("backend request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			return "", model.NewGenerationError(model.FallbackProse, fmt.Errorf("backend returned %s", resp.Status))
		}
		return "", model.NewGenerationError(errResp.Error, fmt.Errorf("backend returned %s", resp.Status))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", model.NewGenerationError(model.FallbackProse, fmt.Errorf("invalid backend response: %w", err))
	}
	return chatResp.Response, nil
}

// Health calls GET /health.
func (g *RemoteGenerator) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := g.getJSON(ctx, "/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// StoreInfo calls GET /store-info.
func (g *RemoteGenerator) StoreInfo(ctx context.Context) (*StoreInfoResponse, error) {
	var info StoreInfoResponse
	if err := g.getJSON(ctx, "/store-info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (g *RemoteGenerator) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid backend response: %w", err)
	}
	return nil
}

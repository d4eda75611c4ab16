package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// Responder turns a streaming Provider into the model.Generator used by the
// chat pipeline and the HTTP server. The reply is collected in full before
// it is returned; revealing it is the caller's business.
type Responder struct {
	mu       sync.RWMutex
	provider model.Provider
	prompt   func() string
}

// NewResponder wraps p. prompt is consulted on every call so a reloaded
// persona takes effect without rebuilding the Responder.
func NewResponder(p model.Provider, prompt func() string) *Responder {
	if prompt == nil {
		prompt = func() string { return "" }
	}
	return &Responder{provider: p, prompt: prompt}
}

// Generate implements model.Generator. Failures are returned as
// *model.GenerationError carrying visitor-facing prose.
func (r *Responder) Generate(ctx context.Context, message string, history []conversation.Turn) (string, error) {
	p := r.Provider()
	messages := model.BuildAPIMessages(r.prompt(), history, message)

	var reply strings.Builder
	err := p.Chat(ctx, messages, func(chunk string) error {
		reply.WriteString(chunk)
		return nil
	})
	if err != nil {
		return "", ClassifyError(err)
	}

	if strings.TrimSpace(reply.String()) == "" {
		return model.EmptyReplyProse, nil
	}
	return reply.String(), nil
}

func (r *Responder) Provider() model.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.provider
}

// SetProvider swaps the backend for subsequent calls. Calls already running
// finish on the old one.
func (r *Responder) SetProvider(p model.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.provider = p
}

// ClassifyError maps a provider failure onto the prose a visitor sees:
// missing or rejected credentials, quota exhaustion, timeouts, and a generic
// outage message for everything else.
func ClassifyError(err error) *model.GenerationError {
	var genErr *model.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return model.NewGenerationError(model.CredentialsProse, err)
	case errors.Is(err, context.DeadlineExceeded):
		return model.NewGenerationError(model.TimeoutProse, err)
	}

	code, status, message := upstreamStatus(err)
	switch {
	case code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED":
		return model.NewGenerationError(model.QuotaProse, err)
	case code == http.StatusUnauthorized || code == http.StatusForbidden,
		status == "UNAUTHENTICATED" || status == "PERMISSION_DENIED",
		strings.Contains(message, "API key not valid"):
		return model.NewGenerationError(model.CredentialsProse, err)
	case code == http.StatusGatewayTimeout || status == "DEADLINE_EXCEEDED":
		return model.NewGenerationError(model.TimeoutProse, err)
	}

	return model.NewGenerationError(model.UnavailableProse, err)
}

// upstreamStatus extracts the HTTP status code, and for Gemini the RPC
// status and message, from an SDK error. Zero values mean the error did not
// come from an HTTP response.
func upstreamStatus(err error) (code int, status, message string) {
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code, geminiErr.Status, geminiErr.Message
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode, "", ""
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode, "", ""
	}

	var ollamaErr api.StatusError
	if errors.As(err, &ollamaErr) {
		return ollamaErr.StatusCode, "", ollamaErr.ErrorMessage
	}

	return 0, "", ""
}

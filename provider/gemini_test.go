package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGemini serves the two Gemini endpoints the provider uses.
type fakeGemini struct {
	mu       sync.Mutex
	bodies   []string
	apiKeys  []string
	chunks   []string
	status   int
	errorRPC string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.bodies = append(f.bodies, string(body))
	f.apiKeys = append(f.apiKeys, r.Header.Get("x-goog-api-key"))
	f.mu.Unlock()

	if f.status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"upstream failure","status":%q}}`, f.status, f.errorRPC)
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, ":streamGenerateContent"):
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range f.chunks {
			payload, _ := json.Marshal(map[string]any{
				"candidates": []any{map[string]any{
					"content": map[string]any{
						"role":  "model",
						"parts": []any{map[string]any{"text": chunk}},
					},
				}},
			})
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/models/"):
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"models/gemini-2.5-flash","displayName":"Gemini 2.5 Flash"}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeGemini) lastBody() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.bodies) == 0 {
		return ""
	}
	return f.bodies[len(f.bodies)-1]
}

func newTestGemini(t *testing.T, fake *fakeGemini, store string) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	p, err := NewGeminiProvider(context.Background(), Config{
		Type:            ProviderTypeGemini,
		BaseURL:         srv.URL,
		APIKey:          "test-key",
		Temperature:     0.7,
		TopP:            0.95,
		FileSearchStore: store,
		HTTPClient:      srv.Client(),
	})
	require.NoError(t, err)
	return p
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), Config{Type: ProviderTypeGemini})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeminiDefaultsModel(t *testing.T) {
	p := newTestGemini(t, &fakeGemini{}, "")
	assert.Equal(t, "gemini-2.5-flash", p.GetModel())
	assert.Equal(t, p.GetModel(), p.GetDisplayName())

	p.SetModel("gemini-2.5-pro")
	assert.Equal(t, "gemini-2.5-pro", p.GetModel())
}

func TestGeminiChatStreamsChunks(t *testing.T) {
	fake := &fakeGemini{chunks: []string{"Vickie is ", "a product ", "manager."}}
	p := newTestGemini(t, fake, "fileSearchStores/portfolio-docs")

	var got []string
	messages := model.BuildAPIMessages("Persona: answer as Vickie's assistant.", nil, "Who is Vickie?")
	err := p.Chat(context.Background(), messages, func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Vickie is ", "a product ", "manager."}, got)

	body := fake.lastBody()
	assert.Contains(t, body, "Persona: answer as Vickie's assistant.")
	assert.Contains(t, body, "Who is Vickie?")
	assert.Contains(t, body, "fileSearchStores/portfolio-docs")
	assert.Equal(t, "test-key", fake.apiKeys[len(fake.apiKeys)-1])
}

func TestGeminiStoreToggle(t *testing.T) {
	fake := &fakeGemini{chunks: []string{"ok"}}
	p := newTestGemini(t, fake, "")

	require.NoError(t, p.Chat(context.Background(), testUserMessages("hi"), nil))
	assert.NotContains(t, fake.lastBody(), "fileSearch")

	p.SetFileSearchStore("fileSearchStores/late")
	assert.Equal(t, "fileSearchStores/late", p.FileSearchStore())
	require.NoError(t, p.Chat(context.Background(), testUserMessages("hi"), nil))
	assert.Contains(t, fake.lastBody(), "fileSearchStores/late")
}

func TestGeminiCallbackErrorStopsStream(t *testing.T) {
	fake := &fakeGemini{chunks: []string{"one", "two", "three"}}
	p := newTestGemini(t, fake, "")

	stop := fmt.Errorf("stop")
	calls := 0
	err := p.Chat(context.Background(), testUserMessages("hi"), func(chunk string) error {
		calls++
		return stop
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestGeminiQuotaErrorBecomesProse(t *testing.T) {
	fake := &fakeGemini{status: http.StatusTooManyRequests, errorRPC: "RESOURCE_EXHAUSTED"}
	p := newTestGemini(t, fake, "")

	r := NewResponder(p, func() string { return "persona" })
	reply, err := r.Generate(context.Background(), "Hello", []conversation.Turn{})
	require.Error(t, err)
	assert.Empty(t, reply)
	assert.Equal(t, model.QuotaProse, model.ProseFor(err))
}

func TestGeminiPing(t *testing.T) {
	p := newTestGemini(t, &fakeGemini{}, "")
	require.NoError(t, p.Ping(context.Background()))

	down := newTestGemini(t, &fakeGemini{status: http.StatusServiceUnavailable, errorRPC: "UNAVAILABLE"}, "")
	require.Error(t, down.Ping(context.Background()))
}

func testUserMessages(text string) []model.Message {
	return []model.Message{{Role: "user", Content: text}}
}

package provider_test

import (
	"context"
	"testing"

	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/provider"
	"github.com/lauvickie617/vickie-ai-portfolio/provider/testutil"
)

// TestProviderContract defines the contract every provider must satisfy.
func TestProviderContract(t *testing.T) {
	tests := []struct {
		name     string
		provider model.Provider
	}{
		{"Mock", testutil.NewMockProvider("test-model")},
		{"Streaming", testutil.StreamingMock("a", "b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Run("BasicChat", func(t *testing.T) {
				testProviderBasicChat(t, tt.provider)
			})
			t.Run("ModelManagement", func(t *testing.T) {
				testProviderModelManagement(t, tt.provider)
			})
			t.Run("HealthCheck", func(t *testing.T) {
				if err := tt.provider.Ping(context.Background()); err != nil {
					t.Errorf("Ping() error = %v", err)
				}
			})
			t.Run("PingCmd", func(t *testing.T) {
				msg := provider.PingCmd(tt.name, tt.provider)()
				result, ok := msg.(provider.PingResultMsg)
				if !ok {
					t.Fatalf("PingCmd returned %T", msg)
				}
				if !result.Reachable || result.Err != nil || result.Backend != tt.name {
					t.Errorf("PingResultMsg = %+v", result)
				}
			})
		})
	}
}

func testProviderBasicChat(t *testing.T, p model.Provider) {
	var chunks []string
	err := p.Chat(context.Background(), testutil.SingleUserMessage("Hello"), func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(chunks) == 0 {
		t.Error("Chat() streamed nothing")
	}
}

func testProviderModelManagement(t *testing.T, p model.Provider) {
	original := p.GetModel()
	defer p.SetModel(original)

	p.SetModel("other-model")
	if p.GetModel() != "other-model" {
		t.Errorf("GetModel() = %q after SetModel", p.GetModel())
	}
	if p.GetDisplayName() == "" {
		t.Error("GetDisplayName() is empty")
	}
}

func TestPingCmdReportsFailure(t *testing.T) {
	mock := testutil.NewMockProvider("m")
	mock.PingFunc = func(ctx context.Context) error { return context.DeadlineExceeded }

	result := provider.PingCmd("mock", mock)().(provider.PingResultMsg)
	if result.Reachable || result.Err == nil {
		t.Errorf("expected unreachable, got %+v", result)
	}
}

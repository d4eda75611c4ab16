package provider

import (
	"testing"

	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/provider/testutil"
	"github.com/ollama/ollama/api"
	"google.golang.org/genai"
)

func TestConvertToOllamaMessages(t *testing.T) {
	tests := []struct {
		name     string
		input    []model.Message
		expected []api.Message
	}{
		{
			name:     "empty slice",
			input:    testutil.EmptyMessages(),
			expected: []api.Message{},
		},
		{
			name:     "single message",
			input:    testutil.SingleUserMessage("Hello"),
			expected: []api.Message{{Role: "user", Content: "Hello"}},
		},
		{
			name: "system prompt stays inline",
			input: []model.Message{
				{Role: "system", Content: "persona"},
				{Role: "user", Content: "Hello"},
			},
			expected: []api.Message{
				{Role: "system", Content: "persona"},
				{Role: "user", Content: "Hello"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToOllamaMessages(tt.input)

			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.expected))
			}
			for i, msg := range result {
				if msg.Role != tt.expected[i].Role {
					t.Errorf("message %d role: got %q, want %q", i, msg.Role, tt.expected[i].Role)
				}
				if msg.Content != tt.expected[i].Content {
					t.Errorf("message %d content: got %q, want %q", i, msg.Content, tt.expected[i].Content)
				}
			}
		})
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	result := ConvertToOpenAIMessages(append(testutil.TestMessages(), model.Message{Role: "tool", Content: "x"}))

	if len(result) != 5 {
		t.Fatalf("length = %d, want 5", len(result))
	}
	if result[0].OfSystem == nil {
		t.Error("message 0 should be a system message")
	}
	if result[1].OfUser == nil {
		t.Error("message 1 should be a user message")
	}
	if result[2].OfAssistant == nil {
		t.Error("message 2 should be an assistant message")
	}
	if result[4].OfUser == nil {
		t.Error("unknown roles should be sent as user messages")
	}
}

func TestConvertToAnthropicMessages(t *testing.T) {
	messages, system := ConvertToAnthropicMessages(testutil.TestMessages())

	if len(system) != 1 || system[0].Text != "You are Vickie's portfolio assistant." {
		t.Fatalf("system blocks = %+v", system)
	}
	if len(messages) != 3 {
		t.Fatalf("messages = %d, want 3 (system removed)", len(messages))
	}

	wantRoles := []string{"user", "assistant", "user"}
	for i, msg := range messages {
		if string(msg.Role) != wantRoles[i] {
			t.Errorf("message %d role = %q, want %q", i, msg.Role, wantRoles[i])
		}
	}
}

func TestConvertToGeminiContents(t *testing.T) {
	contents := ConvertToGeminiContents(testutil.TestMessages())

	if len(contents) != 3 {
		t.Fatalf("contents = %d, want 3 (system skipped)", len(contents))
	}

	tests := []struct {
		role string
		text string
	}{
		{genai.RoleUser, "Hello, who is Vickie?"},
		{genai.RoleModel, "Vickie is a product manager."},
		{genai.RoleUser, "What did she work on?"},
	}
	for i, tt := range tests {
		if contents[i].Role != tt.role {
			t.Errorf("content %d role = %q, want %q", i, contents[i].Role, tt.role)
		}
		if len(contents[i].Parts) != 1 || contents[i].Parts[0].Text != tt.text {
			t.Errorf("content %d parts = %+v", i, contents[i].Parts)
		}
	}
}

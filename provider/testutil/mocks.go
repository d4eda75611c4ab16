package testutil

import (
	"context"
	"sync"

	"github.com/lauvickie617/vickie-ai-portfolio/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	ChatFunc func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error
	PingFunc func(ctx context.Context) error

	mu           sync.Mutex
	currentModel string
	calls        [][]model.Message
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.ChatFunc = mock.defaultChat
	mock.PingFunc = mock.defaultPing
	return mock
}

// StreamingMock returns a provider that streams chunks in order.
func StreamingMock(chunks ...string) *MockProvider {
	mock := NewMockProvider("mock-model")
	mock.ChatFunc = func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
		for _, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := callback(chunk); err != nil {
				return err
			}
		}
		return nil
	}
	return mock
}

// FailingMock returns a provider whose Chat always fails with err.
func FailingMock(err error) *MockProvider {
	mock := NewMockProvider("mock-model")
	mock.ChatFunc = func(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
		return err
	}
	return mock
}

func (m *MockProvider) defaultChat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	// Default: echo back a mock response
	if len(messages) > 0 {
		return callback("Mock response")
	}
	return nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Chat(ctx context.Context, messages []model.Message, callback model.StreamCallback) error {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.mu.Unlock()
	return m.ChatFunc(ctx, messages, callback)
}

// Calls returns the message lists Chat was called with.
func (m *MockProvider) Calls() [][]model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.Message(nil), m.calls...)
}

func (m *MockProvider) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentModel
}

func (m *MockProvider) GetDisplayName() string {
	return m.GetModel()
}

func (m *MockProvider) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

package model

import (
	"context"

	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
)

// Provider is one chat backend. It lives here rather than in package
// provider so the model layer can hold one without an import cycle.
type Provider interface {
	// Chat streams the reply to messages through callback. A callback
	// error stops the stream and comes back from Chat.
	Chat(ctx context.Context, messages []Message, callback StreamCallback) error

	GetModel() string
	// GetDisplayName is shown in the chat header.
	GetDisplayName() string
	SetModel(model string)
	// Ping reports whether the backend answers, without generating a reply
	// where the API allows it.
	Ping(ctx context.Context) error
}

// StreamCallback receives each text chunk as it arrives.
type StreamCallback func(chunk string) error

// Generator is the generation call seen by the interaction pipeline:
// a question plus completed prior turns in, reply text out.
// Errors should carry end-user prose (see GenerationError).
type Generator interface {
	Generate(ctx context.Context, message string, history []conversation.Turn) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, message string, history []conversation.Turn) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, message string, history []conversation.Turn) (string, error) {
	return f(ctx, message, history)
}

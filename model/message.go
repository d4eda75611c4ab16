package model

import (
	"strings"

	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
)

// Message is a provider-facing chat entry. Role is one of "system", "user"
// or "assistant"; each provider maps it onto its own wire format.
type Message struct {
	Role    string
	Content string
}

// BuildAPIMessages lays out a provider request:
//
// Layer 1: system prompt (persona and answer rules)
// Layer 2: completed prior turns
// Layer 3: the question being asked
func BuildAPIMessages(systemPrompt string, history []conversation.Turn, question string) []Message {
	messages := make([]Message, 0, len(history)+2)

	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}

	for _, turn := range history {
		role := "assistant"
		if turn.Role == conversation.HistoryUser {
			role = "user"
		}
		messages = append(messages, Message{Role: role, Content: turn.Text})
	}

	return append(messages, Message{Role: "user", Content: question})
}

// SplitSystem separates system entries from the conversation, for providers
// that take the system prompt out of band.
func SplitSystem(messages []Message) (system string, rest []Message) {
	var parts []string
	for _, msg := range messages {
		if msg.Role == "system" {
			parts = append(parts, msg.Content)
			continue
		}
		rest = append(rest, msg)
	}
	return strings.Join(parts, "\n\n"), rest
}

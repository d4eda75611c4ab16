package testutil

import (
	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
)

// TestMessages returns a sample provider conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		{Role: "system", Content: "You are Vickie's portfolio assistant."},
		{Role: "user", Content: "Hello, who is Vickie?"},
		{Role: "assistant", Content: "Vickie is a product manager."},
		{Role: "user", Content: "What did she work on?"},
	}
}

// TestHistory returns two completed turns as the pipeline hands them over
func TestHistory() []conversation.Turn {
	return []conversation.Turn{
		{Role: conversation.HistoryUser, Text: "Hello, who is Vickie?"},
		{Role: conversation.HistoryModel, Text: "Vickie is a product manager."},
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{{Role: "user", Content: content}}
}

// EmptyMessages returns an empty message slice for edge case testing
func EmptyMessages() []model.Message {
	return []model.Message{}
}

package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{Err: writeClipboard(text)}
	}
}

// lastReply is the newest assistant message that has finished revealing.
func lastReply(messages []conversation.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role == conversation.RoleAssistant && !m.IsGenerating {
			return m.Content
		}
	}
	return ""
}

// formatConversation renders the thread as plain text for the clipboard.
func formatConversation(messages []conversation.Message) string {
	var b strings.Builder
	for _, m := range messages {
		role := assistantLabel
		if m.Role == conversation.RoleUser {
			role = userLabel
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", m.Timestamp.Format("15:04"), role, m.Content)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

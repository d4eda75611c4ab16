package model

import (
	tea "github.com/charmbracelet/bubbletea"
)

// WaitForChange blocks until the controller publishes a change. The UI
// re-arms it after every ConversationChangedMsg.
func (m *Model) WaitForChange() tea.Cmd {
	changes := m.changes
	done := m.ctx.Done()
	return func() tea.Msg {
		select {
		case <-changes:
			return ConversationChangedMsg{}
		case <-done:
			return ControllerClosedMsg{}
		}
	}
}

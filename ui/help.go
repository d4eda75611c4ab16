package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelp() string {
	title := a.theme.Title.Render("Keyboard Shortcuts")
	body := a.help.FullHelpView(a.keys.FullHelp())
	hint := a.theme.Dim.Render(FormatFooter(a.theme, a.keys.Help.Help().Key, "Close", "Esc", "Close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.Border.GetForeground()).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

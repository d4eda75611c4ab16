package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the set of styles for one color scheme. Backgrounds stay
// transparent so the terminal's own colors show through.
type Theme struct {
	Dark bool

	User       lipgloss.Style
	Assistant  lipgloss.Style
	Dim        lipgloss.Style
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Suggestion lipgloss.Style
	Selected   lipgloss.Style
	Number     lipgloss.Style
	Cursor     lipgloss.Style
	Warning    lipgloss.Style
	Border     lipgloss.Style
	Key        lipgloss.Style
}

func NewTheme(dark bool) Theme {
	var (
		text      = lipgloss.Color("235")
		dim       = lipgloss.Color("244")
		accent    = lipgloss.Color("25")
		user      = lipgloss.Color("28")
		warning   = lipgloss.Color("130")
		highlight = lipgloss.Color("91")
	)
	if dark {
		text = lipgloss.Color("15")
		dim = lipgloss.Color("7")
		accent = lipgloss.Color("12")
		user = lipgloss.Color("10")
		warning = lipgloss.Color("11")
		highlight = lipgloss.Color("13")
	}

	return Theme{
		Dark:       dark,
		User:       lipgloss.NewStyle().Foreground(user).Bold(true),
		Assistant:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		Dim:        lipgloss.NewStyle().Foreground(dim),
		Title:      lipgloss.NewStyle().Foreground(text).Bold(true),
		Subtitle:   lipgloss.NewStyle().Foreground(dim),
		Suggestion: lipgloss.NewStyle().Foreground(text),
		Selected:   lipgloss.NewStyle().Foreground(highlight).Bold(true),
		Number:     lipgloss.NewStyle().Foreground(accent),
		Cursor:     lipgloss.NewStyle().Foreground(accent),
		Warning:    lipgloss.NewStyle().Foreground(warning).Bold(true),
		Border:     lipgloss.NewStyle().Foreground(dim),
		Key:        lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}

// Toggle returns the other scheme.
func (t Theme) Toggle() Theme {
	return NewTheme(!t.Dark)
}

// Name is "dark" or "light".
func (t Theme) Name() string {
	if t.Dark {
		return "dark"
	}
	return "light"
}

// ResolveDark maps the configured theme onto a scheme. Anything other than
// "dark" or "light" asks detect, which defaults to the terminal background.
func ResolveDark(theme string, detect func() bool) bool {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "dark":
		return true
	case "light":
		return false
	}
	if detect == nil {
		detect = termenv.HasDarkBackground
	}
	return detect()
}

// FormatFooter pairs keys with descriptions:
// FormatFooter(t, "Enter", "Send", "Alt+H", "Help") gives "Enter Send  Alt+H Help".
func FormatFooter(t Theme, parts ...string) string {
	var result []string
	for i := 0; i+1 < len(parts); i += 2 {
		if parts[i] == "" {
			continue
		}
		result = append(result, parts[i]+" "+t.Key.Render(parts[i+1]))
	}
	return strings.Join(result, "  ")
}

package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
)

type keyMap struct {
	Send           key.Binding
	Help           key.Binding
	ToggleTheme    key.Binding
	Quit           key.Binding
	YankLast       key.Binding
	YankAll        key.Binding
	ClearInput     key.Binding
	ScrollDown     key.Binding
	ScrollUp       key.Binding
	HalfPageDown   key.Binding
	HalfPageUp     key.Binding
	PageDown       key.Binding
	PageUp         key.Binding
	Top            key.Binding
	Bottom         key.Binding
	NextSuggestion key.Binding
	PrevSuggestion key.Binding
	SkipIntro      key.Binding
}

func bind(kb *config.KeyBindingsConfig, action, desc string, extra ...string) key.Binding {
	keys := append([]string{kb.GetActionKey(action)}, extra...)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(kb.DisplayActionKey(action), desc),
	)
}

func newKeyMap(kb *config.KeyBindingsConfig) keyMap {
	if kb == nil {
		kb = config.DefaultKeybindings()
	}
	return keyMap{
		Send:           key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "send")),
		Help:           bind(kb, "help", "help"),
		ToggleTheme:    bind(kb, "toggle_theme", "theme"),
		Quit:           bind(kb, "quit", "quit", "ctrl+c"),
		YankLast:       bind(kb, "yank_last_response", "copy reply"),
		YankAll:        bind(kb, "yank_conversation", "copy chat"),
		ClearInput:     bind(kb, "clear_input", "clear input"),
		ScrollDown:     bind(kb, "scroll_down", "scroll down"),
		ScrollUp:       bind(kb, "scroll_up", "scroll up"),
		HalfPageDown:   bind(kb, "half_page_down", "half page down"),
		HalfPageUp:     bind(kb, "half_page_up", "half page up"),
		PageDown:       bind(kb, "page_down", "page down"),
		PageUp:         bind(kb, "page_up", "page up"),
		Top:            bind(kb, "scroll_to_top", "top"),
		Bottom:         bind(kb, "scroll_to_bottom", "bottom"),
		NextSuggestion: bind(kb, "next_suggestion", "next prompt"),
		PrevSuggestion: bind(kb, "prev_suggestion", "previous prompt"),
		SkipIntro:      bind(kb, "skip_intro", "skip intro"),
	}
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Help, k.ToggleTheme, k.Quit}
}

// FullHelp is the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.NextSuggestion, k.PrevSuggestion, k.ClearInput, k.SkipIntro},
		{k.ScrollDown, k.ScrollUp, k.HalfPageDown, k.HalfPageUp, k.PageDown, k.PageUp, k.Top, k.Bottom},
		{k.YankLast, k.YankAll, k.ToggleTheme, k.Help, k.Quit},
	}
}

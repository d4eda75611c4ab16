package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/lauvickie617/vickie-ai-portfolio/typewriter"
)

const cursorGlyph = "▋"

// playIntro runs the intro animation, forwarding every state on ch. The
// channel is closed when the animation ends or is skipped.
func playIntro(ctx context.Context, intro typewriter.Intro, ch chan<- typewriter.IntroState) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)
		_ = intro.Run(ctx, func(state typewriter.IntroState) {
			select {
			case ch <- state:
			case <-ctx.Done():
			}
		})
		return nil
	}
}

// waitForIntro delivers the next intro state; re-armed after each one.
func waitForIntro(ch <-chan typewriter.IntroState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return introDoneMsg{}
		}
		return introStateMsg{State: state}
	}
}

// centerLine pads s so it sits in the middle of width cells.
func centerLine(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", (width-w)/2) + s
}

// truncate shortens s to width cells with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func (a AppView) renderHero(width, height int) string {
	t := a.theme
	state := a.introState

	title := state.Title
	subtitle := state.Subtitle
	switch state.Phase {
	case typewriter.PhaseTitle:
		title += cursorGlyph
	case typewriter.PhaseSubtitle:
		subtitle += cursorGlyph
	}

	var lines []string
	lines = append(lines, t.Title.Render(centerLine(truncate(title, width), width)))
	lines = append(lines, "")
	lines = append(lines, t.Subtitle.Render(centerLine(truncate(subtitle, width), width)))

	if state.Phase == typewriter.PhaseComplete {
		lines = append(lines, "", "")
		lines = append(lines, a.renderSuggestions(width)...)
	}

	block := strings.Join(lines, "\n")
	top := (height - len(lines)) / 3
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + block
}

func (a AppView) renderSuggestions(width int) []string {
	t := a.theme
	visible := a.visibleSuggestions()
	if len(visible) == 0 {
		return []string{t.Dim.Render(centerLine("No matching suggestions. Press Enter to ask anyway.", width))}
	}

	// Numbers refer to the full list so they stay stable while filtering.
	number := make(map[string]int, len(a.suggestions))
	for i, s := range a.suggestions {
		number[s] = i + 1
	}

	widest := 0
	for _, s := range visible {
		if w := runewidth.StringWidth(s) + 4; w > widest {
			widest = w
		}
	}
	if widest > width {
		widest = width
	}
	pad := strings.Repeat(" ", (width-widest)/2)

	lines := make([]string, 0, len(visible))
	for i, s := range visible {
		label := truncate(s, widest-4)
		prefix := t.Number.Render(fmt.Sprintf("%d. ", number[s]))
		if i == a.selectedSuggestion {
			lines = append(lines, pad+t.Selected.Render("› ")+prefix+t.Selected.Render(label))
			continue
		}
		lines = append(lines, pad+"  "+prefix+t.Suggestion.Render(label))
	}
	return lines
}

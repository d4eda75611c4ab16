package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
)

// Rows used around the message area: separator, input and footer.
const chromeHeight = 3

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		a.ready = true
		return a, tea.Batch(a.refreshThread(true)...)

	case conversationChangedMsg:
		cmds := a.refreshThread(true)
		cmds = append(cmds, a.ctrl.WaitForChange())
		return a, tea.Batch(cmds...)

	case controllerClosedMsg:
		a.Stop()
		return a, tea.Quit

	case introStateMsg:
		if a.introRunning() {
			a.introState = msg.State
		}
		return a, waitForIntro(a.introCh)

	case introDoneMsg:
		if a.introRunning() {
			a.introState = a.opts.Intro.Final()
		}
		return a, nil

	case markdownRenderedMsg:
		if a.rendering[msg.MessageID] == msg.Width {
			delete(a.rendering, msg.MessageID)
		}
		if msg.Width != a.renderWidth {
			return a, nil
		}
		a.rendered[msg.MessageID] = msg
		a.refreshThread(false)
		return a, nil

	case clipboardCopiedMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] clipboard write failed: %v", msg.Err)
			}
			a.status = "Could not copy to the clipboard"
			return a, nil
		}
		a.status = "Copied to clipboard"
		return a, nil

	case pingResultMsg:
		if !msg.Reachable {
			a.warning = "The AI service at " + msg.Backend + " is not reachable. Answers may fail."
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		a.Stop()
		return a, tea.Quit
	}

	if a.showHelp {
		if key.Matches(msg, a.keys.Help) || msg.String() == "esc" {
			a.showHelp = false
		}
		return a, nil
	}

	hero := !a.ctrl.HasMessages()

	switch {
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, a.keys.SkipIntro):
		if a.introRunning() {
			a.skipIntro()
		} else {
			a.selectedSuggestion = -1
		}
		return a, nil

	case key.Matches(msg, a.keys.ToggleTheme):
		a.theme = a.theme.Toggle()
		a.applyTheme()
		a.refreshThread(false)
		a.status = "Theme: " + a.theme.Name()
		return a, nil

	case key.Matches(msg, a.keys.YankLast):
		text := lastReply(a.ctrl.Messages())
		if text == "" {
			a.status = "No reply to copy yet"
			return a, nil
		}
		return a, copyToClipboard(text)

	case key.Matches(msg, a.keys.YankAll):
		if !a.ctrl.HasMessages() {
			a.status = "Nothing to copy yet"
			return a, nil
		}
		return a, copyToClipboard(formatConversation(a.ctrl.Messages()))

	case key.Matches(msg, a.keys.ClearInput):
		a.input.Reset()
		a.selectedSuggestion = -1
		return a, nil

	case key.Matches(msg, a.keys.NextSuggestion) && hero:
		a.selectedSuggestion = cycle(a.selectedSuggestion, 1, len(a.visibleSuggestions()))
		return a, nil

	case key.Matches(msg, a.keys.PrevSuggestion) && hero:
		a.selectedSuggestion = cycle(a.selectedSuggestion, -1, len(a.visibleSuggestions()))
		return a, nil

	case key.Matches(msg, a.keys.Send):
		return a.submit()

	case key.Matches(msg, a.keys.ScrollDown):
		a.viewport.ScrollDown(1)
		return a, nil
	case key.Matches(msg, a.keys.ScrollUp):
		a.viewport.ScrollUp(1)
		return a, nil
	case key.Matches(msg, a.keys.HalfPageDown):
		a.viewport.HalfPageDown()
		return a, nil
	case key.Matches(msg, a.keys.HalfPageUp):
		a.viewport.HalfPageUp()
		return a, nil
	case key.Matches(msg, a.keys.PageDown):
		a.viewport.PageDown()
		return a, nil
	case key.Matches(msg, a.keys.PageUp):
		a.viewport.PageUp()
		return a, nil
	case key.Matches(msg, a.keys.Top):
		a.viewport.GotoTop()
		return a, nil
	case key.Matches(msg, a.keys.Bottom):
		a.viewport.GotoBottom()
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() != before {
		a.selectedSuggestion = -1
		a.status = ""
	}
	return a, cmd
}

// submit sends the input, or the highlighted or numbered suggested prompt
// while the hero is showing.
func (a AppView) submit() (tea.Model, tea.Cmd) {
	text := a.input.Value()

	if !a.ctrl.HasMessages() {
		visible := a.visibleSuggestions()
		if a.selectedSuggestion >= 0 && a.selectedSuggestion < len(visible) {
			text = visible[a.selectedSuggestion]
		} else if s, ok := SuggestionByNumber(text, a.suggestions); ok {
			text = s
		}
	}

	if _, ok := a.ctrl.Submit(text); !ok {
		return a, nil
	}

	a.input.Reset()
	a.selectedSuggestion = -1
	a.status = ""
	if a.introRunning() {
		a.skipIntro()
	}
	return a, nil
}

func (a *AppView) resize() {
	a.input.Width = max(a.width-4, 10)
	a.help.Width = a.width
	a.viewport.Width = a.width
	// one row below the thread for the thinking indicator
	a.viewport.Height = max(a.height-chromeHeight-1, 1)

	if w := markdownWidth(a.width); w != a.renderWidth {
		a.renderWidth = w
		clear(a.rendered)
		clear(a.rendering)
	}
}

// refreshThread redraws the thread and requests markdown for finished
// replies that have not been rendered at the current width.
func (a *AppView) refreshThread(gotoBottom bool) []tea.Cmd {
	if !a.ready {
		return nil
	}

	messages := a.ctrl.Messages()
	a.viewport.SetContent(a.renderThread(messages))
	if gotoBottom {
		a.viewport.GotoBottom()
	}

	var cmds []tea.Cmd
	for _, m := range messages {
		if !needsMarkdown(m) {
			continue
		}
		if r, ok := a.rendered[m.ID]; ok && r.Content == m.Content {
			continue
		}
		if w, ok := a.rendering[m.ID]; ok && w == a.renderWidth {
			continue
		}
		a.rendering[m.ID] = a.renderWidth
		cmds = append(cmds, renderMarkdownCmd(m.ID, m.Content, a.renderWidth))
	}
	return cmds
}

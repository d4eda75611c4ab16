package ui

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
	appmodel "github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/provider"
	"github.com/lauvickie617/vickie-ai-portfolio/typewriter"
)

func TestFilterSuggestions(t *testing.T) {
	all := config.SuggestedQuestions

	tests := []struct {
		name  string
		query string
		first string
		count int
	}{
		{"empty keeps all", "", all[0], len(all)},
		{"whitespace keeps all", "   ", all[0], len(all)},
		{"number keeps all", "3", all[0], len(all)},
		{"fuzzy visa", "visa", "What is your visa status?", 1},
		{"fuzzy notice", "notice", "What is your notice period?", 1},
		{"no match", "zzzz", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSuggestions(tt.query, all)
			if len(got) != tt.count {
				t.Fatalf("FilterSuggestions(%q) = %v, want %d entries", tt.query, got, tt.count)
			}
			if tt.count > 0 && got[0] != tt.first {
				t.Errorf("first match = %q, want %q", got[0], tt.first)
			}
		})
	}
}

func TestSuggestionByNumber(t *testing.T) {
	all := []string{"a", "b", "c", "d"}
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", "a", true},
		{" 4 ", "d", true},
		{"0", "", false},
		{"5", "", false},
		{"-1", "", false},
		{"two", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := SuggestionByNumber(tt.input, all)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SuggestionByNumber(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCycle(t *testing.T) {
	tests := []struct {
		selected, delta, n, want int
	}{
		{-1, 1, 4, 0},
		{-1, -1, 4, 3},
		{0, 1, 4, 1},
		{3, 1, 4, 0},
		{0, -1, 4, 3},
		{2, 1, 0, -1},
	}
	for _, tt := range tests {
		if got := cycle(tt.selected, tt.delta, tt.n); got != tt.want {
			t.Errorf("cycle(%d, %d, %d) = %d, want %d", tt.selected, tt.delta, tt.n, got, tt.want)
		}
	}
}

func TestCenterAndTruncate(t *testing.T) {
	if got := centerLine("abcd", 10); got != "   abcd" {
		t.Errorf("centerLine = %q", got)
	}
	// wide runes take two cells each
	if got := centerLine("你好", 8); got != "  你好" {
		t.Errorf("centerLine wide = %q", got)
	}
	if got := centerLine("too long", 4); got != "too long" {
		t.Errorf("centerLine overflow = %q", got)
	}
	if got := truncate("Hi, I'm Vickie Liu.", 8); got != "Hi, I'm…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
}

func TestResolveDark(t *testing.T) {
	detectDark := func() bool { return true }
	detectLight := func() bool { return false }

	tests := []struct {
		theme  string
		detect func() bool
		want   bool
	}{
		{"dark", detectLight, true},
		{"LIGHT", detectDark, false},
		{"auto", detectDark, true},
		{"auto", detectLight, false},
		{"", detectLight, false},
	}
	for _, tt := range tests {
		if got := ResolveDark(tt.theme, tt.detect); got != tt.want {
			t.Errorf("ResolveDark(%q) = %v, want %v", tt.theme, got, tt.want)
		}
	}
}

func TestThemeToggle(t *testing.T) {
	dark := NewTheme(true)
	assert.Equal(t, "dark", dark.Name())
	light := dark.Toggle()
	assert.Equal(t, "light", light.Name())
	assert.True(t, light.Toggle().Dark)
}

func TestFormatFooter(t *testing.T) {
	got := stripANSI(FormatFooter(NewTheme(true), "Enter", "Send", "", "Skipped", "Alt+H", "Help"))
	assert.Equal(t, "Enter Send  Alt+H Help", got)
}

func TestClipboardText(t *testing.T) {
	at := time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)
	messages := []conversation.Message{
		{ID: "1", Role: conversation.RoleUser, Content: "Who is Vickie?", Timestamp: at},
		{ID: "2", Role: conversation.RoleAssistant, Content: "A product manager.", Timestamp: at},
		{ID: "3", Role: conversation.RoleUser, Content: "Visa?", Timestamp: at},
		{ID: "4", Role: conversation.RoleAssistant, Content: "Still typ", Timestamp: at, IsGenerating: true},
	}

	assert.Equal(t, "A product manager.", lastReply(messages))
	assert.Empty(t, lastReply(messages[:1]))

	want := "[09:30] You:\nWho is Vickie?\n\n[09:30] Vickie's AI:\nA product manager.\n"
	assert.Equal(t, want, formatConversation(messages[:2]))
}

func TestRenderMarkdown(t *testing.T) {
	out := stripANSI(RenderMarkdown("Vickie led **three launches**. See [her site](https://vickie.example/work).", 80))
	assert.Contains(t, out, "three launches")
	assert.Contains(t, out, "https://vickie.example/work")
	assert.NotContains(t, out, "[her site]")
	assert.NotContains(t, out, "**")
}

func TestNeedsMarkdown(t *testing.T) {
	assert.True(t, needsMarkdown(conversation.Message{Role: conversation.RoleAssistant, Content: "done"}))
	assert.False(t, needsMarkdown(conversation.Message{Role: conversation.RoleAssistant, Content: "typing", IsGenerating: true}))
	assert.False(t, needsMarkdown(conversation.Message{Role: conversation.RoleUser, Content: "hi"}))
	assert.False(t, needsMarkdown(conversation.Message{Role: conversation.RoleAssistant, Content: "  "}))
}

// view helpers

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func newController(t *testing.T, reply string) *appmodel.Model {
	t.Helper()
	opts := appmodel.DefaultOptions()
	opts.RevealDelay = time.Millisecond
	ctrl := appmodel.NewModel(appmodel.GeneratorFunc(func(ctx context.Context, message string, history []conversation.Turn) (string, error) {
		return reply, nil
	}), opts)
	t.Cleanup(ctrl.Close)
	return ctrl
}

func newView(t *testing.T, ctrl *appmodel.Model, skipIntro bool) AppView {
	t.Helper()
	a := NewAppView(ctrl, Options{
		Keybindings: config.DefaultKeybindings(),
		Theme:       "dark",
		SkipIntro:   skipIntro,
	})
	t.Cleanup(a.Stop)
	return update(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, a AppView, msg tea.Msg) AppView {
	t.Helper()
	m, _ := a.Update(msg)
	view, ok := m.(AppView)
	require.True(t, ok)
	return view
}

func typeText(t *testing.T, a AppView, s string) AppView {
	t.Helper()
	return update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func enter(t *testing.T, a AppView) AppView {
	return update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestHeroShowsIntroAndSuggestions(t *testing.T) {
	a := newView(t, newController(t, "ok"), true)

	view := stripANSI(a.View())
	assert.Contains(t, view, "Hi, I'm Vickie Liu.")
	assert.Contains(t, view, "Ask my AI about my Product Management journey.")
	for i, q := range config.SuggestedQuestions {
		assert.Contains(t, view, q, "suggestion %d", i+1)
	}
}

func TestSuggestionsFilterWhileTyping(t *testing.T) {
	a := newView(t, newController(t, "ok"), true)
	a = typeText(t, a, "visa")

	view := stripANSI(a.View())
	assert.Contains(t, view, "2. What is your visa status?")
	assert.NotContains(t, view, "What is your notice period?")
}

func TestSubmitByNumber(t *testing.T) {
	ctrl := newController(t, "Vickie is on an H-1B.")
	a := newView(t, ctrl, true)

	a = typeText(t, a, "2")
	a = enter(t, a)
	ctrl.Wait()

	messages := ctrl.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, config.SuggestedQuestions[1], messages[0].Content)
	assert.Equal(t, "Vickie is on an H-1B.", messages[1].Content)
	assert.Empty(t, a.input.Value())

	a = update(t, a, conversationChangedMsg{})
	view := stripANSI(a.View())
	assert.Contains(t, view, userLabel)
	assert.Contains(t, view, "Vickie is on an H-1B.")
	assert.NotContains(t, view, "Hi, I'm Vickie Liu.")
}

func TestSubmitSelectedSuggestion(t *testing.T) {
	ctrl := newController(t, "ok")
	a := newView(t, ctrl, true)

	a = update(t, a, tea.KeyMsg{Type: tea.KeyTab})
	a = update(t, a, tea.KeyMsg{Type: tea.KeyTab})
	a = update(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 0, a.selectedSuggestion)

	a = enter(t, a)
	ctrl.Wait()
	require.NotEmpty(t, ctrl.Messages())
	assert.Equal(t, config.SuggestedQuestions[0], ctrl.Messages()[0].Content)
	assert.Equal(t, -1, a.selectedSuggestion)
}

func TestBlankInputIsIgnored(t *testing.T) {
	ctrl := newController(t, "ok")
	a := newView(t, ctrl, true)

	a = typeText(t, a, "   ")
	a = enter(t, a)
	ctrl.Wait()
	assert.False(t, ctrl.HasMessages())
}

func TestNumbersAreLiteralOnceChatting(t *testing.T) {
	ctrl := newController(t, "ok")
	a := newView(t, ctrl, true)

	a = typeText(t, a, "Hello")
	a = enter(t, a)
	ctrl.Wait()

	a = typeText(t, a, "3")
	a = enter(t, a)
	ctrl.Wait()

	messages := ctrl.Messages()
	require.Len(t, messages, 4)
	assert.Equal(t, "3", messages[2].Content)
}

func TestSkipIntro(t *testing.T) {
	a := newView(t, newController(t, "ok"), false)
	require.True(t, a.introRunning())
	assert.NotContains(t, stripANSI(a.View()), config.SuggestedQuestions[0])

	a = update(t, a, introStateMsg{State: typewriter.IntroState{Phase: typewriter.PhaseTitle, Title: "Hi, I"}})
	assert.Contains(t, stripANSI(a.View()), "Hi, I"+cursorGlyph)

	a = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.introRunning())
	assert.Error(t, a.introCtx.Err(), "skipping cancels the animation")

	// late frames from the animation are ignored
	a = update(t, a, introStateMsg{State: typewriter.IntroState{Phase: typewriter.PhaseTitle, Title: "Hi"}})
	assert.Equal(t, typewriter.PhaseComplete, a.introState.Phase)
	assert.Contains(t, stripANSI(a.View()), config.SuggestedQuestions[0])
}

func TestIntroChannelDrivesState(t *testing.T) {
	a := newView(t, newController(t, "ok"), false)

	a.introCh <- typewriter.IntroState{Phase: typewriter.PhaseSubtitle, Title: "Hi, I'm Vickie Liu.", Subtitle: "Ask"}
	msg := waitForIntro(a.introCh)()
	a = update(t, a, msg)
	assert.Equal(t, "Ask", a.introState.Subtitle)

	close(a.introCh)
	assert.IsType(t, introDoneMsg{}, waitForIntro(a.introCh)())
}

func TestHelpToggle(t *testing.T) {
	a := newView(t, newController(t, "ok"), true)

	a = update(t, a, altKey('h'))
	require.True(t, a.showHelp)
	assert.Contains(t, stripANSI(a.View()), "Keyboard Shortcuts")

	a = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.showHelp)
}

func TestThemeKey(t *testing.T) {
	a := newView(t, newController(t, "ok"), true)
	require.True(t, a.theme.Dark)

	a = update(t, a, altKey('t'))
	assert.False(t, a.theme.Dark)
	assert.Equal(t, "Theme: light", a.status)
}

func TestYankLastReply(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	defer func() { writeClipboard = orig }()

	ctrl := newController(t, "Vickie is a product manager.")
	a := newView(t, ctrl, true)

	_, cmd := a.Update(altKey('y'))
	assert.Nil(t, cmd, "nothing to copy before the first reply")

	a = typeText(t, a, "Who is Vickie?")
	a = enter(t, a)
	ctrl.Wait()

	_, cmd = a.Update(altKey('y'))
	require.NotNil(t, cmd)
	a = update(t, a, cmd())
	assert.Equal(t, "Vickie is a product manager.", copied)
	assert.Equal(t, "Copied to clipboard", a.status)

	_, cmd = a.Update(altKey('c'))
	require.NotNil(t, cmd)
	cmd()
	assert.Contains(t, copied, "You:\nWho is Vickie?")
}

func TestMarkdownRenderIsKeyedByWidth(t *testing.T) {
	ctrl := newController(t, "**Shipped** it")
	a := newView(t, ctrl, true)

	a = typeText(t, a, "What did she ship?")
	a = enter(t, a)
	ctrl.Wait()

	m, cmd := a.Update(conversationChangedMsg{})
	a = m.(AppView)
	require.NotNil(t, cmd)
	reply := ctrl.Messages()[1]
	assert.Equal(t, a.renderWidth, a.rendering[reply.ID])

	stale := markdownRenderedMsg{MessageID: reply.ID, Content: reply.Content, Width: a.renderWidth + 10, Rendered: "STALE"}
	a = update(t, a, stale)
	assert.NotContains(t, a.View(), "STALE")

	fresh := markdownRenderedMsg{MessageID: reply.ID, Content: reply.Content, Width: a.renderWidth, Rendered: "FRESH"}
	a = update(t, a, fresh)
	assert.Contains(t, a.View(), "FRESH")
	assert.NotContains(t, a.rendering, reply.ID)

	// a resize invalidates earlier renders
	a = update(t, a, tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.NotContains(t, a.View(), "FRESH")
}

func TestPingWarning(t *testing.T) {
	a := newView(t, newController(t, "ok"), true)

	a = update(t, a, pingResultMsg{Backend: "gemini", Reachable: true})
	assert.Empty(t, a.warning)

	a = update(t, a, provider.PingResultMsg{Backend: "http://localhost:3001/api", Reachable: false})
	assert.Contains(t, stripANSI(a.View()), "not reachable")
}

func TestThinkingIndicator(t *testing.T) {
	release := make(chan struct{})
	opts := appmodel.DefaultOptions()
	opts.RevealDelay = time.Millisecond
	ctrl := appmodel.NewModel(appmodel.GeneratorFunc(func(ctx context.Context, message string, history []conversation.Turn) (string, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return "done", nil
	}), opts)
	defer ctrl.Close()

	a := newView(t, ctrl, true)
	a = typeText(t, a, "Slow question")
	a = enter(t, a)
	a = update(t, a, conversationChangedMsg{})

	assert.True(t, strings.Contains(stripANSI(a.View()), "Thinking…"))

	close(release)
	ctrl.Wait()
	a = update(t, a, conversationChangedMsg{})
	assert.NotContains(t, stripANSI(a.View()), "Thinking…")
}

func TestThreadFollowsNewContent(t *testing.T) {
	ctrl := newController(t, strings.Repeat("Shipped a launch.\n\n", 40))
	a := newView(t, ctrl, true)

	a = typeText(t, a, "What did you ship?")
	a = enter(t, a)
	ctrl.Wait()
	a = update(t, a, conversationChangedMsg{})
	require.Greater(t, a.viewport.TotalLineCount(), a.viewport.Height)
	require.True(t, a.viewport.AtBottom())

	a.viewport.ScrollUp(5)
	require.False(t, a.viewport.AtBottom())

	_, ok := ctrl.Submit("Anything else?")
	require.True(t, ok)
	ctrl.Wait()
	a = update(t, a, conversationChangedMsg{})
	assert.True(t, a.viewport.AtBottom())
}

func TestControllerClosedQuits(t *testing.T) {
	a := newView(t, newController(t, "ok"), true)
	_, cmd := a.Update(controllerClosedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

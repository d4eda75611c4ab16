package ui

import (
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
)

const (
	barGlyph       = "┃"
	assistantLabel = "Vickie's AI"
	userLabel      = "You"
)

func (a AppView) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.showHelp {
		return a.renderHelp()
	}

	var body string
	if a.ctrl.HasMessages() {
		body = a.viewport.View() + "\n" + a.renderActivity()
	} else {
		h := max(a.height-chromeHeight, 1)
		body = lipgloss.NewStyle().Height(h).MaxHeight(h).Render(a.renderHero(a.width, h))
	}

	separator := a.theme.Border.Render(strings.Repeat("─", max(a.width, 1)))
	return lipgloss.JoinVertical(lipgloss.Left, body, separator, a.input.View(), a.renderFooter())
}

// renderActivity is the row under the thread: the spinner while any
// answer is pending, otherwise the latest status.
func (a AppView) renderActivity() string {
	if a.ctrl.Thinking() {
		return a.spinner.View() + " " + a.theme.Dim.Render("Thinking…")
	}
	if a.status != "" {
		return a.theme.Dim.Render(a.status)
	}
	return ""
}

func (a AppView) renderFooter() string {
	keys := a.help.ShortHelpView(a.keys.ShortHelp())
	if a.warning != "" {
		return a.theme.Warning.Render(truncate(a.warning, a.width))
	}
	if !a.ctrl.HasMessages() && a.status != "" {
		return keys + "  " + a.theme.Dim.Render(a.status)
	}
	return keys
}

func (a AppView) renderThread(messages []conversation.Message) string {
	width := max(a.width-2, 10)
	var content strings.Builder
	for _, m := range messages {
		content.WriteString(a.renderMessage(m, width))
	}
	return strings.TrimRight(content.String(), "\n")
}

// renderMessage draws one message with a colored bar down its left edge.
func (a AppView) renderMessage(m conversation.Message, width int) string {
	roleStyle := a.theme.Assistant
	role := assistantLabel
	if m.Role == conversation.RoleUser {
		roleStyle = a.theme.User
		role = userLabel
	}

	var body string
	switch {
	case m.IsGenerating:
		body = wrap(m.Content, width-2) + a.theme.Cursor.Render(cursorGlyph)
	case m.Role == conversation.RoleAssistant:
		if r, ok := a.rendered[m.ID]; ok && r.Content == m.Content {
			body = r.Rendered
		} else {
			body = wrap(m.Content, width-2)
		}
	default:
		body = wrap(m.Content, width-2)
	}

	bar := roleStyle.Render(barGlyph)
	timestamp := a.theme.Dim.Render(m.Timestamp.Format("15:04"))

	var out strings.Builder
	out.WriteString(bar + " " + roleStyle.Render(role) + " " + timestamp + "\n")
	for _, line := range strings.Split(body, "\n") {
		out.WriteString(bar + " " + line + "\n")
	}
	out.WriteString("\n")
	return out.String()
}

func wrap(s string, width int) string {
	if s == "" {
		return ""
	}
	return lipgloss.NewStyle().Width(max(width, 1)).Render(s)
}

// needsMarkdown reports whether m is a finished reply worth rendering.
func needsMarkdown(m conversation.Message) bool {
	return m.Role == conversation.RoleAssistant && !m.IsGenerating && strings.TrimSpace(m.Content) != ""
}

func markdownWidth(termWidth int) int {
	return max(termWidth-6, 20)
}

func renderMarkdownCmd(id, content string, width int) tea.Cmd {
	return func() tea.Msg {
		return markdownRenderedMsg{
			MessageID: id,
			Content:   content,
			Width:     width,
			Rendered:  RenderMarkdown(content, width),
		}
	}
}

// RenderMarkdown renders a reply for the terminal. Links are shown as bare
// URLs so the terminal can make them clickable.
func RenderMarkdown(content string, width int) string {
	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	doc := p.Parse([]byte(content))
	rendered := gomarkdown.Render(doc, markdown.NewRenderer(width, 0))

	out := inlineCodeRegex.ReplaceAllString(string(rendered), "\x1b[31m$1\x1b[0m")
	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[UI] rendered %d chars of markdown at width %d", len(content), width)
	}
	return strings.Trim(out, "\n")
}

package model

import "github.com/lauvickie617/vickie-ai-portfolio/typewriter"

// ConversationChangedMsg is delivered whenever the thread or the thinking
// indicator changed.
type ConversationChangedMsg struct{}

// ControllerClosedMsg ends the change listener once the controller is torn down.
type ControllerClosedMsg struct{}

type IntroStateMsg struct {
	State typewriter.IntroState
}

type IntroDoneMsg struct{}

// MarkdownRenderedMsg carries a finished reply rendered for a terminal
// width. Content is the source text, so a stale render can be detected.
type MarkdownRenderedMsg struct {
	MessageID string
	Content   string
	Width     int
	Rendered  string
}

type ClipboardCopiedMsg struct {
	Err error
}

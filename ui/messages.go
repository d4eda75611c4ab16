package ui

import (
	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/provider"
)

// Message type aliases - these are defined in the model package
type (
	conversationChangedMsg = model.ConversationChangedMsg
	controllerClosedMsg    = model.ControllerClosedMsg
	introStateMsg          = model.IntroStateMsg
	introDoneMsg           = model.IntroDoneMsg
	markdownRenderedMsg    = model.MarkdownRenderedMsg
	clipboardCopiedMsg     = model.ClipboardCopiedMsg
	pingResultMsg          = provider.PingResultMsg
)

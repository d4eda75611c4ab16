package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message in the thread.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryRole is the role vocabulary expected by the generation call.
type HistoryRole string

const (
	HistoryUser  HistoryRole = "user"
	HistoryModel HistoryRole = "model"
)

// Message is one entry of the chat thread.
// Assistant content is rewritten in place while IsGenerating is true.
type Message struct {
	ID           string
	Role         Role
	Content      string
	Timestamp    time.Time
	IsGenerating bool
}

// Turn is a completed prior exchange entry handed to the generation call.
type Turn struct {
	Role HistoryRole `json:"role"`
	Text string      `json:"text"`
}

// NewID returns a time-ordered identifier so ids created within the same
// process sort in creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// NewUserMessage builds an immutable user message with a fresh id.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantPlaceholder builds an empty assistant message that a reveal
// loop fills in.
func NewAssistantPlaceholder() Message {
	return Message{
		ID:           NewID(),
		Role:         RoleAssistant,
		Timestamp:    time.Now(),
		IsGenerating: true,
	}
}

// HistoryRoleFor maps a thread role onto the generation call's vocabulary.
func HistoryRoleFor(r Role) HistoryRole {
	if r == RoleUser {
		return HistoryUser
	}
	return HistoryModel
}

package model

import "errors"

// Prose shown when a failure carries no user-facing message of its own.
const (
	FallbackProse    = "Sorry, something went wrong while talking to the AI service. Please try again later."
	UnavailableProse = "The AI service is temporarily unavailable. Please try again later."
	EmptyReplyProse  = "Sorry, I couldn't process that request."
	CredentialsProse = "The AI service is not configured yet. Please try again later."
	QuotaProse       = "The AI service is busy right now. Please try again in a minute."
	TimeoutProse     = "The AI service took too long to answer. Please try again."
)

// GenerationError is a failed generation call whose Prose is safe to show
// to the visitor as a chat reply.
type GenerationError struct {
	Prose string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Prose
	}
	return e.Prose + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError wraps err with visitor-facing prose.
func NewGenerationError(prose string, err error) *GenerationError {
	return &GenerationError{Prose: prose, Err: err}
}

// ProseFor extracts the visitor-facing text of a generation failure.
func ProseFor(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) && genErr.Prose != "" {
		return genErr.Prose
	}
	return FallbackProse
}

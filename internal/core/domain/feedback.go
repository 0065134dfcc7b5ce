package domain

import "time"

// FeedbackTypeGeneral tags whole-document feedback produced by the legacy
// suggestion endpoint.
const FeedbackTypeGeneral = "general"

// AIFeedback is a suggestion recorded against a document. Whole-document
// feedback spans [0, len(content)).
type AIFeedback struct {
	// ID is the unique identifier for the feedback.
	ID string

	// DocumentID links the feedback to its document.
	DocumentID string

	// FeedbackType is one of "general", "grammar", "content", "style".
	FeedbackType string

	// StartIndex and EndIndex bound the commented range.
	StartIndex int
	EndIndex   int

	// Suggestion is the feedback text.
	Suggestion string

	// CreatedAt is when the feedback was recorded.
	CreatedAt time.Time
}

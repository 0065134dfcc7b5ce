package driving

import (
	"context"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// SuggestionState is the state of the suggestion applier.
type SuggestionState int

const (
	// StateIdle means no suggestion list is active.
	StateIdle SuggestionState = iota

	// StatePending means a non-empty suggestion list is displayed.
	StatePending

	// StateApplying means a picked suggestion is being written to the buffer.
	StateApplying
)

// String returns the string representation of the state.
func (s SuggestionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "suggestions-pending"
	case StateApplying:
		return "applying"
	default:
		return "unknown"
	}
}

// SessionSnapshot is a point-in-time copy of editor session state for display.
type SessionSnapshot struct {
	DocumentID     string
	Title          string
	State          SuggestionState
	Suggestions    []domain.Suggestion
	SelectedWord   string
	WordAnalysis   []domain.Suggestion
	CursorPosition domain.CursorPosition
	Loading        bool
	Saving         bool
	Notice         *domain.Notice
	Closed         bool
}

// EditorSession binds a text buffer to persistence and suggestions for one
// open document.
type EditorSession interface {
	// Open loads a document into the buffer. domain.NewDocumentID starts a
	// blank document that is created on first save.
	Open(ctx context.Context, documentID string) error

	// SetTitle changes the title and schedules a save. It is ignored while a
	// document is being opened.
	SetTitle(title string)

	// RequestSuggestions fetches content suggestions for the whole text.
	RequestSuggestions(ctx context.Context) error

	// ApplySuggestion applies the suggestion at index of the active list.
	ApplySuggestion(index int) error

	// DismissSuggestions clears the active list.
	DismissSuggestions()

	// DismissNotice hides the current notice.
	DismissNotice()

	// Save persists the document now. It is a no-op while a save is in flight.
	Save(ctx context.Context) error

	// Clear resets the editor to a new blank document.
	Clear()

	// Snapshot returns the current state.
	Snapshot() SessionSnapshot

	// OnUpdate registers fn for every state change.
	OnUpdate(fn func(SessionSnapshot)) func()

	// Close tears the session down: pending debounced triggers are stopped,
	// buffer subscriptions are released and late responses are ignored.
	Close()
}

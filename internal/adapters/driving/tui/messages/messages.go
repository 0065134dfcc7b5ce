// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists persisted documents.
	ViewDocuments ViewType = iota
	// ViewEditor edits one document.
	ViewEditor
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewEditor:
		return "editor"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// DocumentsLoaded carries the document list.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentDeleted is sent after a delete completes.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// FeedbackLoaded carries whole-document feedback.
type FeedbackLoaded struct {
	DocumentID string
	Feedback   *domain.AIFeedback
	Err        error
}

// OpenDocument asks the app to open a document in the editor.
// DocumentID domain.NewDocumentID opens a blank document.
type OpenDocument struct {
	DocumentID string
}

// DocumentOpened is sent when the editor finished loading a document.
type DocumentOpened struct {
	DocumentID string
	Err        error
}

// SessionUpdated signals that editor session state changed. Seq identifies
// the session that raised it.
type SessionUpdated struct {
	Seq uint64
}

// SuggestionsRequested is sent when a manual suggestion request completes.
type SuggestionsRequested struct {
	Err error
}

// DocumentSaved is sent when a manual save completes.
type DocumentSaved struct {
	Err error
}

// NoticeExpired is sent when a notice's display time elapses.
type NoticeExpired struct{}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

package driven

import "github.com/custodia-labs/scribe-cli/internal/core/domain"

// ChangeSource identifies who caused a text change.
type ChangeSource string

const (
	// SourceUser marks edits typed by the user.
	SourceUser ChangeSource = "user"

	// SourceAPI marks edits made programmatically (loading, applying suggestions).
	SourceAPI ChangeSource = "api"
)

// TextChange describes a mutation of the buffer.
type TextChange struct {
	// Offset is where the change happened.
	Offset int

	// Deleted is the number of runes removed at Offset.
	Deleted int

	// Inserted is the text inserted at Offset.
	Inserted string

	// Source identifies the origin of the change.
	Source ChangeSource
}

// Subscription is an owned event-stream registration. Close releases it;
// once Close returns, the callback is never invoked again.
type Subscription interface {
	Close()
}

// TextBuffer wraps the rich-text widget behind the editor.
// All offsets count runes over the plain-text projection.
type TextBuffer interface {
	// Text returns the full plain text.
	Text() string

	// TextRange returns length runes starting at offset, clamped to the text.
	TextRange(offset, length int) string

	// Len returns the text length in runes.
	Len() int

	// Contents returns the rich-text projection of the buffer.
	Contents() domain.Delta

	// SetContents replaces the buffer with the given rich text.
	SetContents(delta domain.Delta)

	// SetText replaces the buffer with plain text.
	SetText(text string)

	// DeleteText removes length runes at offset.
	DeleteText(offset, length int)

	// InsertText inserts text at offset.
	InsertText(offset int, text string)

	// Selection returns the current selection, or false if the buffer has no focus.
	Selection() (domain.Selection, bool)

	// Bounds returns the on-screen box of the character at offset,
	// relative to the editor container.
	Bounds(offset int) (domain.Rect, bool)

	// Container returns the editor container box in screen coordinates.
	Container() domain.Rect

	// OnTextChange registers fn for every mutation.
	OnTextChange(fn func(TextChange)) Subscription

	// OnSelectionChange registers fn for every selection change. ok is false
	// when the buffer lost focus.
	OnSelectionChange(fn func(sel domain.Selection, ok bool)) Subscription
}

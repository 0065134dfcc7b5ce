package domain

import (
	"strings"
	"time"
)

// NewDocumentID is the placeholder identifier of a document that has not
// been saved yet. The first successful save replaces it with the id
// generated by the persistence backend.
const NewDocumentID = "new"

// DefaultTitle is the title given to fresh documents.
const DefaultTitle = "Untitled Document"

// Document represents a persisted document.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the rich-text body as an ordered list of operations.
	Content Delta

	// IsPublic marks the document as shared.
	IsPublic bool

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// IsNew reports whether the document still carries the unsaved placeholder id.
func (d *Document) IsNew() bool {
	return d.ID == "" || d.ID == NewDocumentID
}

// DocumentPatch carries a partial document update. Nil fields are left
// unchanged by the persistence backend.
type DocumentPatch struct {
	Title    *string
	Content  *Delta
	IsPublic *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p DocumentPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.IsPublic == nil
}

// Op is a single rich-text operation. Only inserts are persisted; Attributes
// carry formatting such as bold or header level.
type Op struct {
	Insert     string         `json:"insert"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Delta is an ordered sequence of insert operations describing rich text.
type Delta struct {
	Ops []Op `json:"ops"`
}

// DeltaFromText builds a single-op delta holding plain text.
func DeltaFromText(text string) Delta {
	if text == "" {
		return Delta{}
	}
	return Delta{Ops: []Op{{Insert: text}}}
}

// PlainText concatenates the inserted text of every operation.
func (d Delta) PlainText() string {
	var b strings.Builder
	for _, op := range d.Ops {
		b.WriteString(op.Insert)
	}
	return b.String()
}

// IsEmpty reports whether the delta holds no text.
func (d Delta) IsEmpty() bool {
	for _, op := range d.Ops {
		if op.Insert != "" {
			return false
		}
	}
	return true
}

// Push appends an insert, merging it into the previous op when neither
// carries attributes.
func (d *Delta) Push(text string, attrs map[string]any) {
	if text == "" {
		return
	}
	if len(attrs) == 0 {
		attrs = nil
		if n := len(d.Ops); n > 0 && d.Ops[n-1].Attributes == nil {
			d.Ops[n-1].Insert += text
			return
		}
	}
	d.Ops = append(d.Ops, Op{Insert: text, Attributes: attrs})
}

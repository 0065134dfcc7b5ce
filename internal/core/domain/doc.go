// Package domain defines the core business entities for scribe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document, Delta: a persisted document and its rich-text operations
//   - Suggestion, SuggestionKind: tagged recommendations and how they render
//   - AIFeedback: whole-document feedback with the span it covers
//   - Selection, CursorPosition: text ranges and the suggestion panel anchor
//   - Notice: a transient, self-expiring error message
//   - RawFile: an imported file before normalisation
//   - AppSettings: backend, editor, LLM and storage configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

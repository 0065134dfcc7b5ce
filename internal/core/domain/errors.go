package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Editor preconditions.

	// ErrNoSelection indicates an operation needed a selection and none exists.
	ErrNoSelection = errors.New("no active selection")

	// ErrEditorNotReady indicates the text buffer has not been initialised.
	ErrEditorNotReady = errors.New("editor not initialised")

	// ErrSessionClosed indicates the editor session has been torn down.
	ErrSessionClosed = errors.New("editor session closed")

	// ErrNoSuggestions indicates a suggestion was picked with no active list.
	ErrNoSuggestions = errors.New("no active suggestions")

	// Suggestion source errors.

	// ErrSuggestionUnavailable indicates no suggestion source is configured.
	ErrSuggestionUnavailable = errors.New("suggestion service unavailable")

	// ErrStaleResponse indicates a response was superseded by a newer request.
	ErrStaleResponse = errors.New("stale response")

	// ErrRequestFailed indicates a transport-level failure talking to the backend.
	ErrRequestFailed = errors.New("request failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUnsupportedFormat indicates no normaliser handles a file's type.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

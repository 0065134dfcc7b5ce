// Package mcp provides an MCP (Model Context Protocol) server adapter for scribe.
// It lets AI assistants run grammar checks, content suggestions and word
// analysis, and read or import stored documents.
package mcp

import "errors"

// ErrMissingSuggestionService is returned when the suggestion service is not provided.
var ErrMissingSuggestionService = errors.New("mcp: suggestion service is required")

// ErrDocumentsUnavailable is returned by document tools when no document
// service is configured.
var ErrDocumentsUnavailable = errors.New("mcp: document service not configured")

// ErrImportsUnavailable is returned by import_document when no import
// service is configured.
var ErrImportsUnavailable = errors.New("mcp: import service not configured")

// Package sqlite provides the local persistence backend: documents and the
// feedback recorded against them.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. It implements both store interfaces through a single
// database connection:
//
//   - DocumentStore: document persistence, content stored as Delta JSON
//   - FeedbackStore: whole-document feedback, removed with its document
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.scribe/data/scribe.db
package sqlite

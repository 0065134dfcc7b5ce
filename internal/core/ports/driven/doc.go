// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextBuffer: The live text model behind the on-screen editor
//   - DocumentStore: Document persistence (REST backend or SQLite)
//   - SuggestionSource: Grammar, content and word-analysis suggestions
//   - ConfigStore: Application configuration
//   - Clock: Time source and timers for debouncing
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - FeedbackStore: Records whole-document feedback in local mode.
//   - LLMService: Language model for content suggestions. Without it the
//     offline source falls back to canned tips.
//   - ConfigWatcher: Notifies when the configuration file changes.
//   - NormaliserRegistry: Converts imported files into document content.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

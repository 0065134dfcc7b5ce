// Package services implements the driving port interfaces.
//
// The editor core lives here: the two-lane change debouncer, the
// selection tracker, the suggestion applier and the EditorSession that
// owns them. Document, suggestion, settings and import services are thin
// orchestrators over driven ports.
package services

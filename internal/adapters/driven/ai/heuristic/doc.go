// Package heuristic provides an offline suggestion source for the local
// backend. Grammar findings come from per-sentence rules; content
// suggestions and document feedback use an LLM when one is configured and
// fall back to built-in tips otherwise.
package heuristic

// Package buffer provides an in-memory implementation of driven.TextBuffer.
//
// The buffer stores text as runes with optional per-rune formatting so a
// loaded rich-text document round-trips through Contents. Offsets are rune
// offsets. Screen geometry is measured in terminal cells using go-runewidth,
// with optional soft wrapping at a configured width.
//
// # Events
//
// Every mutation fires text-change callbacks and every selection move fires
// selection-change callbacks. Callbacks run synchronously on the mutating
// goroutine, after the buffer lock is released, so handlers may read the
// buffer or mutate it again.
package buffer

package buffer

import (
	"unicode"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Type replaces the selection with text as a user edit.
func (b *Buffer) Type(text string) {
	sel := b.cursor()
	if sel.Length > 0 {
		b.deleteText(sel.Index, sel.Length, driven.SourceUser)
	}
	b.insertText(sel.Index, text, driven.SourceUser)
}

// Backspace deletes the selection, or the rune before the cursor.
func (b *Buffer) Backspace() {
	sel := b.cursor()
	switch {
	case sel.Length > 0:
		b.deleteText(sel.Index, sel.Length, driven.SourceUser)
	case sel.Index > 0:
		b.deleteText(sel.Index-1, 1, driven.SourceUser)
	}
}

// DeleteForward deletes the selection, or the rune after the cursor.
func (b *Buffer) DeleteForward() {
	sel := b.cursor()
	if sel.Length > 0 {
		b.deleteText(sel.Index, sel.Length, driven.SourceUser)
		return
	}
	b.deleteText(sel.Index, 1, driven.SourceUser)
}

// cursor returns the selection, or a caret at the end when unfocused.
func (b *Buffer) cursor() domain.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasSel {
		return domain.Selection{Index: len(b.runes)}
	}
	return b.sel
}

// head returns the moving end of the selection. The caller must hold the lock.
func (b *Buffer) head() int {
	switch {
	case !b.hasSel:
		return len(b.runes)
	case b.sel.Length == 0:
		return b.sel.Index
	case b.anchor == b.sel.Index:
		return b.sel.End()
	default:
		return b.sel.Index
	}
}

// moveHead places the moving end at the position computed by to. With
// extend the anchor stays put and the selection grows or shrinks.
func (b *Buffer) moveHead(extend bool, to func(head int) int) {
	b.mu.Lock()
	if !b.hasSel {
		b.anchor = len(b.runes)
	}
	h := max(0, min(to(b.head()), len(b.runes)))
	if !extend || !b.hasSel {
		b.anchor = h
	}
	start, end := min(b.anchor, h), max(b.anchor, h)
	b.sel = domain.Selection{Index: start, Length: end - start}
	b.hasSel = true
	b.mu.Unlock()
	b.emitSelection()
}

// MoveLeft moves the cursor one rune left.
func (b *Buffer) MoveLeft(extend bool) {
	b.moveHead(extend, func(h int) int { return h - 1 })
}

// MoveRight moves the cursor one rune right.
func (b *Buffer) MoveRight(extend bool) {
	b.moveHead(extend, func(h int) int { return h + 1 })
}

// MoveUp moves the cursor to the same column of the previous line.
func (b *Buffer) MoveUp(extend bool) {
	b.moveHead(extend, func(h int) int {
		start := b.lineStart(h)
		if start == 0 {
			return 0
		}
		prev := b.lineStart(start - 1)
		return min(prev+(h-start), start-1)
	})
}

// MoveDown moves the cursor to the same column of the next line.
func (b *Buffer) MoveDown(extend bool) {
	b.moveHead(extend, func(h int) int {
		end := b.lineEnd(h)
		if end == len(b.runes) {
			return end
		}
		next := end + 1
		return min(next+(h-b.lineStart(h)), b.lineEnd(next))
	})
}

// Home moves the cursor to the start of its line.
func (b *Buffer) Home(extend bool) {
	b.moveHead(extend, b.lineStart)
}

// End moves the cursor to the end of its line.
func (b *Buffer) End(extend bool) {
	b.moveHead(extend, b.lineEnd)
}

// SelectAll selects the whole text.
func (b *Buffer) SelectAll() {
	b.mu.Lock()
	b.anchor = 0
	b.sel = domain.Selection{Index: 0, Length: len(b.runes)}
	b.hasSel = true
	b.mu.Unlock()
	b.emitSelection()
}

// SelectWord selects the run of non-space runes around the cursor.
// It does nothing when the cursor is not touching a word.
func (b *Buffer) SelectWord() {
	b.mu.Lock()
	h := b.head()
	start, end := h, h
	for start > 0 && !unicode.IsSpace(b.runes[start-1]) {
		start--
	}
	for end < len(b.runes) && !unicode.IsSpace(b.runes[end]) {
		end++
	}
	if start == end {
		b.mu.Unlock()
		return
	}
	b.anchor = start
	b.sel = domain.Selection{Index: start, Length: end - start}
	b.hasSel = true
	b.mu.Unlock()
	b.emitSelection()
}

// lineStart returns the offset after the last newline before pos.
// The caller must hold the lock.
func (b *Buffer) lineStart(pos int) int {
	for i := min(pos, len(b.runes)) - 1; i >= 0; i-- {
		if b.runes[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// lineEnd returns the offset of the first newline at or after pos.
// The caller must hold the lock.
func (b *Buffer) lineEnd(pos int) int {
	for i := max(pos, 0); i < len(b.runes); i++ {
		if b.runes[i] == '\n' {
			return i
		}
	}
	return len(b.runes)
}

// CursorRowCol returns the cursor's row and column in terminal cells.
func (b *Buffer) CursorRowCol() (row, col int) {
	b.mu.Lock()
	h := b.head()
	b.mu.Unlock()
	r, _ := b.Bounds(h)
	return r.Top, r.Left
}

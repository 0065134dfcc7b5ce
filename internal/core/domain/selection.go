package domain

// Selection is a contiguous range over the plain-text projection of a
// document. Offsets count runes.
type Selection struct {
	Index  int
	Length int
}

// IsEmpty reports whether the selection is a bare cursor.
func (s Selection) IsEmpty() bool {
	return s.Length <= 0
}

// End returns the offset one past the selection.
func (s Selection) End() int {
	return s.Index + s.Length
}

// Clamp intersects the selection with [0, textLen]. Both ends are clamped;
// a range lying wholly outside the text collapses to a cursor at the
// nearest edge.
func (s Selection) Clamp(textLen int) Selection {
	textLen = max(textLen, 0)
	idx := clamp(s.Index, 0, textLen)
	end := clamp(s.Index+max(s.Length, 0), idx, textLen)
	return Selection{Index: idx, Length: end - idx}
}

// Rect is an axis-aligned box in screen cells (or pixels, for adapters that
// render graphically).
type Rect struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Bottom returns the row one past the box.
func (r Rect) Bottom() int {
	return r.Top + r.Height
}

// Right returns the column one past the box.
func (r Rect) Right() int {
	return r.Left + r.Width
}

// CursorPosition is the anchor of the floating suggestion panel.
type CursorPosition struct {
	Top  int
	Left int
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

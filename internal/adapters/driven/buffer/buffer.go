package buffer

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure Buffer implements the interface.
var _ driven.TextBuffer = (*Buffer)(nil)

// Buffer is an in-memory rich-text buffer.
type Buffer struct {
	mu        sync.Mutex
	runes     []rune
	attrs     []map[string]any
	sel       domain.Selection
	hasSel    bool
	wrapWidth int
	container domain.Rect

	// anchor is the fixed end of a selection extended by cursor moves.
	anchor int

	nextID   int
	textSubs map[int]*textSub
	selSubs  map[int]*selSub
}

type textSub struct {
	closed atomic.Bool
	fn     func(driven.TextChange)
}

type selSub struct {
	closed atomic.Bool
	fn     func(domain.Selection, bool)
}

// subscription releases a registration on Close.
type subscription struct {
	once    sync.Once
	release func()
}

// Close implements driven.Subscription.
func (s *subscription) Close() {
	s.once.Do(s.release)
}

// New creates an empty buffer with a cursor at offset 0.
func New() *Buffer {
	return &Buffer{
		hasSel:   true,
		textSubs: make(map[int]*textSub),
		selSubs:  make(map[int]*selSub),
	}
}

// SetContainer sets the editor container box used as the geometry origin.
// A positive container width also enables soft wrapping at that width.
func (b *Buffer) SetContainer(r domain.Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.container = r
	b.wrapWidth = r.Width
}

// Container implements driven.TextBuffer.
func (b *Buffer) Container() domain.Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.container
}

// Text implements driven.TextBuffer.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.runes)
}

// Len implements driven.TextBuffer.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.runes)
}

// TextRange implements driven.TextBuffer.
func (b *Buffer) TextRange(offset, length int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := domain.Selection{Index: offset, Length: length}.Clamp(len(b.runes))
	return string(b.runes[r.Index:r.End()])
}

// Contents implements driven.TextBuffer. Consecutive runes with equal
// formatting are merged into one operation.
func (b *Buffer) Contents() domain.Delta {
	b.mu.Lock()
	defer b.mu.Unlock()

	var d domain.Delta
	start := 0
	for i := 1; i <= len(b.runes); i++ {
		if i < len(b.runes) && reflect.DeepEqual(b.attrs[i], b.attrs[start]) {
			continue
		}
		d.Ops = append(d.Ops, domain.Op{
			Insert:     string(b.runes[start:i]),
			Attributes: b.attrs[start],
		})
		start = i
	}
	return d
}

// SetContents implements driven.TextBuffer.
func (b *Buffer) SetContents(delta domain.Delta) {
	b.mu.Lock()
	old := len(b.runes)
	b.runes = b.runes[:0]
	b.attrs = b.attrs[:0]
	for _, op := range delta.Ops {
		for _, r := range op.Insert {
			b.runes = append(b.runes, r)
			b.attrs = append(b.attrs, op.Attributes)
		}
	}
	inserted := string(b.runes)
	b.sel = domain.Selection{Index: len(b.runes)}
	b.anchor = b.sel.Index
	b.mu.Unlock()

	b.emitText(driven.TextChange{Offset: 0, Deleted: old, Inserted: inserted, Source: driven.SourceAPI})
	b.emitSelection()
}

// SetText implements driven.TextBuffer.
func (b *Buffer) SetText(text string) {
	b.SetContents(domain.DeltaFromText(text))
}

// DeleteText implements driven.TextBuffer.
func (b *Buffer) DeleteText(offset, length int) {
	b.deleteText(offset, length, driven.SourceAPI)
}

// InsertText implements driven.TextBuffer.
func (b *Buffer) InsertText(offset int, text string) {
	b.insertText(offset, text, driven.SourceAPI)
}

func (b *Buffer) deleteText(offset, length int, source driven.ChangeSource) {
	b.mu.Lock()
	r := domain.Selection{Index: offset, Length: length}.Clamp(len(b.runes))
	if r.Length == 0 {
		b.mu.Unlock()
		return
	}
	b.runes = append(b.runes[:r.Index], b.runes[r.End():]...)
	b.attrs = append(b.attrs[:r.Index], b.attrs[r.End():]...)
	moved := b.shiftSelection(r.Index, -r.Length)
	b.mu.Unlock()

	b.emitText(driven.TextChange{Offset: r.Index, Deleted: r.Length, Source: source})
	if moved {
		b.emitSelection()
	}
}

func (b *Buffer) insertText(offset int, text string, source driven.ChangeSource) {
	if text == "" {
		return
	}
	ins := []rune(text)

	b.mu.Lock()
	at := domain.Selection{Index: offset}.Clamp(len(b.runes)).Index
	runes := make([]rune, 0, len(b.runes)+len(ins))
	runes = append(runes, b.runes[:at]...)
	runes = append(runes, ins...)
	b.runes = append(runes, b.runes[at:]...)
	attrs := make([]map[string]any, 0, len(b.attrs)+len(ins))
	attrs = append(attrs, b.attrs[:at]...)
	attrs = append(attrs, make([]map[string]any, len(ins))...)
	b.attrs = append(attrs, b.attrs[at:]...)
	moved := b.shiftSelection(at, len(ins))
	b.mu.Unlock()

	b.emitText(driven.TextChange{Offset: at, Inserted: text, Source: source})
	if moved {
		b.emitSelection()
	}
}

// shiftSelection moves the selection to follow an edit of delta runes at
// offset. The caller must hold the lock.
func (b *Buffer) shiftSelection(offset, delta int) bool {
	if !b.hasSel {
		return false
	}
	before := b.sel
	b.anchor = max(0, min(transform(b.anchor, offset, delta), len(b.runes)))
	start, end := b.sel.Index, b.sel.End()
	start = transform(start, offset, delta)
	end = transform(end, offset, delta)
	b.sel = domain.Selection{Index: start, Length: end - start}.Clamp(len(b.runes))
	return b.sel != before
}

func transform(pos, offset, delta int) int {
	if delta >= 0 {
		if pos >= offset {
			return pos + delta
		}
		return pos
	}
	removedEnd := offset - delta
	switch {
	case pos >= removedEnd:
		return pos + delta
	case pos > offset:
		return offset
	default:
		return pos
	}
}

// Selection implements driven.TextBuffer.
func (b *Buffer) Selection() (domain.Selection, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sel, b.hasSel
}

// SetSelection moves the selection, clamped to the text.
func (b *Buffer) SetSelection(sel domain.Selection) {
	b.mu.Lock()
	b.sel = sel.Clamp(len(b.runes))
	b.anchor = b.sel.Index
	b.hasSel = true
	b.mu.Unlock()
	b.emitSelection()
}

// Blur drops focus; Selection reports false until SetSelection is called.
func (b *Buffer) Blur() {
	b.mu.Lock()
	b.hasSel = false
	b.mu.Unlock()
	b.emitSelection()
}

// Bounds implements driven.TextBuffer. Rows and columns are terminal cells
// relative to the container.
func (b *Buffer) Bounds(offset int) (domain.Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > len(b.runes) {
		return domain.Rect{}, false
	}
	row, col := 0, 0
	for _, r := range b.runes[:offset] {
		if r == '\n' {
			row++
			col = 0
			continue
		}
		w := runewidth.RuneWidth(r)
		if b.wrapWidth > 0 && col+w > b.wrapWidth {
			row++
			col = 0
		}
		col += w
	}
	width := 1
	if offset < len(b.runes) && b.runes[offset] != '\n' {
		if w := runewidth.RuneWidth(b.runes[offset]); w > 0 {
			width = w
		}
		if b.wrapWidth > 0 && col+width > b.wrapWidth {
			row++
			col = 0
		}
	}
	return domain.Rect{Top: row, Left: col, Width: width, Height: 1}, true
}

// OnTextChange implements driven.TextBuffer.
func (b *Buffer) OnTextChange(fn func(driven.TextChange)) driven.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	sub := &textSub{fn: fn}
	b.textSubs[id] = sub
	return &subscription{release: func() {
		sub.closed.Store(true)
		b.mu.Lock()
		delete(b.textSubs, id)
		b.mu.Unlock()
	}}
}

// OnSelectionChange implements driven.TextBuffer.
func (b *Buffer) OnSelectionChange(fn func(domain.Selection, bool)) driven.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	sub := &selSub{fn: fn}
	b.selSubs[id] = sub
	return &subscription{release: func() {
		sub.closed.Store(true)
		b.mu.Lock()
		delete(b.selSubs, id)
		b.mu.Unlock()
	}}
}

// Subscribers returns the number of live registrations.
func (b *Buffer) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.textSubs) + len(b.selSubs)
}

func (b *Buffer) emitText(change driven.TextChange) {
	b.mu.Lock()
	subs := make([]*textSub, 0, len(b.textSubs))
	for id := 0; id < b.nextID; id++ {
		if s, ok := b.textSubs[id]; ok {
			subs = append(subs, s)
		}
	}
	b.mu.Unlock()

	for _, s := range subs {
		if !s.closed.Load() {
			s.fn(change)
		}
	}
}

func (b *Buffer) emitSelection() {
	b.mu.Lock()
	sel, ok := b.sel, b.hasSel
	subs := make([]*selSub, 0, len(b.selSubs))
	for id := 0; id < b.nextID; id++ {
		if s, ok := b.selSubs[id]; ok {
			subs = append(subs, s)
		}
	}
	b.mu.Unlock()

	for _, s := range subs {
		if !s.closed.Load() {
			s.fn(sel, ok)
		}
	}
}

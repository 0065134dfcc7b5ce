// Package editor provides the document editor view for the TUI.
//
// The view owns one editor session at a time. Keystrokes mutate the text
// buffer directly; the session reacts to the buffer's change events and
// reports state changes back through SessionUpdated messages.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driving"
)

// ErrNoFactory is returned when the view has no way to create sessions.
var ErrNoFactory = errors.New("editor: session factory is required")

// Buffer is the text buffer the view edits.
type Buffer interface {
	Text() string
	Selection() (domain.Selection, bool)
	SetContainer(r domain.Rect)
	CursorRowCol() (row, col int)
	Type(text string)
	Backspace()
	DeleteForward()
	MoveLeft(extend bool)
	MoveRight(extend bool)
	MoveUp(extend bool)
	MoveDown(extend bool)
	Home(extend bool)
	End(extend bool)
	SelectAll()
	SelectWord()
}

// Session pairs an editor session with the buffer it is bound to.
type Session struct {
	Editor driving.EditorSession
	Buffer Buffer
}

// Factory creates a fresh session for each opened document.
type Factory func() (*Session, error)

// chrome is the number of rows used by everything but the text area.
const chrome = 6

// View is the editor view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	factory Factory

	session     *Session
	snapshot    driving.SessionSnapshot
	seq         uint64
	updates     chan struct{}
	done        chan struct{}
	unsubscribe func()

	title     *input.TitleInput
	spinner   spinner.Model
	statusBar *status.Bar

	highlighted int
	opening     bool
	err         error
	width       int
	height      int
}

// NewView creates a new editor view.
func NewView(s *styles.Styles, factory Factory) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Title

	return &View{
		styles:    s,
		keymap:    km,
		factory:   factory,
		title:     input.NewTitleInput(s),
		spinner:   sp,
		statusBar: status.NewBar(s, km),
		width:     80,
		height:    24,
	}
}

// Open starts a new session on documentID, closing any previous session.
func (v *View) Open(documentID string) tea.Cmd {
	v.Close()
	v.err = nil
	v.highlighted = 0

	if v.factory == nil {
		v.err = ErrNoFactory
		return nil
	}
	sess, err := v.factory()
	if err != nil {
		v.err = fmt.Errorf("create editor session: %w", err)
		return nil
	}

	v.session = sess
	v.seq++
	v.updates = make(chan struct{}, 1)
	v.done = make(chan struct{})
	updates := v.updates
	v.unsubscribe = sess.Editor.OnUpdate(func(driving.SessionSnapshot) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	v.resizeBuffer()
	v.snapshot = sess.Editor.Snapshot()
	v.title.SetValue(v.snapshot.Title)
	v.opening = true

	editor := sess.Editor
	open := func() tea.Msg {
		err := editor.Open(context.Background(), documentID)
		return messages.DocumentOpened{DocumentID: documentID, Err: err}
	}
	return tea.Batch(open, v.waitForUpdate())
}

// Close tears down the current session.
func (v *View) Close() {
	if v.session == nil {
		return
	}
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	close(v.done)
	v.session.Editor.Close()
	v.session = nil
	v.snapshot = driving.SessionSnapshot{}
	v.title.Blur()
}

// waitForUpdate returns a command that blocks until the session changes.
func (v *View) waitForUpdate() tea.Cmd {
	updates, done, seq := v.updates, v.done, v.seq
	return func() tea.Msg {
		select {
		case <-updates:
			return messages.SessionUpdated{Seq: seq}
		case <-done:
			return nil
		}
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SessionUpdated:
		if v.session == nil || msg.Seq != v.seq {
			return v, nil
		}
		return v, tea.Batch(v.refresh(), v.waitForUpdate())

	case messages.DocumentOpened:
		if v.session == nil {
			return v, nil
		}
		v.opening = false
		if msg.Err != nil {
			v.err = msg.Err
		}
		cmd := v.refresh()
		v.title.SetValue(v.snapshot.Title)
		return v, cmd

	case messages.NoticeExpired:
		if v.session != nil {
			v.snapshot = v.session.Editor.Snapshot()
			v.syncStatus()
		}
		return v, nil

	case messages.SuggestionsRequested:
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrSessionClosed) {
			v.err = msg.Err
		}
		return v, nil

	case messages.DocumentSaved:
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrSessionClosed) {
			v.err = msg.Err
		}
		return v, nil

	case spinner.TickMsg:
		if !v.snapshot.Loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.session == nil {
			if keymap.Matches(msg.String(), v.keymap.Back) {
				return v, back()
			}
			return v, nil
		}
		if v.title.Focused() {
			return v.handleTitleKey(msg)
		}
		return v.handleKey(msg)
	}

	return v, nil
}

// refresh re-reads the session snapshot and schedules follow-up ticks.
func (v *View) refresh() tea.Cmd {
	wasLoading := v.snapshot.Loading
	v.snapshot = v.session.Editor.Snapshot()
	if v.highlighted >= len(v.snapshot.Suggestions) {
		v.highlighted = 0
	}
	if !v.title.Focused() {
		v.title.SetValue(v.snapshot.Title)
	}
	v.syncStatus()

	var cmds []tea.Cmd
	if v.snapshot.Loading && !wasLoading {
		cmds = append(cmds, v.spinner.Tick)
	}
	if n := v.snapshot.Notice; n != nil {
		cmds = append(cmds, tea.Tick(time.Until(n.ExpiresAt), func(time.Time) tea.Msg {
			return messages.NoticeExpired{}
		}))
	}
	return tea.Batch(cmds...)
}

// syncStatus mirrors the snapshot into the status bar.
func (v *View) syncStatus() {
	v.statusBar.Clear()
	if v.session != nil {
		st := status.Count(v.session.Buffer.Text())
		st.Suggestions = len(v.snapshot.Suggestions)
		v.statusBar.SetStats(st)
	}
	switch {
	case v.snapshot.Saving:
		v.statusBar.SetState(status.StateSaving)
	case v.snapshot.Loading:
		v.statusBar.SetState(status.StateLoading)
	case v.snapshot.DocumentID == domain.NewDocumentID:
		v.statusBar.SetMessage("Unsaved")
	default:
		v.statusBar.SetMessage("Saved")
	}
}

// handleTitleKey handles keys while the title input is focused.
func (v *View) handleTitleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.title.Blur()
		v.session.Editor.SetTitle(strings.TrimSpace(v.title.Value()))
		return v, nil
	case tea.KeyEsc:
		v.title.Blur()
		v.title.SetValue(v.snapshot.Title)
		return v, nil
	}
	var cmd tea.Cmd
	v.title, cmd = v.title.Update(msg)
	return v, cmd
}

// handleKey handles keys while the text area is focused.
//
//nolint:gocyclo // flat key dispatch
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	editor := v.session.Editor
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		switch {
		case v.snapshot.State == driving.StatePending:
			editor.DismissSuggestions()
		case v.snapshot.Notice != nil:
			editor.DismissNotice()
		case v.err != nil:
			v.err = nil
		default:
			v.Close()
			return v, back()
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Save):
		return v, func() tea.Msg {
			return messages.DocumentSaved{Err: editor.Save(context.Background())}
		}

	case keymap.Matches(k, v.keymap.Suggest):
		return v, func() tea.Msg {
			return messages.SuggestionsRequested{Err: editor.RequestSuggestions(context.Background())}
		}

	case keymap.Matches(k, v.keymap.NextSuggestion):
		if n := len(v.snapshot.Suggestions); n > 0 {
			v.highlighted = (v.highlighted + 1) % n
		}
		return v, nil

	case keymap.Matches(k, v.keymap.PrevSuggestion):
		if n := len(v.snapshot.Suggestions); n > 0 {
			v.highlighted = (v.highlighted - 1 + n) % n
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Apply) && v.snapshot.State == driving.StatePending:
		if err := editor.ApplySuggestion(v.highlighted); err != nil {
			v.err = err
		}
		v.highlighted = 0
		return v, v.refresh()

	case keymap.Matches(k, v.keymap.Title) && !v.opening:
		return v, v.title.Focus()

	case keymap.Matches(k, v.keymap.Clear):
		editor.Clear()
		return v, nil

	case keymap.Matches(k, v.keymap.SelectWord):
		v.session.Buffer.SelectWord()
		return v, nil

	case keymap.Matches(k, v.keymap.SelectAll):
		v.session.Buffer.SelectAll()
		return v, nil
	}

	if v.opening {
		return v, nil
	}
	v.edit(msg)
	v.syncStatus()
	return v, nil
}

// edit applies a text-area keystroke to the buffer.
func (v *View) edit(msg tea.KeyMsg) {
	buf := v.session.Buffer
	switch msg.Type {
	case tea.KeyRunes:
		buf.Type(string(msg.Runes))
	case tea.KeySpace:
		buf.Type(" ")
	case tea.KeyTab:
		buf.Type("\t")
	case tea.KeyEnter:
		buf.Type("\n")
	case tea.KeyBackspace:
		buf.Backspace()
	case tea.KeyDelete:
		buf.DeleteForward()
	case tea.KeyLeft, tea.KeyShiftLeft:
		buf.MoveLeft(msg.Type == tea.KeyShiftLeft)
	case tea.KeyRight, tea.KeyShiftRight:
		buf.MoveRight(msg.Type == tea.KeyShiftRight)
	case tea.KeyUp, tea.KeyShiftUp:
		buf.MoveUp(msg.Type == tea.KeyShiftUp)
	case tea.KeyDown, tea.KeyShiftDown:
		buf.MoveDown(msg.Type == tea.KeyShiftDown)
	case tea.KeyHome, tea.KeyShiftHome:
		buf.Home(msg.Type == tea.KeyShiftHome)
	case tea.KeyEnd, tea.KeyShiftEnd:
		buf.End(msg.Type == tea.KeyShiftEnd)
	}
}

func back() tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: messages.ViewDocuments}
	}
}

// textArea returns the size of the text area in cells.
func (v *View) textArea() (width, height int) {
	// Borders take one cell on each side.
	return max(v.width-2, 10), max(v.height-chrome, 3)
}

func (v *View) resizeBuffer() {
	if v.session == nil {
		return
	}
	w, h := v.textArea()
	v.session.Buffer.SetContainer(domain.Rect{Width: w, Height: h})
}

// View renders the editor view.
func (v *View) View() string {
	if v.session == nil {
		msg := "No document open."
		if v.err != nil {
			msg = fmt.Sprintf("Error: %s", v.err.Error())
		}
		return v.styles.Error.Render(msg) + "\n\n" + v.styles.Help.Render("[esc] back")
	}

	var b strings.Builder

	b.WriteString(v.title.View())
	if v.snapshot.Saving {
		b.WriteString(v.styles.Muted.Render("  saving..."))
	}
	b.WriteString("\n")

	w, h := v.textArea()
	body := v.renderBody(w, h)
	b.WriteString(v.styles.Editor.Width(w).Render(body))
	b.WriteString("\n")

	if words := v.renderWordAnalysis(); words != "" {
		b.WriteString(words)
		b.WriteString("\n")
	}

	switch {
	case v.snapshot.Notice != nil:
		b.WriteString(v.renderNotice(v.snapshot.Notice))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}

	if v.snapshot.Loading {
		b.WriteString(v.spinner.View() + " ")
	}
	v.statusBar.SetWidth(max(v.width-2, 10))
	b.WriteString(v.statusBar.View())

	return b.String()
}

// renderBody renders the visible rows of the text with the selection
// highlighted and the suggestion panel inserted below the anchor row.
func (v *View) renderBody(width, height int) string {
	text := []rune(v.session.Buffer.Text())
	sel, hasSel := v.session.Buffer.Selection()
	rows := wrapRows(text, width)

	cursorRow, _ := v.session.Buffer.CursorRowCol()
	offset := 0
	if cursorRow >= height {
		offset = cursorRow - height + 1
	}

	lines := make([]string, 0, height)
	for i := offset; i < len(rows) && i < offset+height; i++ {
		lines = append(lines, v.renderRow(text, rows[i], sel, hasSel))
	}

	if panel := v.renderPanel(); panel != "" {
		pos := v.snapshot.CursorPosition
		at := min(max(pos.Top-offset, 0), len(lines))
		placed := lipgloss.NewStyle().MarginLeft(max(min(pos.Left, width-lipgloss.Width(panel)), 0)).Render(panel)
		panelLines := strings.Split(placed, "\n")
		lines = append(lines[:at], append(panelLines, lines[at:]...)...)
	}

	return strings.Join(lines, "\n")
}

// row is a half-open rune range of one visual row.
type row struct {
	start, end int
}

// wrapRows splits text into visual rows the same way the buffer measures
// bounds: hard breaks at newlines, soft breaks when a rune would overflow.
func wrapRows(text []rune, width int) []row {
	rows := []row{}
	start, col := 0, 0
	for i, r := range text {
		if r == '\n' {
			rows = append(rows, row{start, i})
			start, col = i+1, 0
			continue
		}
		w := runewidth.RuneWidth(r)
		if width > 0 && col+w > width {
			rows = append(rows, row{start, i})
			start, col = i, 0
		}
		col += w
	}
	return append(rows, row{start, len(text)})
}

// renderRow renders one visual row.
func (v *View) renderRow(text []rune, r row, sel domain.Selection, hasSel bool) string {
	var b strings.Builder
	for i := r.start; i < r.end; i++ {
		ch := string(text[i])
		switch {
		case hasSel && sel.Length > 0 && i >= sel.Index && i < sel.End():
			b.WriteString(v.styles.Selected.Render(ch))
		case hasSel && sel.Length == 0 && i == sel.Index:
			b.WriteString(v.styles.Selected.Render(ch))
		default:
			b.WriteString(ch)
		}
	}
	atLineEnd := r.end == len(text) || text[r.end] == '\n'
	if hasSel && sel.Length == 0 && sel.Index == r.end && atLineEnd {
		b.WriteString(v.styles.Selected.Render(" "))
	}
	return b.String()
}

// renderPanel renders the active suggestion list.
func (v *View) renderPanel() string {
	if v.snapshot.State != driving.StatePending || len(v.snapshot.Suggestions) == 0 {
		return ""
	}

	lines := make([]string, 0, len(v.snapshot.Suggestions)+1)
	for i, s := range v.snapshot.Suggestions {
		line := fmt.Sprintf("%s %s", styles.KindIcon(s.Kind), s.Text)
		style := v.styles.Kind(s.Kind)
		if i == v.highlighted {
			style = v.styles.Selected
		}
		entry := style.Render(line)
		if s.Context != "" {
			entry += v.styles.Muted.Render(" (" + s.Context + ")")
		}
		lines = append(lines, entry)
		for _, ex := range s.Examples {
			lines = append(lines, v.styles.Muted.Render("    e.g. "+ex))
		}
	}
	lines = append(lines, v.styles.Help.Render("[tab] apply  [ctrl+n/p] move  [esc] dismiss"))

	return v.styles.Panel.Render(strings.Join(lines, "\n"))
}

// renderWordAnalysis renders analysis of the selected word.
func (v *View) renderWordAnalysis() string {
	if v.snapshot.SelectedWord == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Word: " + v.snapshot.SelectedWord))
	for _, s := range v.snapshot.WordAnalysis {
		b.WriteString("\n")
		b.WriteString(v.styles.Kind(s.Kind).Render(fmt.Sprintf("%s %s", styles.KindIcon(s.Kind), s.Text)))
	}
	return b.String()
}

// renderNotice renders a transient notice.
func (v *View) renderNotice(n *domain.Notice) string {
	msg := n.Message
	if n.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, n.Err)
	}
	return v.styles.Notice.Render(msg) + v.styles.Help.Render("  [esc] dismiss")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.title.SetWidth(width)
	v.resizeBuffer()
}

// Snapshot returns the last observed session state.
func (v *View) Snapshot() driving.SessionSnapshot {
	return v.snapshot
}

// Highlighted returns the index of the highlighted suggestion.
func (v *View) Highlighted() int {
	return v.highlighted
}

// TitleFocused reports whether the title input has focus.
func (v *View) TitleFocused() bool {
	return v.title.Focused()
}

// Session returns the open session, or nil.
func (v *View) Session() *Session {
	return v.session
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

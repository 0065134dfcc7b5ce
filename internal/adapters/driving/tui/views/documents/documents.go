// Package documents is the document list: browse, filter by title, open,
// delete and request whole-document feedback.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driving"
)

var errNoService = errors.New("document service not available")

// ActionOption is an entry of the per-document action menu.
type ActionOption int

const (
	ActionOpen ActionOption = iota
	ActionFeedback
	ActionDelete
	ActionCancel
)

var actionLabels = [...]string{
	ActionOpen:     "Open",
	ActionFeedback: "Request Feedback",
	ActionDelete:   "Delete",
	ActionCancel:   "Cancel",
}

// reservedRows is everything but list rows: title, filter, feedback, help.
const reservedRows = 8

// View is the documents list view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.DocumentService

	documents []domain.Document
	// visible indexes documents matching filter, in list order.
	visible  []int
	filter   string
	feedback *domain.AIFeedback
	err      error

	selected int
	offset   int
	width    int
	height   int

	loading   bool
	filtering bool
	menu      bool
	action    ActionOption
}

// NewView creates a documents view. A nil style set selects the defaults.
func NewView(s *styles.Styles, service driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		service: service,
	}
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	svc := v.service
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: errNoService}
		}
		docs, err := svc.List(context.Background())
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case v.menu:
			return v, v.menuKey(msg)
		case v.filtering:
			v.filterKey(msg)
			return v, nil
		}
		return v, v.listKey(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.documents = msg.Documents
			v.refilter()
		}

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.Init()

	case messages.FeedbackLoaded:
		v.err = msg.Err
		v.feedback = msg.Feedback

	case messages.ErrorOccurred:
		v.err = msg.Err
	}
	return v, nil
}

func (v *View) listKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	doc := v.SelectedDocument()

	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.move(-1)
	case keymap.Matches(k, v.keymap.Down):
		v.move(1)
	case keymap.Matches(k, v.keymap.Filter):
		v.filtering = true
	case keymap.Matches(k, v.keymap.Select) && doc != nil:
		v.openMenu(ActionOpen)
	case keymap.Matches(k, v.keymap.Delete) && doc != nil:
		v.openMenu(ActionDelete)
	case keymap.Matches(k, v.keymap.Feedback) && doc != nil:
		v.feedback = nil
		return v.requestFeedback(doc.ID)
	case keymap.Matches(k, v.keymap.New):
		return openDocument(domain.NewDocumentID)
	case keymap.Matches(k, v.keymap.Reload):
		v.feedback = nil
		return v.Init()
	case keymap.Matches(k, v.keymap.Back):
		// esc peels back one layer at a time
		switch {
		case v.filter != "":
			v.setFilter("")
		case v.feedback != nil:
			v.feedback = nil
		default:
			v.err = nil
		}
	}
	return nil
}

func (v *View) filterKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		v.filtering = false
	case tea.KeyEsc:
		v.filtering = false
		v.setFilter("")
	case tea.KeyBackspace:
		if r := []rune(v.filter); len(r) > 0 {
			v.setFilter(string(r[:len(r)-1]))
		}
	case tea.KeySpace:
		v.setFilter(v.filter + " ")
	case tea.KeyRunes:
		v.setFilter(v.filter + string(msg.Runes))
	case tea.KeyUp:
		v.move(-1)
	case tea.KeyDown:
		v.move(1)
	}
}

func (v *View) menuKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.action = max(v.action-1, ActionOpen)
	case keymap.Matches(k, v.keymap.Down):
		v.action = min(v.action+1, ActionCancel)
	case keymap.Matches(k, v.keymap.Back):
		v.menu = false
	case keymap.Matches(k, v.keymap.Select):
		v.menu = false
		doc := v.SelectedDocument()
		if doc == nil {
			return nil
		}
		switch v.action {
		case ActionOpen:
			return openDocument(doc.ID)
		case ActionFeedback:
			v.feedback = nil
			return v.requestFeedback(doc.ID)
		case ActionDelete:
			return v.deleteDocument(doc.ID)
		case ActionCancel:
		}
	}
	return nil
}

func (v *View) openMenu(preselect ActionOption) {
	v.menu = true
	v.action = preselect
}

func (v *View) move(delta int) {
	if len(v.visible) == 0 {
		return
	}
	v.selected = min(max(v.selected+delta, 0), len(v.visible)-1)
	v.scrollToSelection()
}

func (v *View) setFilter(f string) {
	v.filter = f
	v.selected = 0
	v.refilter()
}

// refilter recomputes the visible rows and keeps the selection in range.
func (v *View) refilter() {
	needle := strings.ToLower(strings.TrimSpace(v.filter))
	v.visible = v.visible[:0]
	for i := range v.documents {
		if needle == "" || strings.Contains(strings.ToLower(displayTitle(&v.documents[i])), needle) {
			v.visible = append(v.visible, i)
		}
	}
	v.selected = min(v.selected, max(len(v.visible)-1, 0))
	v.scrollToSelection()
}

func (v *View) scrollToSelection() {
	rows := v.rows()
	switch {
	case v.selected < v.offset:
		v.offset = v.selected
	case v.selected >= v.offset+rows:
		v.offset = v.selected - rows + 1
	}
}

func (v *View) rows() int {
	return max(v.height-reservedRows, 1)
}

func openDocument(id string) tea.Cmd {
	return func() tea.Msg {
		return messages.OpenDocument{DocumentID: id}
	}
}

func (v *View) requestFeedback(docID string) tea.Cmd {
	svc := v.service
	return func() tea.Msg {
		if svc == nil {
			return messages.FeedbackLoaded{DocumentID: docID, Err: errNoService}
		}
		fb, err := svc.RequestFeedback(context.Background(), docID)
		return messages.FeedbackLoaded{DocumentID: docID, Feedback: fb, Err: err}
	}
}

func (v *View) deleteDocument(docID string) tea.Cmd {
	svc := v.service
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDeleted{DocumentID: docID, Err: errNoService}
		}
		return messages.DocumentDeleted{DocumentID: docID, Err: svc.Delete(context.Background(), docID)}
	}
}

func displayTitle(doc *domain.Document) string {
	if doc.Title == "" {
		return domain.DefaultTitle
	}
	return doc.Title
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder
	header := fmt.Sprintf("Documents (%d)", len(v.documents))
	if v.filter != "" {
		header = fmt.Sprintf("Documents (%d of %d)", len(v.visible), len(v.documents))
	}
	b.WriteString(v.styles.Title.Render(header))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents...") + "\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case v.menu:
		b.WriteString(v.renderMenu())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: "+v.err.Error()) + "\n\n")
	}
	if v.filtering || v.filter != "" {
		b.WriteString(v.renderFilter() + "\n\n")
	}

	switch {
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents yet. Press n to start writing.") + "\n")
	case len(v.visible) == 0:
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("No titles match %q.", v.filter)) + "\n")
	default:
		b.WriteString(v.renderList())
	}

	if v.feedback != nil {
		b.WriteString("\n" + v.styles.Subtitle.Render("Feedback") + "\n")
		b.WriteString(v.styles.Normal.Render(v.feedback.Suggestion) + "\n")
	}

	b.WriteString("\n" + v.renderHelp())
	return b.String()
}

func (v *View) renderFilter() string {
	cursor := ""
	if v.filtering {
		cursor = "_"
	}
	return v.styles.Subtitle.Render("/") + " " + v.styles.Normal.Render(v.filter+cursor)
}

func (v *View) renderList() string {
	var b strings.Builder
	rows := v.rows()
	end := min(v.offset+rows, len(v.visible))
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderRow(i == v.selected, &v.documents[v.visible[i]]))
		b.WriteString("\n")
	}
	if len(v.visible) > rows {
		b.WriteString("\n" + v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", v.offset+1, end, len(v.visible))) + "\n")
	}
	return b.String()
}

func (v *View) renderRow(selected bool, doc *domain.Document) string {
	width := max(v.width/2-4, 10)
	title := displayTitle(doc)
	if r := []rune(title); len(r) > width {
		title = string(r[:width-3]) + "..."
	}

	updated := ""
	if !doc.UpdatedAt.IsZero() {
		updated = doc.UpdatedAt.Local().Format("2006-01-02 15:04")
	}

	if selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %-*s  %s", width, title, updated))
	}
	return v.styles.Normal.Render(fmt.Sprintf("  %-*s  ", width, title)) + v.styles.Muted.Render(updated)
}

func (v *View) renderMenu() string {
	var b strings.Builder
	if doc := v.SelectedDocument(); doc != nil {
		b.WriteString(v.styles.Subtitle.Render("Actions for: "+displayTitle(doc)) + "\n\n")
	}
	for opt, label := range actionLabels {
		if ActionOption(opt) == v.action {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))
	return b.String()
}

func (v *View) renderHelp() string {
	if v.filtering {
		return v.styles.Help.Render("type to filter  [enter] keep  [esc] clear")
	}
	return v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [/] filter  [f] feedback  [n] new  [r] reload  [?] help  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.scrollToSelection()
}

// Documents returns every loaded document, ignoring the filter.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the selected row among the visible documents.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the selected document, or nil when nothing
// is visible.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.visible) {
		return &v.documents[v.visible[v.selected]]
	}
	return nil
}

// Filter returns the current title filter.
func (v *View) Filter() string {
	return v.filter
}

// IsFiltering reports whether keystrokes are editing the filter.
func (v *View) IsFiltering() bool {
	return v.filtering
}

// IsShowingMenu returns true if the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.menu
}

// Feedback returns the last loaded document feedback.
func (v *View) Feedback() *domain.AIFeedback {
	return v.feedback
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

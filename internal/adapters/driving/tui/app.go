package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/views/editor"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	keymap *keymap.KeyMap
	help   help.Model

	// documentsView is the document list.
	documentsView *documents.View

	// editorView edits the open document.
	editorView *editor.View

	// startDocument, when set, is opened in the editor on start.
	startDocument string

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	h := help.New()
	h.ShowAll = true

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        keymap.DefaultKeyMap(),
		help:          h,
		documentsView: documents.NewView(s, ports.Documents),
		editorView:    editor.NewView(s, ports.NewSession),
		currentView:   messages.ViewDocuments,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithTheme rebuilds the views with theme. Call it before Run.
func (a *App) WithTheme(theme *styles.Theme) *App {
	a.styles = styles.NewStyles(theme)
	a.documentsView = documents.NewView(a.styles, a.ports.Documents)
	a.editorView = editor.NewView(a.styles, a.ports.NewSession)
	return a
}

// Theme returns the active palette.
func (a *App) Theme() *styles.Theme {
	return a.styles.Theme()
}

// WithDocument opens documentID in the editor when the app starts.
// domain.NewDocumentID starts on a blank document.
func (a *App) WithDocument(documentID string) *App {
	a.startDocument = documentID
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("scribe"),
	}
	if a.startDocument != "" {
		a.currentView = messages.ViewEditor
		cmds = append(cmds, a.editorView.Open(a.startDocument))
	} else {
		cmds = append(cmds, a.documentsView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.Type == tea.KeyCtrlC {
			a.editorView.Close()
			return a, tea.Quit
		}
		return a.handleKey(msg)

	case messages.OpenDocument:
		a.currentView = messages.ViewEditor
		return a, a.editorView.Open(msg.DocumentID)

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewDocuments {
			return a, a.documentsView.Init()
		}
		return a, nil

	case messages.DocumentsLoaded, messages.DocumentDeleted, messages.FeedbackLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.SessionUpdated, messages.DocumentOpened, messages.NoticeExpired,
		messages.SuggestionsRequested, messages.DocumentSaved, spinner.TickMsg:
		a.editorView, cmd = a.editorView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewDocuments {
			a.documentsView, cmd = a.documentsView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		a.editorView.Close()
		return a, tea.Quit
	}

	return a, nil
}

// handleKey routes a key press to the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	k := msg.String()

	switch a.currentView {
	case messages.ViewDocuments:
		if !a.documentsView.IsShowingMenu() && !a.documentsView.IsFiltering() {
			switch {
			case keymap.Matches(k, a.keymap.Quit):
				return a, tea.Quit
			case keymap.Matches(k, a.keymap.Help):
				a.currentView = messages.ViewHelp
				return a, nil
			}
		}
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) {
			a.currentView = messages.ViewDocuments
		}
		return a, nil
	}
	return a, nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewEditor:
		return a.editorView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.documentsView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	a.editorView.Close()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// EditorView returns the editor view.
func (a *App) EditorView() *editor.View {
	return a.editorView
}

// DocumentsView returns the document list view.
func (a *App) DocumentsView() *documents.View {
	return a.documentsView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.documentsView.SetDimensions(width, height)
	a.editorView.SetDimensions(width, height)
}

// StartDocument returns the document opened on start, if any.
func (a *App) StartDocument() string {
	return a.startDocument
}

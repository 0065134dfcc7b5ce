package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

// Ensure EditorSession implements the interface.
var _ driving.EditorSession = (*EditorSession)(nil)

// requestLane groups requests that write the same piece of state.
type requestLane int

const (
	laneSuggestions requestLane = iota
	laneWords
	laneCount
)

// EditorSessionConfig holds the collaborators of an editor session.
type EditorSessionConfig struct {
	// Buffer is the text widget. Required.
	Buffer driven.TextBuffer

	// Documents persists the document. Nil disables saving.
	Documents driven.DocumentStore

	// Suggestions answers grammar, content and word-analysis requests.
	// Nil disables suggestions.
	Suggestions driven.SuggestionSource

	// Clock drives the debounce lanes. Defaults to SystemClock.
	Clock driven.Clock

	// Settings tunes the debounce lanes and stale-response handling.
	Settings domain.EditorSettings

	// Run executes background requests. Defaults to starting a goroutine.
	Run func(func())
}

// EditorSession binds a text buffer to persistence and suggestions.
//
// The session owns all editor state. Buffer callbacks, debounce timers and
// request completions all funnel through mu; the lock is never held while
// the buffer is mutated because the buffer reports mutations synchronously.
type EditorSession struct {
	buffer    driven.TextBuffer
	documents driven.DocumentStore
	source    driven.SuggestionSource
	clock     driven.Clock
	settings  domain.EditorSettings
	run       func(func())

	grammarLane *Debouncer
	saveLane    *Debouncer

	mu              sync.Mutex
	subs            []driven.Subscription
	documentID      string
	title           string
	state           driving.SuggestionState
	suggestions     []domain.Suggestion
	selectedWord    string
	wordAnalysis    []domain.Suggestion
	cursor          domain.CursorPosition
	loading         int
	fetchingContent bool
	saving          bool
	notice          *domain.Notice
	closed          bool
	opening         bool
	epoch           uint64
	generations     [laneCount]uint64

	observers    map[int]func(driving.SessionSnapshot)
	nextObserver int
}

// NewEditorSession creates a session on a blank document and subscribes to
// the buffer.
func NewEditorSession(cfg EditorSessionConfig) (*EditorSession, error) {
	if cfg.Buffer == nil {
		return nil, domain.ErrEditorNotReady
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Run == nil {
		cfg.Run = func(fn func()) { go fn() }
	}

	s := &EditorSession{
		buffer:     cfg.Buffer,
		documents:  cfg.Documents,
		source:     cfg.Suggestions,
		clock:      cfg.Clock,
		settings:   editorDefaults(cfg.Settings),
		run:        cfg.Run,
		documentID: domain.NewDocumentID,
		title:      domain.DefaultTitle,
		observers:  make(map[int]func(driving.SessionSnapshot)),
	}
	s.grammarLane = NewDebouncer(s.clock, DebounceOptions{
		Name:      "grammar",
		Delay:     s.settings.GrammarDelay,
		Distinct:  true,
		MinLength: s.settings.MinCheckLength,
	}, s.checkGrammar)
	s.saveLane = NewDebouncer(s.clock, DebounceOptions{
		Name:  "save",
		Delay: s.settings.SaveDelay,
	}, func(string) { s.autoSave() })

	s.subs = []driven.Subscription{
		s.buffer.OnTextChange(s.handleTextChange),
		s.buffer.OnSelectionChange(s.handleSelectionChange),
	}
	return s, nil
}

func editorDefaults(e domain.EditorSettings) domain.EditorSettings {
	if e.GrammarDelay <= 0 {
		e.GrammarDelay = domain.DefaultGrammarDelay
	}
	if e.SaveDelay <= 0 {
		e.SaveDelay = domain.DefaultSaveDelay
	}
	// the threshold can be raised but never switched off
	if e.MinCheckLength < domain.DefaultMinCheckLength {
		e.MinCheckLength = domain.DefaultMinCheckLength
	}
	if e.StaleResponses == "" {
		e.StaleResponses = domain.StaleApply
	}
	return e
}

// Open loads a document into the buffer. domain.NewDocumentID starts a blank
// document. Loading does not schedule a grammar check or a save.
func (s *EditorSession) Open(ctx context.Context, documentID string) error {
	if documentID == "" {
		documentID = domain.NewDocumentID
	}
	if documentID == domain.NewDocumentID {
		return s.load(&domain.Document{ID: domain.NewDocumentID, Title: domain.DefaultTitle})
	}
	if s.documents == nil {
		return domain.ErrNotImplemented
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	// title edits are dropped until the fetched document is loaded
	s.opening = true
	s.mu.Unlock()

	doc, err := s.documents.Get(ctx, documentID)
	if err != nil {
		s.mu.Lock()
		s.opening = false
		s.noticeLocked("Failed to load document", err)
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("open document %s: %w", documentID, err)
	}
	return s.load(doc)
}

// Clear resets the editor to a new blank document.
func (s *EditorSession) Clear() {
	_ = s.load(&domain.Document{ID: domain.NewDocumentID, Title: domain.DefaultTitle})
}

func (s *EditorSession) load(doc *domain.Document) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	s.epoch++
	s.opening = true
	s.suggestions = nil
	s.state = driving.StateIdle
	s.wordAnalysis = nil
	s.selectedWord = ""
	s.mu.Unlock()

	s.grammarLane.Reset()
	s.saveLane.Cancel()
	s.buffer.SetContents(doc.Content)

	title := doc.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	s.mu.Lock()
	s.documentID = doc.ID
	s.title = title
	s.opening = false
	if sel, ok := s.buffer.Selection(); ok {
		s.updateCursorLocked(sel)
	}
	s.mu.Unlock()

	logger.Debug("editor: opened document %s", doc.ID)
	s.notify()
	return nil
}

// SetTitle changes the title and schedules a save.
func (s *EditorSession) SetTitle(title string) {
	s.mu.Lock()
	if s.closed || s.opening || s.title == title {
		s.mu.Unlock()
		return
	}
	s.title = title
	s.mu.Unlock()

	s.saveLane.Push("")
	s.notify()
}

func (s *EditorSession) handleTextChange(driven.TextChange) {
	s.mu.Lock()
	if s.closed || s.opening {
		s.mu.Unlock()
		return
	}
	if sel, ok := s.buffer.Selection(); ok {
		s.updateCursorLocked(sel)
	}
	s.mu.Unlock()

	s.grammarLane.Push(s.buffer.Text())
	s.saveLane.Push("")
	s.notify()
}

func (s *EditorSession) handleSelectionChange(sel domain.Selection, ok bool) {
	if !ok {
		return
	}
	s.mu.Lock()
	if s.closed || s.opening {
		s.mu.Unlock()
		return
	}
	s.updateCursorLocked(sel)
	word, single := "", false
	if !sel.IsEmpty() {
		word, single = SingleToken(s.buffer.TextRange(sel.Index, sel.Length))
		if single {
			s.selectedWord = word
		}
	}
	s.mu.Unlock()

	if single {
		s.requestWordAnalysis(word)
	}
	s.notify()
}

// updateCursorLocked moves the panel anchor. The caller must hold mu.
func (s *EditorSession) updateCursorLocked(sel domain.Selection) {
	if pos, ok := AnchorFor(s.buffer, sel); ok {
		s.cursor = pos
	}
}

// request is one dispatched suggestion request.
type request struct {
	lane  requestLane
	op    string
	gen   uint64
	epoch uint64
}

// beginLocked stamps a new request on lane. The caller must hold mu.
func (s *EditorSession) beginLocked(lane requestLane, op string) request {
	s.generations[lane]++
	s.loading++
	logger.Debug("editor: %s dispatched (generation %d)", op, s.generations[lane])
	return request{lane: lane, op: op, gen: s.generations[lane], epoch: s.epoch}
}

// finishLocked records a response. A failed request leaves suggestion state
// untouched and raises a notice. The caller must hold mu.
func (s *EditorSession) finishLocked(req request, list []domain.Suggestion, err error) error {
	s.loading--
	if s.closed {
		logger.Debug("editor: %s response after close ignored", req.op)
		return nil
	}
	if req.epoch != s.epoch {
		logger.Debug("editor: %s response for previous document ignored", req.op)
		return nil
	}
	if err != nil {
		s.noticeLocked(fmt.Sprintf("Failed to get %s", req.op), err)
		return fmt.Errorf("%s: %w", req.op, err)
	}
	if s.settings.StaleResponses == domain.StaleDiscard && req.gen != s.generations[req.lane] {
		logger.Debug("editor: %s generation %d superseded by %d, dropped", req.op, req.gen, s.generations[req.lane])
		return nil
	}

	switch req.lane {
	case laneSuggestions:
		if s.state == driving.StateApplying {
			logger.Debug("editor: %s arrived while applying, dropped", req.op)
			return nil
		}
		if len(list) == 0 {
			s.suggestions = nil
			s.state = driving.StateIdle
		} else {
			s.suggestions = list
			s.state = driving.StatePending
		}
		if sel, ok := s.buffer.Selection(); ok {
			s.updateCursorLocked(sel)
		}
	case laneWords:
		s.wordAnalysis = list
	}
	return nil
}

func (s *EditorSession) checkGrammar(text string) {
	if s.source == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	req := s.beginLocked(laneSuggestions, "grammar check")
	s.mu.Unlock()
	s.notify()

	s.run(func() {
		list, err := s.source.GrammarCheck(context.Background(), text)
		s.mu.Lock()
		_ = s.finishLocked(req, list, err)
		s.mu.Unlock()
		s.notify()
	})
}

func (s *EditorSession) requestWordAnalysis(word string) {
	if s.source == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	req := s.beginLocked(laneWords, "word analysis")
	s.mu.Unlock()
	s.notify()

	s.run(func() {
		list, err := s.source.WordAnalysis(context.Background(), word)
		s.mu.Lock()
		_ = s.finishLocked(req, list, err)
		s.mu.Unlock()
		s.notify()
	})
}

// RequestSuggestions fetches content suggestions for the whole text. It is a
// no-op while a previous content request is in flight.
func (s *EditorSession) RequestSuggestions(ctx context.Context) error {
	if s.source == nil {
		return domain.ErrSuggestionUnavailable
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if s.fetchingContent {
		s.mu.Unlock()
		logger.Debug("editor: content suggestions already in flight")
		return nil
	}
	s.fetchingContent = true
	req := s.beginLocked(laneSuggestions, "content suggestions")
	text := s.buffer.Text()
	s.mu.Unlock()
	s.notify()

	list, err := s.source.ContentSuggestions(ctx, text)

	s.mu.Lock()
	s.fetchingContent = false
	err = s.finishLocked(req, list, err)
	s.mu.Unlock()
	s.notify()
	return err
}

// ApplySuggestion applies the suggestion at index of the active list to the
// line holding the selection, then clears the list. Kinds that do not
// mutate text only clear the list.
func (s *EditorSession) ApplySuggestion(index int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if s.state != driving.StatePending || len(s.suggestions) == 0 {
		s.mu.Unlock()
		return domain.ErrNoSuggestions
	}
	if index < 0 || index >= len(s.suggestions) {
		s.mu.Unlock()
		return fmt.Errorf("suggestion %d of %d: %w", index, len(s.suggestions), domain.ErrInvalidInput)
	}
	sel, ok := s.buffer.Selection()
	if !ok {
		s.mu.Unlock()
		logger.Warn("editor: apply requested without a selection")
		return fmt.Errorf("apply suggestion: %w", domain.ErrNoSelection)
	}
	suggestion := s.suggestions[index]
	s.state = driving.StateApplying
	text := s.buffer.Text()
	s.mu.Unlock()

	edits := PlanSuggestion(text, sel, suggestion)
	ApplyEdits(s.buffer, edits)
	logger.Debug("editor: applied %s suggestion with %d edits", suggestion.Kind, len(edits))

	s.mu.Lock()
	s.suggestions = nil
	s.state = driving.StateIdle
	s.mu.Unlock()
	s.notify()
	return nil
}

// DismissSuggestions clears the active list.
func (s *EditorSession) DismissSuggestions() {
	s.mu.Lock()
	if s.state == driving.StateApplying {
		s.mu.Unlock()
		return
	}
	s.suggestions = nil
	s.state = driving.StateIdle
	s.mu.Unlock()
	s.notify()
}

// DismissNotice hides the current notice.
func (s *EditorSession) DismissNotice() {
	s.mu.Lock()
	s.notice = nil
	s.mu.Unlock()
	s.notify()
}

func (s *EditorSession) autoSave() {
	if s.documents == nil || s.isClosed() {
		return
	}
	s.run(func() {
		_ = s.Save(context.Background())
	})
}

// Save persists the document. An unsaved document is created and adopts the
// generated id. It is a no-op while a save is in flight.
func (s *EditorSession) Save(ctx context.Context) error {
	if s.documents == nil {
		return domain.ErrNotImplemented
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if s.saving {
		s.mu.Unlock()
		logger.Debug("editor: save already in flight")
		return nil
	}
	s.saving = true
	id, title, epoch := s.documentID, s.title, s.epoch
	content := s.buffer.Contents()
	s.mu.Unlock()
	s.notify()

	var (
		doc *domain.Document
		err error
	)
	if id == domain.NewDocumentID {
		doc, err = s.documents.Create(ctx, title, content)
	} else {
		doc, err = s.documents.Update(ctx, id, domain.DocumentPatch{Title: &title, Content: &content})
	}

	s.mu.Lock()
	s.saving = false
	if err != nil {
		if !s.closed {
			s.noticeLocked("Failed to save document", err)
		}
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("save document: %w", err)
	}
	if !s.closed && s.epoch == epoch && doc != nil && doc.ID != "" {
		s.documentID = doc.ID
	}
	saved := s.documentID
	s.mu.Unlock()

	logger.Debug("editor: saved document %s", saved)
	s.notify()
	return nil
}

func (s *EditorSession) noticeLocked(message string, err error) {
	n := domain.NewNotice(message, err, s.clock.Now())
	s.notice = &n
	logger.Error("%s: %v", message, err)
}

func (s *EditorSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot returns the current state. Expired notices are omitted.
func (s *EditorSession) Snapshot() driving.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *EditorSession) snapshotLocked() driving.SessionSnapshot {
	snap := driving.SessionSnapshot{
		DocumentID:     s.documentID,
		Title:          s.title,
		State:          s.state,
		Suggestions:    append([]domain.Suggestion(nil), s.suggestions...),
		SelectedWord:   s.selectedWord,
		WordAnalysis:   append([]domain.Suggestion(nil), s.wordAnalysis...),
		CursorPosition: s.cursor,
		Loading:        s.loading > 0,
		Saving:         s.saving,
		Closed:         s.closed,
	}
	if s.notice != nil && !s.notice.Expired(s.clock.Now()) {
		n := *s.notice
		snap.Notice = &n
	}
	return snap
}

// OnUpdate registers fn for every state change. The returned func
// unregisters it.
func (s *EditorSession) OnUpdate(fn func(driving.SessionSnapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *EditorSession) notify() {
	s.mu.Lock()
	if len(s.observers) == 0 {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	fns := make([]func(driving.SessionSnapshot), 0, len(s.observers))
	for id := 0; id < s.nextObserver; id++ {
		if fn, ok := s.observers[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Close stops both debounce lanes, releases the buffer subscriptions and
// makes every late response a no-op. Observers receive a final snapshot.
func (s *EditorSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	s.grammarLane.Stop()
	s.saveLane.Stop()
	for _, sub := range subs {
		sub.Close()
	}
	s.notify()

	s.mu.Lock()
	s.observers = make(map[int]func(driving.SessionSnapshot))
	s.mu.Unlock()
	logger.Debug("editor: session closed")
}

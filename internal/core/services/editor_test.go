package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/buffer"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driving"
)

type editorHarness struct {
	clock   *fakeClock
	buf     *buffer.Buffer
	source  *fakeSource
	store   *countingStore
	session *EditorSession
	queue   []func()
}

type harnessOption func(*EditorSessionConfig, *editorHarness)

func withSettings(s domain.EditorSettings) harnessOption {
	return func(cfg *EditorSessionConfig, _ *editorHarness) { cfg.Settings = s }
}

// withQueuedRun holds background requests until the test runs them.
func withQueuedRun() harnessOption {
	return func(cfg *EditorSessionConfig, h *editorHarness) {
		cfg.Run = func(fn func()) { h.queue = append(h.queue, fn) }
	}
}

func newHarness(t *testing.T, opts ...harnessOption) *editorHarness {
	t.Helper()
	h := &editorHarness{
		clock:  newFakeClock(),
		buf:    buffer.New(),
		source: &fakeSource{},
		store:  &countingStore{DocumentStore: memory.NewDocumentStore()},
	}
	cfg := EditorSessionConfig{
		Buffer:      h.buf,
		Documents:   h.store,
		Suggestions: h.source,
		Clock:       h.clock,
		Run:         func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(&cfg, h)
	}
	session, err := NewEditorSession(cfg)
	require.NoError(t, err)
	h.session = session
	t.Cleanup(session.Close)
	return h
}

func (h *editorHarness) typeText(text string) {
	for _, r := range text {
		h.buf.Type(string(r))
	}
}

func TestNewEditorSession_RequiresBuffer(t *testing.T) {
	_, err := NewEditorSession(EditorSessionConfig{})
	assert.ErrorIs(t, err, domain.ErrEditorNotReady)
}

func TestEditorSession_NewDocumentTypingEndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.session.Open(ctx, domain.NewDocumentID))
	assert.Equal(t, domain.NewDocumentID, h.session.Snapshot().DocumentID)

	h.typeText("Hello world foo")
	require.Len(t, []rune(h.buf.Text()), 15)

	h.clock.Advance(999 * time.Millisecond)
	assert.Empty(t, h.source.grammarCalls())

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"Hello world foo"}, h.source.grammarCalls())

	creates, _ := h.store.counts()
	assert.Equal(t, 0, creates)

	h.clock.Advance(time.Second)
	creates, updates := h.store.counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 0, updates)
	assert.Len(t, h.source.grammarCalls(), 1)

	id := h.session.Snapshot().DocumentID
	require.NotEqual(t, domain.NewDocumentID, id)
	doc, err := h.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTitle, doc.Title)
	assert.Equal(t, "Hello world foo", doc.Content.PlainText())

	// Later saves patch the adopted id.
	h.typeText("!")
	h.clock.Advance(2 * time.Second)
	creates, updates = h.store.counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, updates)
	doc, err = h.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hello world foo!", doc.Content.PlainText())
}

func TestEditorSession_ShortTextNeverChecked(t *testing.T) {
	h := newHarness(t)

	h.typeText("short text")
	h.clock.Advance(5 * time.Second)

	assert.Empty(t, h.source.grammarCalls())
	creates, _ := h.store.counts()
	assert.Equal(t, 1, creates)
}

func TestEditorSession_TitleChangeDuringOpenIsDropped(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	doc, err := h.store.DocumentStore.Create(ctx, "Notes", domain.DeltaFromText("Hello"))
	require.NoError(t, err)

	h.store.onGet = func() { h.session.SetTitle("Renamed") }
	require.NoError(t, h.session.Open(ctx, doc.ID))
	h.clock.Advance(5 * time.Second)

	creates, updates := h.store.counts()
	assert.Zero(t, creates)
	assert.Zero(t, updates)
	snap := h.session.Snapshot()
	assert.Equal(t, doc.ID, snap.DocumentID)
	assert.Equal(t, "Notes", snap.Title)

	h.store.onGet = nil
	h.session.SetTitle("Renamed")
	assert.Equal(t, "Renamed", h.session.Snapshot().Title)
}

func TestEditorSession_FailedOpenAcceptsTitle(t *testing.T) {
	h := newHarness(t)
	require.Error(t, h.session.Open(context.Background(), "missing"))

	h.session.SetTitle("Draft")
	assert.Equal(t, "Draft", h.session.Snapshot().Title)
}

func TestEditorSession_ZeroMinLengthKeepsThreshold(t *testing.T) {
	h := newHarness(t, withSettings(domain.EditorSettings{MinCheckLength: 0}))

	h.typeText("abc")
	h.clock.Advance(2 * time.Second)
	assert.Empty(t, h.source.grammarCalls())

	h.typeText(" long enough")
	h.clock.Advance(2 * time.Second)
	assert.Equal(t, []string{"abc long enough"}, h.source.grammarCalls())
}

func TestEditorSession_RaisedMinLength(t *testing.T) {
	h := newHarness(t, withSettings(domain.EditorSettings{MinCheckLength: 20}))

	h.typeText("fifteen chars..")
	h.clock.Advance(2 * time.Second)

	assert.Empty(t, h.source.grammarCalls())
}

func TestEditorDefaults(t *testing.T) {
	got := editorDefaults(domain.EditorSettings{MinCheckLength: -3})

	assert.Equal(t, domain.DefaultMinCheckLength, got.MinCheckLength)
	assert.Equal(t, domain.DefaultGrammarDelay, got.GrammarDelay)
	assert.Equal(t, domain.DefaultSaveDelay, got.SaveDelay)
	assert.Equal(t, domain.StaleApply, got.StaleResponses)
	assert.Equal(t, 42, editorDefaults(domain.EditorSettings{MinCheckLength: 42}).MinCheckLength)
}

func TestEditorSession_UnchangedTextNotRechecked(t *testing.T) {
	h := newHarness(t)

	h.typeText("hello world!")
	h.clock.Advance(time.Second)
	h.typeText("x")
	h.buf.Backspace()
	h.clock.Advance(time.Second)

	assert.Equal(t, []string{"hello world!"}, h.source.grammarCalls())
}

func TestEditorSession_OpenDoesNotScheduleWork(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	doc, err := h.store.DocumentStore.Create(ctx, "Notes", domain.DeltaFromText("Existing document text."))
	require.NoError(t, err)

	require.NoError(t, h.session.Open(ctx, doc.ID))
	assert.Equal(t, "Existing document text.", h.buf.Text())
	snap := h.session.Snapshot()
	assert.Equal(t, doc.ID, snap.DocumentID)
	assert.Equal(t, "Notes", snap.Title)

	h.clock.Advance(10 * time.Second)
	assert.Empty(t, h.source.grammarCalls())
	creates, updates := h.store.counts()
	assert.Zero(t, creates)
	assert.Zero(t, updates)

	h.typeText(" More.")
	h.clock.Advance(2 * time.Second)
	_, updates = h.store.counts()
	assert.Equal(t, 1, updates)
	require.NotNil(t, h.store.updates[0].Title)
	assert.Equal(t, "Notes", *h.store.updates[0].Title)
}

func TestEditorSession_OpenFailureRaisesNotice(t *testing.T) {
	h := newHarness(t)

	err := h.session.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	snap := h.session.Snapshot()
	require.NotNil(t, snap.Notice)
	assert.Equal(t, "Failed to load document", snap.Notice.Message)
	assert.Equal(t, domain.NewDocumentID, snap.DocumentID)
}

func TestEditorSession_TitleChangeSchedulesSave(t *testing.T) {
	h := newHarness(t)

	h.session.SetTitle("My Doc")
	h.clock.Advance(2 * time.Second)

	assert.Equal(t, []string{"My Doc"}, h.store.creates)
	assert.Equal(t, "My Doc", h.session.Snapshot().Title)
}

func TestEditorSession_Clear(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	doc, err := h.store.DocumentStore.Create(ctx, "Notes", domain.DeltaFromText("Some text"))
	require.NoError(t, err)
	require.NoError(t, h.session.Open(ctx, doc.ID))

	h.session.Clear()

	snap := h.session.Snapshot()
	assert.Equal(t, domain.NewDocumentID, snap.DocumentID)
	assert.Equal(t, domain.DefaultTitle, snap.Title)
	assert.Empty(t, h.buf.Text())
	assert.Equal(t, driving.StateIdle, snap.State)
	assert.Empty(t, snap.WordAnalysis)
}

func loadSuggestions(t *testing.T, h *editorHarness, list ...domain.Suggestion) {
	t.Helper()
	h.source.contentFn = func(string) ([]domain.Suggestion, error) { return list, nil }
	require.NoError(t, h.session.RequestSuggestions(context.Background()))
	snap := h.session.Snapshot()
	require.Equal(t, driving.StatePending, snap.State)
	require.Len(t, snap.Suggestions, len(list))
}

func TestEditorSession_ApplyGrammar(t *testing.T) {
	h := newHarness(t)
	h.buf.SetText("Hello world")
	h.buf.SetSelection(domain.Selection{Index: 3})
	loadSuggestions(t, h,
		domain.Suggestion{Kind: domain.KindGrammar, Text: "Add punctuation"},
		domain.Suggestion{Kind: domain.KindContent, Text: "Say more"},
	)

	require.NoError(t, h.session.ApplySuggestion(0))

	assert.Equal(t, "Hello world.", h.buf.Text())
	snap := h.session.Snapshot()
	assert.Equal(t, driving.StateIdle, snap.State)
	assert.Empty(t, snap.Suggestions)
}

func TestEditorSession_ApplyStyle(t *testing.T) {
	h := newHarness(t)
	h.buf.SetText("I like js and JS")
	h.buf.SetSelection(domain.Selection{Index: 0})
	loadSuggestions(t, h, domain.Suggestion{Kind: domain.KindStyle})

	require.NoError(t, h.session.ApplySuggestion(0))

	assert.Equal(t, "I like JavaScript and JS", h.buf.Text())
}

func TestEditorSession_ApplyInformationalClearsList(t *testing.T) {
	h := newHarness(t)
	h.buf.SetText("Hello world")
	loadSuggestions(t, h, domain.Suggestion{Kind: domain.KindContent, Text: "Say more"})

	require.NoError(t, h.session.ApplySuggestion(0))

	assert.Equal(t, "Hello world", h.buf.Text())
	assert.Empty(t, h.session.Snapshot().Suggestions)
}

func TestEditorSession_ApplyPreconditions(t *testing.T) {
	h := newHarness(t)
	h.buf.SetText("Hello world")

	assert.ErrorIs(t, h.session.ApplySuggestion(0), domain.ErrNoSuggestions)

	loadSuggestions(t, h, domain.Suggestion{Kind: domain.KindGrammar})
	assert.ErrorIs(t, h.session.ApplySuggestion(3), domain.ErrInvalidInput)

	h.buf.Blur()
	assert.ErrorIs(t, h.session.ApplySuggestion(0), domain.ErrNoSelection)
	assert.Equal(t, "Hello world", h.buf.Text())

	snap := h.session.Snapshot()
	assert.Equal(t, driving.StatePending, snap.State)
	assert.Len(t, snap.Suggestions, 1)
}

func TestEditorSession_Dismiss(t *testing.T) {
	h := newHarness(t)
	h.buf.SetText("Hello world")
	loadSuggestions(t, h, domain.Suggestion{Kind: domain.KindGrammar})

	h.session.DismissSuggestions()

	snap := h.session.Snapshot()
	assert.Equal(t, driving.StateIdle, snap.State)
	assert.Empty(t, snap.Suggestions)
}

func TestEditorSession_FetchFailureKeepsSuggestions(t *testing.T) {
	h := newHarness(t)
	h.buf.SetText("Hello world")
	loadSuggestions(t, h, domain.Suggestion{Kind: domain.KindGrammar, Text: "keep me"})

	h.source.contentFn = func(string) ([]domain.Suggestion, error) { return nil, domain.ErrRequestFailed }
	err := h.session.RequestSuggestions(context.Background())
	assert.ErrorIs(t, err, domain.ErrRequestFailed)

	snap := h.session.Snapshot()
	assert.Equal(t, driving.StatePending, snap.State)
	require.Len(t, snap.Suggestions, 1)
	assert.Equal(t, "keep me", snap.Suggestions[0].Text)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, "Failed to get content suggestions", snap.Notice.Message)
	assert.False(t, snap.Loading)

	h.clock.Advance(domain.NoticeDuration)
	assert.Nil(t, h.session.Snapshot().Notice)
}

func TestEditorSession_DismissNotice(t *testing.T) {
	h := newHarness(t)
	h.source.contentFn = func(string) ([]domain.Suggestion, error) { return nil, errors.New("offline") }
	require.Error(t, h.session.RequestSuggestions(context.Background()))
	require.NotNil(t, h.session.Snapshot().Notice)

	h.session.DismissNotice()
	assert.Nil(t, h.session.Snapshot().Notice)
}

func TestEditorSession_ContentRequestInFlightIsNoop(t *testing.T) {
	h := newHarness(t)
	h.buf.SetText("Hello world")

	var nested error
	h.source.contentFn = func(string) ([]domain.Suggestion, error) {
		nested = h.session.RequestSuggestions(context.Background())
		return []domain.Suggestion{{Kind: domain.KindContent}}, nil
	}

	require.NoError(t, h.session.RequestSuggestions(context.Background()))
	assert.NoError(t, nested)
	assert.Len(t, h.source.content, 1)
}

func TestEditorSession_WordAnalysis(t *testing.T) {
	h := newHarness(t)
	h.source.wordFn = func(word string) ([]domain.Suggestion, error) {
		return []domain.Suggestion{{Kind: domain.KindWordAnalysis, Text: "definition of " + word}}, nil
	}
	h.buf.SetText("hello world today")

	h.buf.SetSelection(domain.Selection{Index: 6, Length: 5})
	assert.Equal(t, []string{"world"}, h.source.wordCalls())
	snap := h.session.Snapshot()
	assert.Equal(t, "world", snap.SelectedWord)
	require.Len(t, snap.WordAnalysis, 1)
	assert.Equal(t, "definition of world", snap.WordAnalysis[0].Text)

	h.buf.SetSelection(domain.Selection{Index: 6, Length: 11})
	h.buf.SetSelection(domain.Selection{Index: 6})
	h.buf.SetSelection(domain.Selection{Index: 5, Length: 1})
	assert.Len(t, h.source.wordCalls(), 1)
}

func TestEditorSession_CursorPosition(t *testing.T) {
	h := newHarness(t)
	h.buf.SetContainer(domain.Rect{Top: 1, Left: 2, Width: 80, Height: 20})
	h.buf.SetText("ab\ncd")

	h.buf.SetSelection(domain.Selection{Index: 4})

	assert.Equal(t, domain.CursorPosition{Top: 3, Left: 3}, h.session.Snapshot().CursorPosition)
}

func TestEditorSession_StaleResponses(t *testing.T) {
	run := func(t *testing.T, policy domain.StaleResponsePolicy) string {
		h := newHarness(t, withQueuedRun(), withSettings(domain.EditorSettings{StaleResponses: policy}))
		h.source.grammarFn = func(text string) ([]domain.Suggestion, error) {
			return []domain.Suggestion{{Kind: domain.KindGrammar, Text: text}}, nil
		}

		h.typeText("first text!")
		h.clock.Advance(time.Second)
		h.typeText(" more")
		h.clock.Advance(time.Second)
		require.Len(t, h.queue, 2)
		assert.True(t, h.session.Snapshot().Loading)

		// Responses arrive out of order.
		h.queue[1]()
		h.queue[0]()

		snap := h.session.Snapshot()
		assert.False(t, snap.Loading)
		require.Len(t, snap.Suggestions, 1)
		return snap.Suggestions[0].Text
	}

	t.Run("apply", func(t *testing.T) {
		assert.Equal(t, "first text!", run(t, domain.StaleApply))
	})
	t.Run("discard", func(t *testing.T) {
		assert.Equal(t, "first text! more", run(t, domain.StaleDiscard))
	})
}

func TestEditorSession_ResponseForPreviousDocumentIgnored(t *testing.T) {
	h := newHarness(t, withQueuedRun())
	h.source.grammarFn = func(text string) ([]domain.Suggestion, error) {
		return []domain.Suggestion{{Kind: domain.KindGrammar, Text: text}}, nil
	}

	h.typeText("some long text")
	h.clock.Advance(time.Second)
	require.Len(t, h.queue, 1)

	h.session.Clear()
	h.queue[0]()

	assert.Empty(t, h.session.Snapshot().Suggestions)
}

func TestEditorSession_SaveFailure(t *testing.T) {
	h := newHarness(t)
	h.store.failErr = errors.New("disk full")

	err := h.session.Save(context.Background())
	require.Error(t, err)

	snap := h.session.Snapshot()
	assert.Equal(t, domain.NewDocumentID, snap.DocumentID)
	assert.False(t, snap.Saving)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, "Failed to save document", snap.Notice.Message)
}

func TestEditorSession_MissingCollaborators(t *testing.T) {
	s, err := NewEditorSession(EditorSessionConfig{Buffer: buffer.New(), Clock: newFakeClock()})
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, s.Save(context.Background()), domain.ErrNotImplemented)
	assert.ErrorIs(t, s.RequestSuggestions(context.Background()), domain.ErrSuggestionUnavailable)
	assert.ErrorIs(t, s.Open(context.Background(), "doc-1"), domain.ErrNotImplemented)
}

func TestEditorSession_OnUpdate(t *testing.T) {
	h := newHarness(t)
	var snaps []driving.SessionSnapshot
	unregister := h.session.OnUpdate(func(s driving.SessionSnapshot) { snaps = append(snaps, s) })

	h.session.SetTitle("Draft")
	require.NotEmpty(t, snaps)
	assert.Equal(t, "Draft", snaps[len(snaps)-1].Title)

	unregister()
	n := len(snaps)
	h.session.SetTitle("Final")
	assert.Len(t, snaps, n)
}

func TestEditorSession_Close(t *testing.T) {
	h := newHarness(t, withQueuedRun())
	h.source.grammarFn = func(text string) ([]domain.Suggestion, error) {
		return []domain.Suggestion{{Kind: domain.KindGrammar, Text: text}}, nil
	}
	var last driving.SessionSnapshot
	h.session.OnUpdate(func(s driving.SessionSnapshot) { last = s })

	h.typeText("a long enough text")
	h.clock.Advance(time.Second)
	require.Len(t, h.queue, 1)
	h.typeText(" and more")

	h.session.Close()
	assert.True(t, last.Closed)
	assert.Zero(t, h.buf.Subscribers())

	// Late response and pending windows are no-ops.
	h.queue[0]()
	h.clock.Advance(time.Minute)
	assert.Len(t, h.source.grammarCalls(), 1)
	assert.Len(t, h.queue, 1)
	assert.Empty(t, h.session.Snapshot().Suggestions)

	assert.ErrorIs(t, h.session.ApplySuggestion(0), domain.ErrSessionClosed)
	assert.ErrorIs(t, h.session.Save(context.Background()), domain.ErrSessionClosed)
	h.session.Close()
}

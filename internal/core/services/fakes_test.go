package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// fakeClock runs timers only when Advance moves time past them.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) driven.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward, running due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.fn()
	}
}

// fakeSource records calls and returns canned responses.
type fakeSource struct {
	mu         sync.Mutex
	grammar    []string
	content    []string
	words      []string
	feedback   []string
	grammarFn  func(text string) ([]domain.Suggestion, error)
	contentFn  func(text string) ([]domain.Suggestion, error)
	wordFn     func(word string) ([]domain.Suggestion, error)
	feedbackFn func(id string) (*domain.AIFeedback, error)
}

func (f *fakeSource) GrammarCheck(_ context.Context, text string) ([]domain.Suggestion, error) {
	f.mu.Lock()
	f.grammar = append(f.grammar, text)
	fn := f.grammarFn
	f.mu.Unlock()
	if fn != nil {
		return fn(text)
	}
	return nil, nil
}

func (f *fakeSource) ContentSuggestions(_ context.Context, text string) ([]domain.Suggestion, error) {
	f.mu.Lock()
	f.content = append(f.content, text)
	fn := f.contentFn
	f.mu.Unlock()
	if fn != nil {
		return fn(text)
	}
	return nil, nil
}

func (f *fakeSource) WordAnalysis(_ context.Context, word string) ([]domain.Suggestion, error) {
	f.mu.Lock()
	f.words = append(f.words, word)
	fn := f.wordFn
	f.mu.Unlock()
	if fn != nil {
		return fn(word)
	}
	return []domain.Suggestion{}, nil
}

func (f *fakeSource) DocumentFeedback(_ context.Context, id string) (*domain.AIFeedback, error) {
	f.mu.Lock()
	f.feedback = append(f.feedback, id)
	fn := f.feedbackFn
	f.mu.Unlock()
	if fn != nil {
		return fn(id)
	}
	return &domain.AIFeedback{DocumentID: id, FeedbackType: domain.FeedbackTypeGeneral, Suggestion: "ok"}, nil
}

func (f *fakeSource) grammarCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.grammar...)
}

func (f *fakeSource) wordCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.words...)
}

// countingStore wraps a DocumentStore and counts writes.
type countingStore struct {
	driven.DocumentStore

	mu      sync.Mutex
	creates []string
	updates []domain.DocumentPatch
	failErr error
	onGet   func()
}

func (s *countingStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	if s.onGet != nil {
		s.onGet()
	}
	return s.DocumentStore.Get(ctx, id)
}

func (s *countingStore) Create(ctx context.Context, title string, content domain.Delta) (*domain.Document, error) {
	s.mu.Lock()
	s.creates = append(s.creates, title)
	err := s.failErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.DocumentStore.Create(ctx, title, content)
}

func (s *countingStore) Update(ctx context.Context, id string, patch domain.DocumentPatch) (*domain.Document, error) {
	s.mu.Lock()
	s.updates = append(s.updates, patch)
	err := s.failErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.DocumentStore.Update(ctx, id, patch)
}

func (s *countingStore) counts() (creates, updates int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.creates), len(s.updates)
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

func TestNewDocumentService(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil, nil)
	require.NotNil(t, svc)
}

func TestDocumentService_CreateAndGet(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil, nil)
	ctx := context.Background()

	doc, err := svc.Create(ctx, "Notes", domain.DeltaFromText("hello"))
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.NotEqual(t, domain.NewDocumentID, doc.ID)

	got, err := svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes", got.Title)
	assert.Equal(t, "hello", got.Content.PlainText())
}

func TestDocumentService_Create_BlankTitle(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil, nil)

	doc, err := svc.Create(context.Background(), "  ", domain.Delta{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTitle, doc.Title)
}

func TestDocumentService_Get_Placeholder(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil, nil)

	for _, id := range []string{"", domain.NewDocumentID, "missing"} {
		_, err := svc.Get(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}
}

func TestDocumentService_List(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "A", domain.Delta{})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "B", domain.Delta{})
	require.NoError(t, err)

	docs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentService_Update(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil, nil)
	ctx := context.Background()
	doc, err := svc.Create(ctx, "Draft", domain.DeltaFromText("v1"))
	require.NoError(t, err)

	title := "Final"
	updated, err := svc.Update(ctx, doc.ID, domain.DocumentPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "v1", updated.Content.PlainText())

	same, err := svc.Update(ctx, doc.ID, domain.DocumentPatch{})
	require.NoError(t, err)
	assert.Equal(t, "Final", same.Title)

	_, err = svc.Update(ctx, "missing", domain.DocumentPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Delete(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil, nil)
	ctx := context.Background()
	doc, err := svc.Create(ctx, "Temp", domain.Delta{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, doc.ID))
	_, err = svc.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, doc.ID), domain.ErrNotFound)
}

func TestDocumentService_RequestFeedback(t *testing.T) {
	store := memory.NewDocumentStore()
	source := &fakeSource{}
	svc := NewDocumentService(store, source, store)
	ctx := context.Background()
	doc, err := svc.Create(ctx, "Essay", domain.DeltaFromText("Some text."))
	require.NoError(t, err)

	fb, err := svc.RequestFeedback(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackTypeGeneral, fb.FeedbackType)
	assert.Equal(t, []string{doc.ID}, source.feedback)

	recorded, err := store.ListFeedback(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, recorded, 1)
}

func TestDocumentService_RequestFeedback_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewDocumentService(memory.NewDocumentStore(), nil, nil).RequestFeedback(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrSuggestionUnavailable)

	source := &fakeSource{feedbackFn: func(string) (*domain.AIFeedback, error) {
		return nil, domain.ErrRequestFailed
	}}
	_, err = NewDocumentService(memory.NewDocumentStore(), source, nil).RequestFeedback(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrRequestFailed)
}

func TestDocumentService_RequestFeedback_StoreFailureIsNotFatal(t *testing.T) {
	// The memory store rejects feedback for unknown documents.
	store := memory.NewDocumentStore()
	svc := NewDocumentService(store, &fakeSource{}, store)

	fb, err := svc.RequestFeedback(context.Background(), "remote-only")
	require.NoError(t, err)
	assert.Equal(t, "remote-only", fb.DocumentID)
}

func TestDocumentService_NilDocStore(t *testing.T) {
	svc := NewDocumentService(nil, nil, nil)
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.True(t, errors.Is(err, domain.ErrNotImplemented))
	_, err = svc.Get(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.Create(ctx, "x", domain.Delta{})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.Update(ctx, "x", domain.DocumentPatch{})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, svc.Delete(ctx, "x"), domain.ErrNotImplemented)
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// stubNormaliser returns its name as the title.
type stubNormaliser struct {
	name     string
	types    []string
	priority int
	err      error
}

func (n *stubNormaliser) SupportedMIMETypes() []string { return n.types }
func (n *stubNormaliser) Priority() int                { return n.priority }

func (n *stubNormaliser) Normalise(_ context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if n.err != nil {
		return nil, n.err
	}
	return &driven.NormaliseResult{Title: n.name, Content: domain.DeltaFromText(string(raw.Content))}, nil
}

func TestNormaliserRegistry_PicksHighestPriority(t *testing.T) {
	low := &stubNormaliser{name: "low", types: []string{"text/plain"}, priority: 5}
	high := &stubNormaliser{name: "high", types: []string{"text/plain"}, priority: 50}
	r := NewNormaliserRegistry(low, high)

	result, err := r.Normalise(context.Background(), &domain.RawFile{Name: "a.txt", MIMEType: "text/plain", Content: []byte("x")})

	require.NoError(t, err)
	assert.Equal(t, "high", result.Title)
}

func TestNormaliserRegistry_FallsBackOnError(t *testing.T) {
	broken := &stubNormaliser{name: "broken", types: []string{"text/html"}, priority: 60, err: errors.New("bad markup")}
	backup := &stubNormaliser{name: "backup", types: []string{"text/html"}, priority: 10}
	r := NewNormaliserRegistry(broken, backup)

	result, err := r.Normalise(context.Background(), &domain.RawFile{Name: "a.html", MIMEType: "text/html; charset=utf-8"})

	require.NoError(t, err)
	assert.Equal(t, "backup", result.Title)
}

func TestNormaliserRegistry_AllFail(t *testing.T) {
	broken := &stubNormaliser{name: "broken", types: []string{"text/html"}, priority: 60, err: domain.ErrInvalidInput}
	r := NewNormaliserRegistry(broken)

	_, err := r.Normalise(context.Background(), &domain.RawFile{Name: "a.html", MIMEType: "text/html"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormaliserRegistry_Unsupported(t *testing.T) {
	r := NewNormaliserRegistry()

	_, err := r.Normalise(context.Background(), &domain.RawFile{Name: "a.bin", MIMEType: "application/octet-stream"})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestNormaliserRegistry_NilInput(t *testing.T) {
	_, err := NewNormaliserRegistry().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormaliserRegistry_DetectsMissingType(t *testing.T) {
	md := &stubNormaliser{name: "md", types: []string{"text/markdown"}, priority: 50}
	r := NewNormaliserRegistry(md)

	result, err := r.Normalise(context.Background(), &domain.RawFile{Name: "notes.md", Content: []byte("# hi")})

	require.NoError(t, err)
	assert.Equal(t, "md", result.Title)
}

func TestNormaliserRegistry_SupportedMIMETypes(t *testing.T) {
	r := NewNormaliserRegistry(
		&stubNormaliser{types: []string{"text/plain"}},
		&stubNormaliser{types: []string{"Text/Markdown", "text/plain"}},
	)
	r.Register(nil)

	assert.Equal(t, []string{"text/markdown", "text/plain"}, r.SupportedMIMETypes())
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"README.md", "", "text/markdown"},
		{"notes.TXT", "", "text/plain"},
		{"page.html", "", "text/html"},
		{"report.docx", "", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"noext", "<!DOCTYPE html><html></html>", "text/html"},
		{"noext", "just words", "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMIMEType(tt.name, []byte(tt.content)))
		})
	}
}

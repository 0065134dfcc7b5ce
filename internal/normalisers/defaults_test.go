package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/services"
)

func TestRegisterDefaults(t *testing.T) {
	r := services.NewNormaliserRegistry()
	RegisterDefaults(r)

	types := r.SupportedMIMETypes()
	for _, mt := range []string{
		"text/markdown",
		"text/html",
		"text/plain",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	} {
		assert.Contains(t, types, mt)
	}
}

func TestRegisterDefaults_MarkdownBeatsPlaintext(t *testing.T) {
	r := services.NewNormaliserRegistry()
	RegisterDefaults(r)

	result, err := r.Normalise(context.Background(), &domain.RawFile{
		Name:    "notes.md",
		Content: []byte("# Notes\n\n**done**"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Notes", result.Title)
	assert.Equal(t, map[string]any{"header": 1}, result.Content.Ops[1].Attributes)
}

func TestRegisterDefaults_PlaintextFallback(t *testing.T) {
	r := services.NewNormaliserRegistry()
	RegisterDefaults(r)

	result, err := r.Normalise(context.Background(), &domain.RawFile{
		Name:    "todo.txt",
		Content: []byte("buy milk"),
	})

	require.NoError(t, err)
	assert.Equal(t, "todo", result.Title)
	assert.Equal(t, "buy milk", result.Content.PlainText())
}

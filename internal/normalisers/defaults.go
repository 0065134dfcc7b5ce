package normalisers

import (
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scribe-cli/internal/normalisers/docx"
	"github.com/custodia-labs/scribe-cli/internal/normalisers/html"
	"github.com/custodia-labs/scribe-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/scribe-cli/internal/normalisers/plaintext"
)

// RegisterDefaults registers all built-in normalisers with the registry.
// Call this during application initialisation to enable file import.
func RegisterDefaults(r driven.NormaliserRegistry) {
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
}

package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure NormaliserRegistry implements the interface.
var _ driven.NormaliserRegistry = (*NormaliserRegistry)(nil)

// extensionTypes covers formats the system MIME table often lacks.
var extensionTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".mdown":    "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".htm":      "text/html",
	".html":     "text/html",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// NormaliserRegistry dispatches files to the highest-priority normaliser
// registered for their MIME type.
type NormaliserRegistry struct {
	mu     sync.RWMutex
	byMIME map[string][]driven.Normaliser
}

// NewNormaliserRegistry creates a registry holding the given normalisers.
func NewNormaliserRegistry(normalisers ...driven.Normaliser) *NormaliserRegistry {
	r := &NormaliserRegistry{byMIME: make(map[string][]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser under each of its MIME types.
func (r *NormaliserRegistry) Register(n driven.Normaliser) {
	if n == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mt := range n.SupportedMIMETypes() {
		mt = strings.ToLower(mt)
		list := append(r.byMIME[mt], n)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byMIME[mt] = list
	}
}

// Normalise converts raw with the best normaliser for its MIME type. When
// the type is empty it is detected from the file name and content.
func (r *NormaliserRegistry) Normalise(ctx context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	mt := raw.MIMEType
	if mt == "" {
		mt = DetectMIMEType(raw.Name, raw.Content)
	}
	mt = baseMIMEType(mt)

	r.mu.RLock()
	candidates := r.byMIME[mt]
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s (%s): %w", raw.Name, mt, domain.ErrUnsupportedFormat)
	}

	var lastErr error
	for _, n := range candidates {
		result, err := n.Normalise(ctx, raw)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("normalising %s: %w", raw.Name, lastErr)
}

// SupportedMIMETypes returns the registered MIME types in sorted order.
func (r *NormaliserRegistry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byMIME))
	for mt := range r.byMIME {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

// DetectMIMEType guesses the MIME type from the file extension and falls
// back to sniffing the content.
func DetectMIMEType(name string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return baseMIMEType(mt)
		}
	}
	return baseMIMEType(http.DetectContentType(content))
}

// baseMIMEType strips parameters such as charset.
func baseMIMEType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

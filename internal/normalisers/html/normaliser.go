package html

import (
	"bytes"
	"context"
	"maps"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, above plaintext
}

// Normalise converts an HTML document into rich text. The title comes from
// <title>, then the first <h1>, then the file name.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	root, err := html.Parse(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	w := &walker{}
	w.walk(root, nil, nil)
	w.endLine(nil)

	title := w.docTitle
	if title == "" {
		title = w.firstH1
	}
	if title == "" {
		title = domain.TitleFromName(raw.Name)
	}
	return &driven.NormaliseResult{Title: title, Content: w.delta}, nil
}

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Object:   true,
}

// blocks start and end a line.
var blocks = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Aside:      true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Dd:         true,
	atom.Figure:     true,
	atom.Figcaption: true,
}

var inlineAttrs = map[atom.Atom]string{
	atom.B:      "bold",
	atom.Strong: "bold",
	atom.I:      "italic",
	atom.Em:     "italic",
	atom.U:      "underline",
	atom.S:      "strike",
	atom.Strike: "strike",
	atom.Del:    "strike",
	atom.Code:   "code",
}

var headerLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// walker accumulates the delta while visiting nodes in document order.
type walker struct {
	delta        domain.Delta
	lineHasText  bool
	pendingSpace bool
	docTitle     string
	firstH1      string
}

func (w *walker) walk(n *html.Node, inline, block map[string]any) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, inline)
		return
	case html.ElementNode:
	default:
		w.children(n, inline, block)
		return
	}

	a := n.DataAtom
	switch {
	case skipped[a]:
		return
	case a == atom.Title:
		if w.docTitle == "" {
			w.docTitle = collapse(textContent(n))
		}
		return
	case a == atom.Head:
		w.children(n, inline, block)
		return
	case a == atom.Br:
		w.endLine(block)
		return
	case a == atom.Hr:
		w.endLine(block)
		return
	case a == atom.Pre:
		w.endLine(block)
		w.pre(n)
		return
	}

	if key, ok := inlineAttrs[a]; ok {
		w.children(n, with(inline, key, true), block)
		return
	}
	if a == atom.A {
		if href := attr(n, "href"); href != "" {
			inline = with(inline, "link", href)
		}
		w.children(n, inline, block)
		return
	}
	if level, ok := headerLevels[a]; ok {
		if level == 1 && w.firstH1 == "" {
			w.firstH1 = collapse(textContent(n))
		}
		w.line(n, inline, block, map[string]any{"header": level})
		return
	}

	switch a {
	case atom.Li:
		kind := "bullet"
		if n.Parent != nil && n.Parent.DataAtom == atom.Ol {
			kind = "ordered"
		}
		w.line(n, inline, block, map[string]any{"list": kind})
	case atom.Blockquote:
		w.line(n, inline, block, map[string]any{"blockquote": true})
	default:
		if blocks[a] {
			w.line(n, inline, block, block)
			return
		}
		w.children(n, inline, block)
	}
}

// line renders n as its own block carrying lineAttrs.
func (w *walker) line(n *html.Node, inline, outer, lineAttrs map[string]any) {
	w.endLine(outer)
	w.children(n, inline, lineAttrs)
	w.endLine(lineAttrs)
}

func (w *walker) children(n *html.Node, inline, block map[string]any) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, inline, block)
	}
}

// text pushes s with HTML whitespace collapsing.
func (w *walker) text(s string, attrs map[string]any) {
	if s == "" {
		return
	}
	if unicode.IsSpace(rune(s[0])) && w.lineHasText {
		w.pendingSpace = true
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return
	}
	if w.pendingSpace {
		w.delta.Push(" ", nil)
	}
	w.delta.Push(strings.Join(words, " "), attrs)
	w.lineHasText = true
	w.pendingSpace = unicode.IsSpace(rune(s[len(s)-1]))
}

// endLine terminates the current line when it holds text.
func (w *walker) endLine(attrs map[string]any) {
	if w.lineHasText {
		w.delta.Push("\n", attrs)
	}
	w.lineHasText = false
	w.pendingSpace = false
}

// pre emits preformatted text line by line as a code block.
func (w *walker) pre(n *html.Node) {
	body := strings.TrimPrefix(textContent(n), "\n")
	body = strings.TrimRight(body, "\n")
	if body == "" {
		return
	}
	for _, line := range strings.Split(body, "\n") {
		w.delta.Push(line, nil)
		w.delta.Push("\n", map[string]any{"code-block": true})
	}
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// with returns a copy of m with key set.
func with(m map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(m)+1)
	maps.Copy(out, m)
	out[key] = value
	return out
}

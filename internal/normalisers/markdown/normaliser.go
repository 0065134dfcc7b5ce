package markdown

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, above plaintext
}

var (
	headingLine  = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	bulletLine   = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	orderedLine  = regexp.MustCompile(`^\s*\d+[.)]\s+(.*)$`)
	quoteLine    = regexp.MustCompile(`^\s*>\s?(.*)$`)
	ruleLine     = regexp.MustCompile(`^\s*([-*_])(\s*[-*_]){2,}\s*$`)
	fenceLine    = regexp.MustCompile("^\\s*(```|~~~)")
	inlineTokens = regexp.MustCompile(
		`!\[([^\]]*)\]\([^)]*\)` +
			`|\[([^\]]+)\]\(([^)\s]+)(?:\s+"[^"]*")?\)` +
			`|\*\*([^*]+)\*\*` +
			`|__([^_]+)__` +
			`|\*([^*\s][^*]*)\*` +
			"|`([^`]+)`")
)

// Normalise converts Markdown into rich text. Block structure becomes line
// attributes on the terminating newline; inline emphasis, code and links
// become run attributes.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !utf8.Valid(raw.Content) {
		return nil, domain.ErrInvalidInput
	}

	c := &converter{}
	c.convert(strings.ReplaceAll(string(raw.Content), "\r\n", "\n"))

	title := c.title
	if title == "" {
		title = domain.TitleFromName(raw.Name)
	}
	return &driven.NormaliseResult{Title: title, Content: c.delta}, nil
}

// converter accumulates the delta while walking source lines.
type converter struct {
	delta     domain.Delta
	paragraph []string
	title     string
}

func (c *converter) convert(src string) {
	inFence := false
	for _, line := range strings.Split(src, "\n") {
		if fenceLine.MatchString(line) {
			c.flush()
			inFence = !inFence
			continue
		}
		if inFence {
			c.delta.Push(line, nil)
			c.delta.Push("\n", map[string]any{"code-block": true})
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			c.flush()
		case ruleLine.MatchString(line):
			c.flush()
		case headingLine.MatchString(trimmed):
			c.flush()
			m := headingLine.FindStringSubmatch(trimmed)
			level := len(m[1])
			text := c.inline(m[2])
			if level == 1 && c.title == "" {
				c.title = strings.TrimSpace(text)
			}
			c.delta.Push("\n", map[string]any{"header": level})
		case bulletLine.MatchString(line):
			c.flush()
			c.inline(bulletLine.FindStringSubmatch(line)[1])
			c.delta.Push("\n", map[string]any{"list": "bullet"})
		case orderedLine.MatchString(line):
			c.flush()
			c.inline(orderedLine.FindStringSubmatch(line)[1])
			c.delta.Push("\n", map[string]any{"list": "ordered"})
		case quoteLine.MatchString(line):
			c.flush()
			c.inline(quoteLine.FindStringSubmatch(line)[1])
			c.delta.Push("\n", map[string]any{"blockquote": true})
		default:
			c.paragraph = append(c.paragraph, trimmed)
		}
	}
	c.flush()
}

// flush writes pending paragraph lines as one soft-wrapped line.
func (c *converter) flush() {
	if len(c.paragraph) == 0 {
		return
	}
	c.inline(strings.Join(c.paragraph, " "))
	c.delta.Push("\n", nil)
	c.paragraph = c.paragraph[:0]
}

// inline pushes text with inline formatting and returns its plain form.
func (c *converter) inline(text string) string {
	var plain strings.Builder
	push := func(s string, attrs map[string]any) {
		c.delta.Push(s, attrs)
		plain.WriteString(s)
	}

	last := 0
	for _, m := range inlineTokens.FindAllStringSubmatchIndex(text, -1) {
		push(text[last:m[0]], nil)
		group := func(i int) (string, bool) {
			if m[2*i] < 0 {
				return "", false
			}
			return text[m[2*i]:m[2*i+1]], true
		}

		switch {
		case m[2] >= 0:
			alt, _ := group(1)
			push(alt, nil)
		case m[4] >= 0:
			label, _ := group(2)
			url, _ := group(3)
			push(label, map[string]any{"link": url})
		case m[8] >= 0:
			s, _ := group(4)
			push(s, map[string]any{"bold": true})
		case m[10] >= 0:
			s, _ := group(5)
			push(s, map[string]any{"bold": true})
		case m[12] >= 0:
			s, _ := group(6)
			push(s, map[string]any{"italic": true})
		case m[14] >= 0:
			s, _ := group(7)
			push(s, map[string]any{"code": true})
		}
		last = m[1]
	}
	push(text[last:], nil)
	return plain.String()
}

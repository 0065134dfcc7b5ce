package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts a DOCX document into rich text. Paragraph styles map
// to header, list and quote attributes; run properties map to bold,
// italic, underline and strike.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("opening docx: %w", domain.ErrInvalidInput)
	}

	body, err := readPart(reader, "word/document.xml")
	if err != nil {
		return nil, err
	}
	content, err := parseDocumentXML(body)
	if err != nil {
		return nil, err
	}

	title := coreTitle(reader)
	if title == "" {
		title = domain.TitleFromName(raw.Name)
	}
	return &driven.NormaliseResult{Title: title, Content: content}, nil
}

// readPart returns the bytes of a named archive member.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, domain.ErrInvalidInput)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, domain.ErrInvalidInput)
		}
		return data, nil
	}
	return nil, fmt.Errorf("missing %s: %w", name, domain.ErrInvalidInput)
}

type textRun struct {
	text  string
	attrs map[string]any
}

// paragraphState collects one w:p element.
type paragraphState struct {
	style  string
	list   bool
	runs   []textRun
	inRun  bool
	inRPr  bool
	inText bool
	attrs  map[string]any
}

// parseDocumentXML streams word/document.xml into a delta.
func parseDocumentXML(data []byte) (domain.Delta, error) {
	var delta domain.Delta
	dec := xml.NewDecoder(bytes.NewReader(data))

	var p *paragraphState
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Delta{}, fmt.Errorf("parsing document.xml: %w", domain.ErrInvalidInput)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				p = &paragraphState{}
				continue
			}
			if p == nil {
				continue
			}
			p.start(t)
		case xml.EndElement:
			if p == nil {
				continue
			}
			if t.Name.Local == "p" {
				p.flush(&delta)
				p = nil
				continue
			}
			p.end(t)
		case xml.CharData:
			if p != nil && p.inText {
				p.runs = append(p.runs, textRun{text: string(t), attrs: p.attrs})
			}
		}
	}
	return delta, nil
}

func (p *paragraphState) start(t xml.StartElement) {
	switch t.Name.Local {
	case "pStyle":
		p.style = attrVal(t)
	case "numPr":
		p.list = true
	case "r":
		p.inRun = true
		p.attrs = nil
	case "rPr":
		p.inRPr = p.inRun
	case "t":
		p.inText = p.inRun
	case "tab":
		if p.inRun && !p.inRPr {
			p.runs = append(p.runs, textRun{text: "\t", attrs: p.attrs})
		}
	case "br", "cr":
		if p.inRun && !p.inRPr {
			p.runs = append(p.runs, textRun{text: "\n"})
		}
	case "b", "i", "u", "strike", "dstrike":
		if p.inRPr && enabled(t) {
			p.setAttr(runAttr(t.Name.Local))
		}
	}
}

func (p *paragraphState) end(t xml.EndElement) {
	switch t.Name.Local {
	case "r":
		p.inRun = false
		p.attrs = nil
	case "rPr":
		p.inRPr = false
	case "t":
		p.inText = false
	}
}

func (p *paragraphState) setAttr(key string) {
	attrs := make(map[string]any, len(p.attrs)+1)
	for k, v := range p.attrs {
		attrs[k] = v
	}
	attrs[key] = true
	p.attrs = attrs
}

// flush pushes the paragraph's runs and its terminating newline.
func (p *paragraphState) flush(delta *domain.Delta) {
	for _, r := range p.runs {
		delta.Push(r.text, r.attrs)
	}
	delta.Push("\n", p.lineAttrs())
}

// lineAttrs maps the paragraph style onto line attributes.
func (p *paragraphState) lineAttrs() map[string]any {
	style := strings.ToLower(strings.ReplaceAll(p.style, " ", ""))
	switch {
	case style == "title":
		return map[string]any{"header": 1}
	case strings.HasPrefix(style, "heading"):
		if level, err := strconv.Atoi(strings.TrimPrefix(style, "heading")); err == nil && level >= 1 && level <= 6 {
			return map[string]any{"header": level}
		}
	case style == "quote" || style == "intensequote":
		return map[string]any{"blockquote": true}
	}
	if style == "listnumber" {
		return map[string]any{"list": "ordered"}
	}
	if p.list || style == "listparagraph" || style == "listbullet" {
		return map[string]any{"list": "bullet"}
	}
	return nil
}

func runAttr(local string) string {
	switch local {
	case "b":
		return "bold"
	case "i":
		return "italic"
	case "u":
		return "underline"
	default:
		return "strike"
	}
}

// enabled reports whether a toggle property is on. Absent w:val means on.
func enabled(t xml.StartElement) bool {
	switch strings.ToLower(attrVal(t)) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

func attrVal(t xml.StartElement) string {
	for _, a := range t.Attr {
		if a.Name.Local == "val" {
			return a.Value
		}
	}
	return ""
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// coreTitle returns dc:title from docProps/core.xml, or "".
func coreTitle(reader *zip.Reader) string {
	data, err := readPart(reader, "docProps/core.xml")
	if err != nil {
		return ""
	}
	var core coreXML
	if err := xml.Unmarshal(data, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}

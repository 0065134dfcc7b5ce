package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(t *testing.T, documentXML, coreXML string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	write := func(name, body string) {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}

	write("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`)
	if documentXML != "" {
		write("word/document.xml", documentXML)
	}
	if coreXML != "" {
		write("docProps/core.xml", coreXML)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func body(paragraphs string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>` + paragraphs + `</w:body></w:document>`
}

func normalise(t *testing.T, name string, content []byte) (*domain.Delta, string) {
	t.Helper()
	result, err := New().Normalise(context.Background(), &domain.RawFile{Name: name, Content: content})
	require.NoError(t, err)
	return &result.Content, result.Title
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Equal(t, []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}, mimeTypes)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_TitleFromCoreXML(t *testing.T) {
	data := createTestDOCX(t,
		body(`<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`),
		`<?xml version="1.0"?><cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title> Quarterly Report </dc:title></cp:coreProperties>`)

	content, title := normalise(t, "report.docx", data)

	assert.Equal(t, "Quarterly Report", title)
	assert.Equal(t, "Hello World\n", content.PlainText())
}

func TestNormalise_TitleFallbackToFilename(t *testing.T) {
	data := createTestDOCX(t, body(`<w:p><w:r><w:t>Content</w:t></w:r></w:p>`), "")

	_, title := normalise(t, "/docs/my_report-final.docx", data)

	assert.Equal(t, "my report final", title)
}

func TestNormalise_Paragraphs(t *testing.T) {
	data := createTestDOCX(t, body(`
<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Hello </w:t></w:r><w:r><w:t>World</w:t></w:r></w:p>
<w:p/>`), "")

	content, _ := normalise(t, "a.docx", data)

	assert.Equal(t, []domain.Op{{Insert: "First paragraph\nHello World\n\n"}}, content.Ops)
}

func TestNormalise_Styles(t *testing.T) {
	data := createTestDOCX(t, body(`
<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Doc</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading2"/><w:rPr><w:b/></w:rPr></w:pPr><w:r><w:t>Section</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr><w:r><w:t>item</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="ListNumber"/><w:numPr/></w:pPr><w:r><w:t>step</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Quote"/></w:pPr><w:r><w:t>said</w:t></w:r></w:p>`), "")

	content, _ := normalise(t, "a.docx", data)

	assert.Equal(t, []domain.Op{
		{Insert: "Doc"},
		{Insert: "\n", Attributes: map[string]any{"header": 1}},
		{Insert: "Section"},
		{Insert: "\n", Attributes: map[string]any{"header": 2}},
		{Insert: "item"},
		{Insert: "\n", Attributes: map[string]any{"list": "bullet"}},
		{Insert: "step"},
		{Insert: "\n", Attributes: map[string]any{"list": "ordered"}},
		{Insert: "said"},
		{Insert: "\n", Attributes: map[string]any{"blockquote": true}},
	}, content.Ops)
}

func TestNormalise_RunProperties(t *testing.T) {
	data := createTestDOCX(t, body(`<w:p>
<w:r><w:rPr><w:b/><w:i/></w:rPr><w:t>both</w:t></w:r>
<w:r><w:rPr><w:b w:val="0"/><w:u w:val="single"/></w:rPr><w:t>under</w:t></w:r>
<w:r><w:rPr><w:strike/></w:rPr><w:t>gone</w:t></w:r>
<w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r>
</w:p>`), "")

	content, _ := normalise(t, "a.docx", data)

	assert.Equal(t, []domain.Op{
		{Insert: "both", Attributes: map[string]any{"bold": true, "italic": true}},
		{Insert: "under", Attributes: map[string]any{"underline": true}},
		{Insert: "gone", Attributes: map[string]any{"strike": true}},
		{Insert: "a\tb\n"},
	}, content.Ops)
}

func TestNormalise_NilInput(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_InvalidZip(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawFile{Name: "a.docx", Content: []byte("not a zip")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_MissingDocumentPart(t *testing.T) {
	data := createTestDOCX(t, "", "")

	_, err := New().Normalise(context.Background(), &domain.RawFile{Name: "a.docx", Content: data})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_MalformedXML(t *testing.T) {
	data := createTestDOCX(t, `<w:document `+wordNS+`><w:body><w:p>`, "")

	_, err := New().Normalise(context.Background(), &domain.RawFile{Name: "a.docx", Content: data})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

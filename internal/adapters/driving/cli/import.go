package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

var documentImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a file as a new document",
	Long: `Import a Markdown, HTML, DOCX or plain-text file as a new document.
Headings, lists, quotes and inline emphasis are kept as formatting.

The type is detected from the file extension, falling back to the content.
Use - to read from stdin and --name to hint the type.

Examples:
  scribe document import notes.md
  scribe document import report.docx --title "Q3 Report"
  curl -s https://example.com | scribe document import - --name page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentImport,
}

var (
	importTitle string
	importName  string
)

func init() {
	documentImportCmd.Flags().StringVarP(&importTitle, "title", "t", "", "document title (default derived from the file)")
	documentImportCmd.Flags().StringVar(&importName, "name", "", "file name used for type detection when reading stdin")
	documentCmd.AddCommand(documentImportCmd)
}

func runDocumentImport(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	path := args[0]
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	name := path
	if importName != "" {
		name = importName
	} else if path == "-" {
		name = ""
	}

	doc, err := importService.Import(cmdContext(cmd), name, data, importTitle)
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		return fmt.Errorf("failed to import %s: %w (supported: %s)", path, err, supportedFormats())
	}
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	cmd.Printf("Imported %s as document %s (%s)\n", path, doc.ID, displayTitle(doc.Title))
	return nil
}

// supportedFormats renders the importable MIME types for help output.
func supportedFormats() string {
	return strings.Join(importService.SupportedMIMETypes(), ", ")
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents",
	Long:  `List, view, create, update, or delete documents, and ask for whole-document feedback.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentCreateCmd = &cobra.Command{
	Use:   "create [text...]",
	Short: "Create a document",
	Long: `Create a document. Content is read from the arguments, from --file,
or from stdin when it is piped.`,
	RunE: runDocumentCreate,
}

var documentUpdateCmd = &cobra.Command{
	Use:   "update [doc-id]",
	Short: "Update a document's title or content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentUpdate,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentFeedbackCmd = &cobra.Command{
	Use:   "feedback [doc-id]",
	Short: "Ask for whole-document feedback",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentFeedback,
}

var (
	documentTitle   string
	documentFile    string
	documentContent string
	documentPublic  string
	documentJSON    bool
)

func init() {
	documentCreateCmd.Flags().StringVarP(&documentTitle, "title", "t", "", "document title")
	documentCreateCmd.Flags().StringVarP(&documentFile, "file", "f", "", "read content from file (- for stdin)")

	documentUpdateCmd.Flags().StringVarP(&documentTitle, "title", "t", "", "new title")
	documentUpdateCmd.Flags().StringVarP(&documentContent, "content", "c", "", "new content")
	documentUpdateCmd.Flags().StringVarP(&documentFile, "file", "f", "", "read new content from file (- for stdin)")
	documentUpdateCmd.Flags().StringVar(&documentPublic, "public", "", "share the document (true or false)")

	documentGetCmd.Flags().BoolVar(&documentJSON, "json", false, "output the document as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentCreateCmd)
	documentCmd.AddCommand(documentUpdateCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentFeedbackCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmdContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", displayTitle(docs[i].Title))
		if !docs[i].UpdatedAt.IsZero() {
			cmd.Printf("    Updated: %s\n", docs[i].UpdatedAt.Format("2006-01-02 15:04"))
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmdContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if documentJSON {
		data, err := json.MarshalIndent(documentOutput{
			ID:       doc.ID,
			Title:    doc.Title,
			Content:  doc.Content,
			IsPublic: doc.IsPublic,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("ID: %s\n", doc.ID)
	cmd.Printf("Title: %s\n", displayTitle(doc.Title))
	if doc.IsPublic {
		cmd.Println("Shared: yes")
	}
	if !doc.CreatedAt.IsZero() {
		cmd.Printf("Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04"))
	}
	if !doc.UpdatedAt.IsZero() {
		cmd.Printf("Updated: %s\n", doc.UpdatedAt.Format("2006-01-02 15:04"))
	}
	cmd.Println()
	cmd.Println(doc.Content.PlainText())
	return nil
}

// documentOutput is the JSON shape printed by document get.
type documentOutput struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Content  domain.Delta `json:"content"`
	IsPublic bool         `json:"is_public"`
}

func runDocumentCreate(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	text, err := readInput(cmd, args, documentFile)
	if err != nil && !errors.Is(err, errNoInput) {
		return err
	}

	doc, err := documentService.Create(cmdContext(cmd), documentTitle, domain.DeltaFromText(text))
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	cmd.Printf("Created document %s (%s)\n", doc.ID, displayTitle(doc.Title))
	return nil
}

func runDocumentUpdate(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	var patch domain.DocumentPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		title := documentTitle
		patch.Title = &title
	}
	switch {
	case flags.Changed("file"):
		text, err := readInput(cmd, nil, documentFile)
		if err != nil {
			return err
		}
		content := domain.DeltaFromText(text)
		patch.Content = &content
	case flags.Changed("content"):
		content := domain.DeltaFromText(documentContent)
		patch.Content = &content
	}
	if flags.Changed("public") {
		public, err := parseBool(documentPublic)
		if err != nil {
			return fmt.Errorf("--public: %w", err)
		}
		patch.IsPublic = &public
	}
	if patch.IsEmpty() {
		return errors.New("nothing to update: pass --title, --content, --file, or --public")
	}

	doc, err := documentService.Update(cmdContext(cmd), args[0], patch)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	cmd.Printf("Updated document %s (%s)\n", doc.ID, displayTitle(doc.Title))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(cmdContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func runDocumentFeedback(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	fb, err := documentService.RequestFeedback(cmdContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get feedback: %w", err)
	}

	cmd.Printf("Feedback for %s:\n\n", args[0])
	cmd.Println(fb.Suggestion)
	return nil
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return domain.DefaultTitle
	}
	return title
}

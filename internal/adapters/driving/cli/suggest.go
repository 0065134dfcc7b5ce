package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask for writing suggestions",
	Long: `Run one-shot suggestion requests against the configured backend.

Text is read from the arguments, from --file, or from stdin when it is
piped. Each subcommand prints the suggestions it received.`,
}

var suggestGrammarCmd = &cobra.Command{
	Use:   "grammar [text...]",
	Short: "Check grammar and style",
	RunE:  runSuggestGrammar,
}

var suggestContentCmd = &cobra.Command{
	Use:   "content [text...]",
	Short: "Suggest content additions",
	RunE:  runSuggestContent,
}

var suggestWordCmd = &cobra.Command{
	Use:   "word [word]",
	Short: "Analyse a single word",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggestWord,
}

var suggestApplyCmd = &cobra.Command{
	Use:   "apply [text...]",
	Short: "Apply a suggestion transform to text",
	Long: `Apply a suggestion of the given kind at a cursor position and print the
resulting text.

Kinds:
  grammar - end the line under the cursor with a period
  style   - replace "js" with "JavaScript"

Other kinds leave the text unchanged.`,
	RunE: runSuggestApply,
}

var (
	suggestFile  string
	suggestJSON  bool
	applyKind    string
	applyIndex   int
	applyLength  int
	applyFromEnd bool
	applyQuiet   bool
)

func init() {
	for _, c := range []*cobra.Command{suggestGrammarCmd, suggestContentCmd, suggestApplyCmd} {
		c.Flags().StringVarP(&suggestFile, "file", "f", "", "read text from file (- for stdin)")
	}
	for _, c := range []*cobra.Command{suggestGrammarCmd, suggestContentCmd, suggestWordCmd} {
		c.Flags().BoolVar(&suggestJSON, "json", false, "output suggestions as JSON")
	}

	suggestApplyCmd.Flags().StringVarP(&applyKind, "kind", "k", "grammar", "suggestion kind to apply")
	suggestApplyCmd.Flags().IntVarP(&applyIndex, "index", "i", 0, "cursor offset in runes")
	suggestApplyCmd.Flags().IntVarP(&applyLength, "length", "l", 0, "selection length in runes")
	suggestApplyCmd.Flags().BoolVar(&applyFromEnd, "end", false, "place the cursor at the end of the text")
	suggestApplyCmd.Flags().BoolVarP(&applyQuiet, "quiet", "q", false, "print only the resulting text")

	suggestCmd.AddCommand(suggestGrammarCmd)
	suggestCmd.AddCommand(suggestContentCmd)
	suggestCmd.AddCommand(suggestWordCmd)
	suggestCmd.AddCommand(suggestApplyCmd)
	rootCmd.AddCommand(suggestCmd)
}

func runSuggestGrammar(cmd *cobra.Command, args []string) error {
	if suggestionService == nil {
		return errors.New("suggestion service not configured")
	}

	text, err := readInput(cmd, args, suggestFile)
	if err != nil {
		return err
	}

	results, err := suggestionService.Grammar(cmdContext(cmd), text)
	if err != nil {
		return fmt.Errorf("grammar check failed: %w", err)
	}
	return outputSuggestions(cmd, results)
}

func runSuggestContent(cmd *cobra.Command, args []string) error {
	if suggestionService == nil {
		return errors.New("suggestion service not configured")
	}

	text, err := readInput(cmd, args, suggestFile)
	if err != nil {
		return err
	}

	results, err := suggestionService.Content(cmdContext(cmd), text)
	if err != nil {
		return fmt.Errorf("content suggestions failed: %w", err)
	}
	return outputSuggestions(cmd, results)
}

func runSuggestWord(cmd *cobra.Command, args []string) error {
	if suggestionService == nil {
		return errors.New("suggestion service not configured")
	}

	results, err := suggestionService.WordAnalysis(cmdContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("word analysis failed: %w", err)
	}
	return outputSuggestions(cmd, results)
}

func runSuggestApply(cmd *cobra.Command, args []string) error {
	if suggestionService == nil {
		return errors.New("suggestion service not configured")
	}

	kind := domain.ParseSuggestionKind(applyKind)
	if kind == domain.KindUnknown {
		return fmt.Errorf("unknown suggestion kind %q", applyKind)
	}

	text, err := readInput(cmd, args, suggestFile)
	if err != nil {
		return err
	}

	sel := domain.Selection{Index: applyIndex, Length: applyLength}
	if applyFromEnd {
		sel = domain.Selection{Index: len([]rune(text))}
	}

	out, err := suggestionService.Apply(text, sel, domain.Suggestion{Kind: kind})
	if err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	if !applyQuiet && out == text {
		cmd.PrintErrln("No change.")
	}
	cmd.Println(out)
	return nil
}

func outputSuggestions(cmd *cobra.Command, results []domain.Suggestion) error {
	if suggestJSON {
		if results == nil {
			results = []domain.Suggestion{}
		}
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal suggestions: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No suggestions.")
		return nil
	}

	cmd.Println("Suggestions:")
	cmd.Println()
	for i := range results {
		s := results[i]
		cmd.Printf("  [%d] %s %s (%s, %.0f%%)\n",
			i+1, styles.KindIcon(s.Kind), s.Text, s.Kind, s.Confidence*100)
		if s.Context != "" {
			cmd.Printf("      %s\n", s.Context)
		}
		if len(s.Examples) > 0 {
			cmd.Printf("      e.g. %s\n", strings.Join(s.Examples, "; "))
		}
	}
	return nil
}

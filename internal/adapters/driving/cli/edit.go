package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

// errNotTerminal is returned when the editor is started without a terminal.
var errNotTerminal = errors.New("the editor needs an interactive terminal")

var editCmd = &cobra.Command{
	Use:     "edit [doc-id]",
	Aliases: []string{"tui"},
	Short:   "Open the interactive editor",
	Long: `Open the terminal editor.

Without an argument the document list is shown. Pass a document id to open
it directly, or "new" to start a blank document.

Editor controls:
  ctrl+s - Save now
  ctrl+g - Content suggestions
  ctrl+n/ctrl+p - Highlight next/previous suggestion
  tab    - Apply highlighted suggestion
  ctrl+t - Edit title
  ctrl+w - Select word under cursor
  esc    - Dismiss / back to the document list
  ctrl+c - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

var (
	editNew     bool
	editTheme   string
	editLogFile string
)

func init() {
	editCmd.Flags().BoolVarP(&editNew, "new", "n", false, "start a blank document")
	editCmd.Flags().StringVar(&editTheme, "theme", "dark",
		"colour theme ("+strings.Join(styles.ThemeNames(), ", ")+")")
	editCmd.Flags().StringVar(&editLogFile, "log-file", "",
		"append log output to this file while the editor runs")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	// Surface panics from the event loop with a stack trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in editor: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !isTerminal(cmd.InOrStdin()) {
		return errNotTerminal
	}

	app, err := newEditorApp(args)
	if err != nil {
		return err
	}

	restore, err := redirectLogs(editLogFile)
	if err != nil {
		return err
	}
	defer restore()

	ctx, cancel := context.WithCancel(cmdContext(cmd))
	defer cancel()
	watchConfig(ctx)

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("editor error: %w", err)
	}
	return nil
}

// newEditorApp builds the TUI for the given arguments.
func newEditorApp(args []string) (*tui.App, error) {
	theme, err := styles.LookupTheme(editTheme)
	if err != nil {
		return nil, err
	}
	app, err := tui.NewApp(tui.NewPorts(documentService, newEditorSession))
	if err != nil {
		return nil, fmt.Errorf("failed to create editor: %w", err)
	}
	app.WithTheme(theme)

	switch {
	case editNew:
		app.WithDocument(domain.NewDocumentID)
	case len(args) == 1:
		app.WithDocument(args[0])
	}
	return app, nil
}

// redirectLogs keeps log lines off the screen while the editor draws it.
// Without a path they are discarded.
func redirectLogs(path string) (func(), error) {
	if path == "" {
		return logger.Redirect(io.Discard), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	restore := logger.Redirect(f)
	return func() {
		restore()
		_ = f.Close()
	}, nil
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errNoInput is returned when a command needs text and none was given.
var errNoInput = errors.New("no input: pass text as arguments, with --file, or on stdin")

// readInput collects command text from, in order: --file (where "-" means
// stdin), positional args, or piped stdin. An interactive terminal on stdin
// is never read.
func readInput(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case file == "-":
		return readAll(cmd.InOrStdin())
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		return "", errNoInput
	}
	text, err := readAll(in)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errNoInput
	}
	return text, nil
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

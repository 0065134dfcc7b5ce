// Package logger is the process-wide log used by the CLI and the editor
// core. Debug, info and warning lines appear only with --verbose; errors
// are always written. Output defaults to stderr and is redirected while
// the terminal editor owns the screen.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer logs go to.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Redirect sends logs to w until the returned function is called, which
// restores the previous writer.
func Redirect(w io.Writer) (restore func()) {
	mu.Lock()
	prev := output
	output = w
	mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { SetOutput(prev) })
	}
}

// Debug traces debounce windows, dispatches and stale drops.
func Debug(format string, args ...any) { write(false, "[DEBUG] ", format, args...) }

// Info reports completed work such as saves and imports.
func Info(format string, args ...any) { write(false, "[INFO] ", format, args...) }

// Warn reports recoverable problems.
func Warn(format string, args ...any) { write(false, "[WARN] ", format, args...) }

// Error is written regardless of verbose mode.
func Error(format string, args ...any) { write(true, "[ERROR] ", format, args...) }

// Section starts a titled block of verbose output.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func write(always bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

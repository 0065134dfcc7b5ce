// Package status renders the editor's bottom line.
package status

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/styles"
)

// State is the persistence or suggestion activity shown on the left.
type State string

const (
	StateReady   State = "ready"
	StateSaving  State = "saving"
	StateLoading State = "loading"
	StateError   State = "error"
)

// Stats summarises the open text.
type Stats struct {
	Words       int
	Chars       int
	Suggestions int
}

// Count computes word and character counts for text.
func Count(text string) Stats {
	var st Stats
	inWord := false
	for _, r := range text {
		st.Chars++
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			st.Words++
			inWord = true
		}
	}
	return st
}

// Bar shows activity, text statistics and editor key hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	stats   Stats
	width   int
}

// NewBar creates a status bar. Nil arguments select the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View renders the bar at its configured width. Key hints are dropped
// first when space runs out.
func (s *Bar) View() string {
	left := s.activity() + s.styles.Muted.Render("  "+s.counts())
	right := s.hints()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = max(s.width-lipgloss.Width(left), 1)
	}
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) activity() string {
	switch s.state {
	case StateSaving:
		return s.styles.Muted.Render("Saving...")
	case StateLoading:
		return s.styles.Muted.Render("Loading suggestions...")
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) counts() string {
	out := fmt.Sprintf("%d %s, %d %s",
		s.stats.Words, plural(s.stats.Words, "word"),
		s.stats.Chars, plural(s.stats.Chars, "char"))
	if n := s.stats.Suggestions; n > 0 {
		out += fmt.Sprintf(", %d %s", n, plural(n, "suggestion"))
	}
	return out
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

func (s *Bar) hints() string {
	bindings := s.keymap.EditorHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// Bindings returns the hinted bindings.
func (s *Bar) Bindings() []key.Binding {
	return s.keymap.EditorHelp()
}

// SetState sets the activity state.
func (s *Bar) SetState(state State) { s.state = state }

// State returns the activity state.
func (s *Bar) State() State { return s.state }

// SetMessage sets the text shown while ready, or the error detail.
func (s *Bar) SetMessage(message string) { s.message = message }

// Message returns the current message.
func (s *Bar) Message() string { return s.message }

// SetStats replaces the text statistics.
func (s *Bar) SetStats(st Stats) { s.stats = st }

// Stats returns the text statistics.
func (s *Bar) Stats() Stats { return s.stats }

// SetWidth sets the rendered width.
func (s *Bar) SetWidth(width int) { s.width = width }

// Width returns the rendered width.
func (s *Bar) Width() int { return s.width }

// Clear resets state and message. Statistics are kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}

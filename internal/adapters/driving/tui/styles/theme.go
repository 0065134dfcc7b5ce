// Package styles holds the editor palettes and the lipgloss styles built
// from them.
package styles

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

// ErrUnknownTheme is returned by LookupTheme for an unregistered name.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme is a named colour palette.
type Theme struct {
	Name string

	Primary   lipgloss.Color // titles, selection, suggestion panel
	Secondary lipgloss.Color // subtitles
	Accent    lipgloss.Color // word analysis

	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color // status bar background

	Success lipgloss.Color
	Warning lipgloss.Color // grammar suggestions
	Error   lipgloss.Color // notices
}

// DarkTheme is the default palette for dark terminals.
func DarkTheme() *Theme {
	return &Theme{
		Name:       "dark",
		Primary:    lipgloss.Color("#7C3AED"),
		Secondary:  lipgloss.Color("#06B6D4"),
		Accent:     lipgloss.Color("#F5C2E7"),
		Background: lipgloss.Color("#1E1E2E"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Border:     lipgloss.Color("#45475A"),
		Bar:        lipgloss.Color("#181825"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
	}
}

// LightTheme suits terminals with a light background.
func LightTheme() *Theme {
	return &Theme{
		Name:       "light",
		Primary:    lipgloss.Color("#6D28D9"),
		Secondary:  lipgloss.Color("#0E7490"),
		Accent:     lipgloss.Color("#BE185D"),
		Background: lipgloss.Color("#EFF1F5"),
		Foreground: lipgloss.Color("#4C4F69"),
		Muted:      lipgloss.Color("#8C8FA1"),
		Border:     lipgloss.Color("#BCC0CC"),
		Bar:        lipgloss.Color("#E6E9EF"),
		Success:    lipgloss.Color("#40A02B"),
		Warning:    lipgloss.Color("#DF8E1D"),
		Error:      lipgloss.Color("#D20F39"),
	}
}

// DefaultTheme returns the dark palette.
func DefaultTheme() *Theme {
	return DarkTheme()
}

var themes = map[string]func() *Theme{
	"dark":  DarkTheme,
	"light": LightTheme,
}

// ThemeNames lists the registered palettes in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupTheme returns the palette registered under name. Matching ignores
// case and surrounding space.
func LookupTheme(name string) (*Theme, error) {
	build, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTheme, name, strings.Join(ThemeNames(), ", "))
	}
	return build(), nil
}

// Styles are the lipgloss styles the views render with.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// InputField frames the title input.
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style
	// Editor frames the text area.
	Editor lipgloss.Style
	// Panel frames the floating suggestion list.
	Panel lipgloss.Style
	// Notice renders transient error notices.
	Notice lipgloss.Style
}

// NewStyles builds styles from theme. A nil theme selects DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	framed := func(b lipgloss.Border, c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(b).BorderForeground(c)
	}

	return &Styles{
		theme:    theme,
		Title:    fg(theme.Primary).Bold(true),
		Subtitle: fg(theme.Secondary).Bold(true),
		Normal:   fg(theme.Foreground),
		Muted:    fg(theme.Muted),
		Help:     fg(theme.Muted),
		Selected: fg(theme.Foreground).Background(theme.Primary).Bold(true),

		Error:   fg(theme.Error),
		Success: fg(theme.Success),
		Warning: fg(theme.Warning),

		InputField: framed(lipgloss.RoundedBorder(), theme.Border).Padding(0, 1),
		StatusBar:  fg(theme.Muted).Background(theme.Bar).Padding(0, 1),
		Border:     framed(lipgloss.RoundedBorder(), theme.Border),
		Editor:     framed(lipgloss.NormalBorder(), theme.Border),
		Panel:      framed(lipgloss.RoundedBorder(), theme.Primary).Padding(0, 1),
		Notice:     fg(theme.Foreground).Background(theme.Error).Bold(true).Padding(0, 1),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(nil)
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Kind returns the style for a suggestion of kind k.
func (s *Styles) Kind(k domain.SuggestionKind) lipgloss.Style {
	switch k.Colour() {
	case "warn":
		return s.Warning
	case "primary":
		return lipgloss.NewStyle().Foreground(s.theme.Primary)
	case "accent":
		return lipgloss.NewStyle().Foreground(s.theme.Accent)
	default:
		return s.Normal
	}
}

// KindIcon returns a terminal glyph for the icon of kind k.
func KindIcon(k domain.SuggestionKind) string {
	switch k.Icon() {
	case "spellcheck":
		return "✎"
	case "format_paint":
		return "¶"
	case "thumb_up":
		return "✓"
	default:
		return "•"
	}
}

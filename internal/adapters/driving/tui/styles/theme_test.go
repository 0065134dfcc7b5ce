package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/core/domain"
)

func TestThemes_Complete(t *testing.T) {
	for _, theme := range []*Theme{DarkTheme(), LightTheme()} {
		t.Run(theme.Name, func(t *testing.T) {
			for name, c := range map[string]lipgloss.Color{
				"primary":    theme.Primary,
				"secondary":  theme.Secondary,
				"accent":     theme.Accent,
				"background": theme.Background,
				"foreground": theme.Foreground,
				"muted":      theme.Muted,
				"border":     theme.Border,
				"bar":        theme.Bar,
				"success":    theme.Success,
				"warning":    theme.Warning,
				"error":      theme.Error,
			} {
				assert.NotEmpty(t, string(c), name)
			}
		})
	}
}

func TestThemes_SuggestionColoursDistinct(t *testing.T) {
	for _, theme := range []*Theme{DarkTheme(), LightTheme()} {
		seen := make(map[lipgloss.Color]bool)
		for _, c := range []lipgloss.Color{theme.Primary, theme.Accent, theme.Warning, theme.Error, theme.Foreground} {
			assert.False(t, seen[c], "%s repeats %s", theme.Name, c)
			seen[c] = true
		}
	}
}

func TestLookupTheme(t *testing.T) {
	theme, err := LookupTheme(" Light ")
	require.NoError(t, err)
	assert.Equal(t, "light", theme.Name)

	theme, err = LookupTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, DarkTheme(), theme)

	_, err = LookupTheme("solarized")
	assert.ErrorIs(t, err, ErrUnknownTheme)
	assert.Contains(t, err.Error(), "dark, light")
}

func TestThemeNames(t *testing.T) {
	assert.Equal(t, []string{"dark", "light"}, ThemeNames())
}

func TestNewStyles(t *testing.T) {
	theme := LightTheme()
	s := NewStyles(theme)

	assert.Same(t, theme, s.Theme())
	assert.Equal(t, "dark", NewStyles(nil).Theme().Name)
	assert.Equal(t, "dark", DefaultStyles().Theme().Name)
}

func TestStyles_AllInitialised(t *testing.T) {
	s := DefaultStyles()

	for name, st := range map[string]lipgloss.Style{
		"title":    s.Title,
		"subtitle": s.Subtitle,
		"normal":   s.Normal,
		"muted":    s.Muted,
		"help":     s.Help,
		"selected": s.Selected,
		"error":    s.Error,
		"success":  s.Success,
		"warning":  s.Warning,
		"input":    s.InputField,
		"status":   s.StatusBar,
		"border":   s.Border,
		"editor":   s.Editor,
		"panel":    s.Panel,
		"notice":   s.Notice,
	} {
		assert.NotEqual(t, lipgloss.Style{}, st, name)
	}
	assert.True(t, s.Title.GetBold())
	assert.Equal(t, lipgloss.Color("#181825"), s.StatusBar.GetBackground())
}

func TestStyles_Kind(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Warning, s.Kind(domain.KindGrammar))
	assert.Equal(t, s.Normal, s.Kind(domain.KindStyle))
	assert.Equal(t, s.Normal, s.Kind(domain.KindUnknown))
	assert.Equal(t, lipgloss.Color("#7C3AED"), s.Kind(domain.KindContent).GetForeground())
	assert.Equal(t, lipgloss.Color("#F5C2E7"), s.Kind(domain.KindWordAnalysis).GetForeground())
}

func TestKindIcon(t *testing.T) {
	assert.Equal(t, "✎", KindIcon(domain.KindGrammar))
	assert.Equal(t, "¶", KindIcon(domain.KindStyle))
	assert.Equal(t, "✓", KindIcon(domain.KindFeedback))
	assert.Equal(t, "•", KindIcon(domain.KindContent))
	assert.Equal(t, "•", KindIcon(domain.KindUnknown))
}

// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// New opens a blank document.
	New key.Binding

	// Delete removes the selected document.
	Delete key.Binding

	// Reload reloads the document list.
	Reload key.Binding

	// Filter narrows the document list by title.
	Filter key.Binding

	// Feedback requests whole-document feedback.
	Feedback key.Binding

	// Save persists the open document.
	Save key.Binding

	// Suggest requests content suggestions.
	Suggest key.Binding

	// NextSuggestion moves down the suggestion panel.
	NextSuggestion key.Binding

	// PrevSuggestion moves up the suggestion panel.
	PrevSuggestion key.Binding

	// Apply applies the highlighted suggestion.
	Apply key.Binding

	// Title edits the document title.
	Title key.Binding

	// Clear resets the editor to a blank document.
	Clear key.Binding

	// SelectWord selects the word under the cursor.
	SelectWord key.Binding

	// SelectAll selects the whole text.
	SelectAll key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Feedback: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "feedback"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "suggest"),
		),
		NextSuggestion: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next"),
		),
		PrevSuggestion: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "prev"),
		),
		Apply: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "apply"),
		),
		Title: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "title"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		SelectWord: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "select word"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select all"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the document list.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.New, k.Quit, k.Help}
}

// EditorHelp returns keybindings for the editor view.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Save, k.Suggest, k.Apply, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Filter, k.New, k.Delete, k.Reload, k.Feedback},
		{k.Save, k.Suggest, k.NextSuggestion, k.PrevSuggestion, k.Apply},
		{k.Title, k.Clear, k.SelectWord, k.SelectAll},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

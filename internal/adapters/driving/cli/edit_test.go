package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scribe-cli/internal/core/domain"
	"github.com/custodia-labs/scribe-cli/internal/logger"
)

func TestEditCmd_Use(t *testing.T) {
	assert.Equal(t, "edit [doc-id]", editCmd.Use)
	assert.Contains(t, editCmd.Aliases, "tui")
	assert.Contains(t, editCmd.Long, "ctrl+g")
}

func TestEditCmd_RequiresTerminal(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "edit")

	assert.ErrorIs(t, err, errNotTerminal)
}

func TestEditCmd_AtMostOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "edit", "a", "b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}

func TestNewEditorApp(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	t.Run("document list", func(t *testing.T) {
		app, err := newEditorApp(nil)
		require.NoError(t, err)
		assert.Empty(t, app.StartDocument())
	})

	t.Run("opens document", func(t *testing.T) {
		app, err := newEditorApp([]string{"doc-1"})
		require.NoError(t, err)
		assert.Equal(t, "doc-1", app.StartDocument())
	})

	t.Run("new flag", func(t *testing.T) {
		editNew = true
		defer func() { editNew = false }()

		app, err := newEditorApp([]string{"ignored"})
		require.NoError(t, err)
		assert.Equal(t, domain.NewDocumentID, app.StartDocument())
	})
}

func TestNewEditorApp_Theme(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { editTheme = "dark" }()

	app, err := newEditorApp(nil)
	require.NoError(t, err)
	assert.Equal(t, "dark", app.Theme().Name)

	editTheme = "light"
	app, err = newEditorApp(nil)
	require.NoError(t, err)
	assert.Equal(t, "light", app.Theme().Name)

	editTheme = "neon"
	_, err = newEditorApp(nil)
	assert.ErrorIs(t, err, styles.ErrUnknownTheme)
}

func TestNewEditorApp_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := newEditorApp(nil)

	assert.ErrorIs(t, err, tui.ErrMissingDocumentService)
}

func TestRedirectLogs(t *testing.T) {
	logger.SetVerbose(true)
	defer logger.SetVerbose(false)

	path := filepath.Join(t.TempDir(), "editor.log")
	restore, err := redirectLogs(path)
	require.NoError(t, err)
	logger.Info("autosaved %s", "doc-1")
	restore()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[INFO] autosaved doc-1\n", string(data))

	_, err = redirectLogs(filepath.Join(t.TempDir(), "missing", "editor.log"))
	assert.ErrorContains(t, err, "opening log file")
}

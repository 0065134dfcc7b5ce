package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scribe-cli/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_Long(t *testing.T) {
	assert.Contains(t, mcpServeCmd.Long, "grammar_check")
	assert.Contains(t, mcpServeCmd.Long, "scribe mcp serve")
}

func TestNewMCPServer(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	server, err := newMCPServer()

	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestNewMCPServer_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := newMCPServer()

	assert.ErrorIs(t, err, mcp.ErrMissingSuggestionService)
}

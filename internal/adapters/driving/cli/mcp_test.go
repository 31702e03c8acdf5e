package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.Equal(t, "serve", mcpServeCmd.Use)
	assert.Equal(t, "Start the MCP server", mcpServeCmd.Short)
}

func TestMCPCmd_Long(t *testing.T) {
	assert.Contains(t, mcpServeCmd.Long, "compass://collection")
	assert.Contains(t, mcpServeCmd.Long, "--port")
}

func TestMCPServeCmd_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPCmd_IsRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"mcp", "serve"})

	require.NoError(t, err)
	assert.Equal(t, mcpServeCmd, cmd)
}

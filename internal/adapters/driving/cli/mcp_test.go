package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hygiene/internal/adapters/driving/mcp"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.Equal(t, "serve", mcpServeCmd.Use)
}

func TestMCPServeCmd_Long(t *testing.T) {
	assert.Contains(t, mcpServeCmd.Long, "run_scan")
	assert.Contains(t, mcpServeCmd.Long, "hygiene://issues")
	assert.Contains(t, mcpServeCmd.Long, "--port")
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_MissingServices(t *testing.T) {
	setupCLITest(t, Services{})

	err := execute("mcp", "serve")

	require.Error(t, err)
	assert.ErrorIs(t, err, mcp.ErrMissingIssueService)
}

func TestMCPServeCmd_MissingScanService(t *testing.T) {
	setupCLITest(t, Services{IssueService: &mockIssueService{}})

	err := execute("mcp", "serve")

	require.Error(t, err)
	assert.ErrorIs(t, err, mcp.ErrMissingScanService)
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	buf := setupCLITest(t, Services{})

	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	err := execute("version")

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "hygiene version test-version-1.0.0")
}

func TestSetVersion_EmptyKeepsCurrent(t *testing.T) {
	originalVersion := version
	version = "dev"
	defer func() { version = originalVersion }()

	SetVersion("")

	assert.Equal(t, "dev", version)
}

func TestVersionCmd_Short(t *testing.T) {
	buf := setupCLITest(t, Services{})

	originalVersion := version
	SetVersion("1.2.3")
	defer func() { version = originalVersion }()

	require.NoError(t, execute("version", "--short"))

	assert.Equal(t, "1.2.3\n", buf.String())
}

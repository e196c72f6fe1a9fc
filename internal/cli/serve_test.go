package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenPort_DefaultsToConfigured(t *testing.T) {
	cmd := ServeCmd()

	assert.Equal(t, "9000", listenPort(cmd, "9000"))
}

func TestListenPort_FlagOverridesConfigured(t *testing.T) {
	cmd := ServeCmd()
	require.NoError(t, cmd.Flags().Set("port", "3000"))

	assert.Equal(t, "3000", listenPort(cmd, "9000"))
}

func TestListenPort_ExplicitDefaultValueStillWins(t *testing.T) {
	cmd := ServeCmd()
	require.NoError(t, cmd.Flags().Set("port", "8080"))

	assert.Equal(t, "8080", listenPort(cmd, "9000"))
}

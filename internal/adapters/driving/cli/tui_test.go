package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}

	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_LongDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
	assert.Contains(t, tuiCmd.Long, "Copy the method's text")
	assert.Contains(t, tuiCmd.Long, "Open the original PDF")
}

func TestTUICmd_HelpOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tui", "--help"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "interactive terminal user interface")
}

func TestTUICmd_RequiresServices(t *testing.T) {
	SetServices(nil)

	_, _, err := execute(t, "", "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create TUI")
}

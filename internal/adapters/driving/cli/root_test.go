package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "docquery", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "ingest")
	assert.Contains(t, commandNames, "ask")
	assert.Contains(t, commandNames, "search")
	assert.Contains(t, commandNames, "suggest")
	assert.Contains(t, commandNames, "stats")
	assert.Contains(t, commandNames, "clear")
	assert.Contains(t, commandNames, "history")
	assert.Contains(t, commandNames, "watch")
	assert.Contains(t, commandNames, "version")
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag, "verbose flag should exist")
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_HasConfigDirFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config-dir")
	require.NotNil(t, flag, "config-dir flag should exist")
}

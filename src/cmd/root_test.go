package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "pysel", rootCmd.Use)
	assert.Contains(t, rootCmd.Long, "language server")
}

func TestCommandPresence(t *testing.T) {
	for _, name := range []string{"select", "list", "run"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"config", "trace", "max-depth", "server"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "0", rootCmd.PersistentFlags().Lookup("max-depth").DefValue)
	assert.NotEmpty(t, rootCmd.PersistentFlags().Lookup("trace").NoOptDefVal)
}

func TestSelectFlags(t *testing.T) {
	sub, _, err := rootCmd.Find([]string{"select"})
	require.NoError(t, err)

	choose := sub.Flags().Lookup("choose")
	require.NotNil(t, choose)
	assert.Equal(t, "c", choose.Shorthand)
	first := sub.Flags().Lookup("first")
	require.NotNil(t, first)
	assert.Equal(t, "false", first.DefValue)
	emit := sub.Flags().Lookup("emit")
	require.NotNil(t, emit)
	assert.Equal(t, "", emit.DefValue)
}

func TestSelectRejectsArguments(t *testing.T) {
	sub, _, err := rootCmd.Find([]string{"select"})
	require.NoError(t, err)
	assert.Error(t, sub.Args(sub, []string{"extra"}))
	assert.NoError(t, sub.Args(sub, nil))
}

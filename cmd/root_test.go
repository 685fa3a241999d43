package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"scout", "geocode", "cache", "rss", "score"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "sale-scout", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestScoutCommand_Flags(t *testing.T) {
	for _, name := range []string{
		"limit", "max-pages", "json-out", "txt-out", "xlsx-out",
		"debug-dump", "no-geocode", "score", "notion-sync", "notify",
	} {
		require.NotNil(t, scoutCmd.Flags().Lookup(name), "scout command should have --%s flag", name)
	}
}

func TestCacheCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range cacheCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["status"])
	assert.True(t, names["clear"])
}

func TestScoreCommand_RequiredFlags(t *testing.T) {
	require.NotNil(t, scoreCmd.Flags().Lookup("in"))
	require.NotNil(t, scoreCmd.Flags().Lookup("rescore"))
}

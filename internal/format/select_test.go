package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formatkit/execfmt/internal/config"
)

func TestSelectInvalidConfig(t *testing.T) {
	cfg := &config.Config{IsValid: false}

	_, err := Select(cfg, "a.txt")
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestSelectNoMatchIsEmptyNotError(t *testing.T) {
	cfg := &config.Config{
		IsValid: true,
		Commands: []config.CommandSpec{
			{Executable: "a", Exts: []string{".txt"}},
			{Executable: "b", Associations: "**/*.rs"},
		},
	}

	selected, err := Select(cfg, "main.go")
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestSelectGlobCommandsAllMatchInOrder(t *testing.T) {
	cfg := &config.Config{
		IsValid: true,
		Commands: []config.CommandSpec{
			{Executable: "first", Associations: "**/*.rs"},
			{Executable: "second", Associations: "src/**"},
		},
	}

	selected, err := Select(cfg, "src/main.rs")
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "first", selected[0].Executable)
	assert.Equal(t, "second", selected[1].Executable)
}

func TestSelectGlobMatchSuppressesFallback(t *testing.T) {
	cfg := &config.Config{
		IsValid: true,
		Commands: []config.CommandSpec{
			{Executable: "glob", Associations: "**/*.txt"},
			{Executable: "fallback", Exts: []string{".txt"}},
		},
	}

	selected, err := Select(cfg, "notes.txt")
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "glob", selected[0].Executable)
}

func TestSelectAtMostOneFallback(t *testing.T) {
	cfg := &config.Config{
		IsValid: true,
		Commands: []config.CommandSpec{
			{Executable: "first", Exts: []string{".txt"}},
			{Executable: "second", Exts: []string{".txt"}},
		},
	}

	selected, err := Select(cfg, "notes.txt")
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "first", selected[0].Executable)
}

func TestSelectFallbackMatchStopsScan(t *testing.T) {
	// First fallback match wins; commands after it are not considered.
	cfg := &config.Config{
		IsValid: true,
		Commands: []config.CommandSpec{
			{Executable: "fallback", Exts: []string{".txt"}},
			{Executable: "glob", Associations: "**/*.txt"},
		},
	}

	selected, err := Select(cfg, "notes.txt")
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "fallback", selected[0].Executable)
}

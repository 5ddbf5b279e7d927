package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeTempConfig(t, "execfmt.json", `{
		// formatter settings
		"timeout": 5,
		"commands": [
			{"command": "cat", "exts": ["txt"]}, // trailing comma is fine
		],
	}`)

	raw, err := LoadFile(path)
	require.NoError(t, err)

	result := Resolve(raw, GlobalConfig{})
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, uint32(5), result.Config.Timeout)
	assert.Len(t, result.Config.Commands, 1)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeTempConfig(t, "execfmt.yaml", `
timeout: 5
commands:
  - command: cat
    exts: [txt]
`)

	raw, err := LoadFile(path)
	require.NoError(t, err)

	result := Resolve(raw, GlobalConfig{})
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, uint32(5), result.Config.Timeout)
	require.Len(t, result.Config.Commands, 1)
	assert.Equal(t, "cat", result.Config.Commands[0].Executable)
}

func TestLoadFileEnvInterpolation(t *testing.T) {
	t.Setenv("EXECFMT_TEST_CMD", "cat")

	path := writeTempConfig(t, "execfmt.json", `{
		"commands": [{"command": "${EXECFMT_TEST_CMD}", "exts": ["txt"]}]
	}`)

	raw, err := LoadFile(path)
	require.NoError(t, err)

	result := Resolve(raw, GlobalConfig{})
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, "cat", result.Config.Commands[0].Executable)
}

func TestInterpolateEnvUndefinedLeftAsIs(t *testing.T) {
	assert.Equal(t, "x ${EXECFMT_NO_SUCH_VAR} y", interpolateEnv("x ${EXECFMT_NO_SUCH_VAR} y"))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadFileBadJSON(t *testing.T) {
	path := writeTempConfig(t, "execfmt.json", `{not json at all`)
	_, err := LoadFile(path)
	assert.Error(t, err)
}

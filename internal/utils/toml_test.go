package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanabest/internal/utils"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

type sampleConfig struct {
	Name  string `toml:"name"`
	Limit int    `toml:"limit"`
}

func TestSaveAndLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	in := sampleConfig{Name: "kanabest", Limit: 10}
	require.NoError(t, utils.SaveTOMLFile(in, path))

	var out sampleConfig
	require.NoError(t, utils.LoadTOMLFile(path, &out))
	assert.Equal(t, in, out)
}

func TestLoadTOMLFileMissing(t *testing.T) {
	var out sampleConfig
	assert.Error(t, utils.LoadTOMLFile(filepath.Join(t.TempDir(), "missing.toml"), &out))
}

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	require.NoError(t, os.WriteFile(path, []byte("[convert]\nlimit = 7\nmode = \"strict\"\nverbose = true\n"), 0o644))

	data, err := utils.ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	section, ok := utils.ExtractSection(data, "convert")
	require.True(t, ok)

	limit, ok := utils.ExtractInt64(section, "limit")
	assert.True(t, ok)
	assert.Equal(t, 7, limit)

	mode, ok := utils.ExtractString(section, "mode")
	assert.True(t, ok)
	assert.Equal(t, "strict", mode)

	verbose, ok := utils.ExtractBool(section, "verbose")
	assert.True(t, ok)
	assert.True(t, verbose)

	_, ok = utils.ExtractInt64(section, "mode")
	assert.False(t, ok)
	_, ok = utils.ExtractSection(data, "dict")
	assert.False(t, ok)
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, utils.EnsureDir(nested))
	assert.DirExists(t, nested)

	file := filepath.Join(nested, "x.bin")
	assert.False(t, utils.FileExists(file))
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.True(t, utils.FileExists(file))

	assert.Equal(t, file, utils.GetAbsolutePath(file))
	assert.Equal(t, "unknown", utils.GetAbsolutePath(""))

	// Absolute paths resolve to themselves.
	assert.Equal(t, file, utils.ResolveDataPath(file))
}

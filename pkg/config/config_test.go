package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanabest/pkg/config"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, 10, cfg.Convert.DefaultLimit)
	assert.Equal(t, "strict", cfg.Convert.BoundaryMode)
	assert.False(t, cfg.Convert.SingleSegment)
	assert.Equal(t, "data/dictionary.bin", cfg.Dict.Path)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.Equal(t, 300, cfg.Server.MaxKeyBytes)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanabest-config.toml")

	cfg, err := config.InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
	assert.FileExists(t, path)

	// A second init reads the file it just wrote.
	again, err := config.InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanabest-config.toml")

	cfg := config.DefaultConfig()
	cfg.Convert.DefaultLimit = 25
	cfg.Convert.BoundaryMode = "only_edge"
	cfg.Convert.SingleSegment = true
	cfg.Dict.Path = "elsewhere/dictionary.bin"
	cfg.Server.MaxLimit = 128

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanabest-config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[convert]\ndefault_limit = 5\n"), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Convert.DefaultLimit)
	// Untouched sections keep their defaults.
	assert.Equal(t, "strict", cfg.Convert.BoundaryMode)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
}

func TestLoadConfigRecoversValidSections(t *testing.T) {
	content := "[convert]\n" +
		"boundary_mode = \"only_mid\"\n" +
		"[server]\n" +
		"max_limit = 32\n" +
		"max_key_bytes = \"not a number\"\n"
	path := filepath.Join(t.TempDir(), "kanabest-config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "only_mid", cfg.Convert.BoundaryMode)
	assert.Equal(t, 32, cfg.Server.MaxLimit)
	assert.Equal(t, 300, cfg.Server.MaxKeyBytes)
}

func TestUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kanabest-config.toml")
	cfg, err := config.InitConfig(path)
	require.NoError(t, err)

	limit := 42
	mode := "only_edge"
	require.NoError(t, cfg.Update(path, &limit, &mode, nil))

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Convert.DefaultLimit)
	assert.Equal(t, "only_edge", loaded.Convert.BoundaryMode)
	assert.False(t, loaded.Convert.SingleSegment)
}

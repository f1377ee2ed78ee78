package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinter-kv/splinter/internal/config"
)

func TestDefault_BuiltinValues(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, config.DefaultBus, cfg.Bus)
	assert.Equal(t, uint32(config.DefaultSlots), cfg.Slots)
	assert.Equal(t, uint32(config.DefaultMaxValSz), cfg.MaxValSz)
	assert.True(t, cfg.AutoVacuum)
}

func TestLoad_AppliesProjectLocalJSONC(t *testing.T) {
	dir := t.TempDir()
	jsonc := `{
		// trailing comments and commas are fine, this is hujson
		"bus": "from-jsonc",
		"slots": 2048,
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".splinter.jsonc"), []byte(jsonc), 0o644))

	t.Setenv("SPLINTER_CONFIG", filepath.Join(dir, "does-not-exist.toml"))
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-jsonc", cfg.Bus)
	assert.Equal(t, uint32(2048), cfg.Slots)
}

func TestLoad_EnvOverridesEverything(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SPLINTER_CONFIG", filepath.Join(dir, "does-not-exist.toml"))
	t.Setenv("SPLINTER_NS_PREFIX", "envns_")
	t.Setenv("SPLINTER_HISTORY_LEN", "42")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "envns_", cfg.NSPrefix)
	assert.Equal(t, 42, cfg.HistoryLen)
}

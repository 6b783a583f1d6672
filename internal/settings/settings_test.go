package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed: 42
pool_settings:
  keys: false
  maps: true
start_location_settings:
  start_location: Hive
novelty_settings:
  randomize_nail: true
`), 0o644))

	gs, err := Load(path)
	require.NoError(t, err)

	assert.EqualValues(t, 42, gs.Seed)
	assert.False(t, gs.PoolSettings.Keys)
	assert.True(t, gs.PoolSettings.Maps)
	// Untouched keys keep their defaults.
	assert.True(t, gs.PoolSettings.Charms)
	assert.Equal(t, "Hive", gs.StartLocationSettings.StartLocation)
	assert.True(t, gs.NoveltySettings.RandomizeNail)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool_settings: [1, 2"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "settings.yaml")
}

func TestCondition(t *testing.T) {
	gs := Defaults()
	gs.NoveltySettings.RandomizeClaw = true

	v, ok := gs.Condition("randomize_claw")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = gs.Condition("randomize_nail")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = gs.Condition("nonsense")
	assert.False(t, ok)
}

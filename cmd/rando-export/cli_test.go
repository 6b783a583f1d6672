package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"randoexport/internal/persistence/indexdb"
	"randoexport/internal/persistence/profile"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func setupExport(t *testing.T) (configs, in, out string) {
	t.Helper()
	configs = t.TempDir()
	writeFiles(t, configs, map[string]string{
		"locations.json": `[
		  {"name":"Sly","kind":"shop","scene":"Room_shop","cost":"multi"},
		  {"name":"Vengeful_Spirit","kind":"auto","scene":"Crossroads_ShamanTemple"},
		  {"name":"Mask_Shard-5_Grubs","kind":"placeable","scene":"Crossroads_38"},
		  {"name":"Grubberfly's_Elegy","kind":"container","scene":"Crossroads_38","cost":"single"}
		]`,
		"items.json":    `[{"name":"Grub"},{"name":"Mask_Shard"},{"name":"Mothwing_Cloak"}]`,
		"settings.yaml": "seed: 42\npool_settings:\n  charms: true\n",
	})
	in = filepath.Join(t.TempDir(), "output.json")
	require.NoError(t, os.WriteFile(in, []byte(`{
	  "item_placements": [
	    {"item":{"name":"Grub"},"location":{"name":"Sly","costs":[{"term":"GEO","amount":150}]}},
	    {"item":{"name":"Mask_Shard"},"location":{"name":"Grubfather","costs":[{"term":"GRUBS","amount":5}]}},
	    {"item":{"name":"Grub"},"location":{"name":"Vengeful_Spirit"}}
	  ]
	}`), 0o644))
	return configs, in, t.TempDir()
}

func TestRunExport_WritesProfileAndIndex(t *testing.T) {
	logger = zap.NewNop()
	configs, in, out := setupExport(t)
	exportFlags.configDir = configs
	exportFlags.settingsPath = ""
	exportFlags.inputPath = in
	exportFlags.outDir = out
	exportFlags.dbPath = ""
	exportFlags.disableDB = false

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	require.NoError(t, runExport(cmd, nil))
	assert.Contains(t, buf.String(), "placements")

	h, p, err := profile.Read(filepath.Join(out, "profile.json.zst"))
	require.NoError(t, err)
	assert.EqualValues(t, 42, h.Seed)
	assert.Equal(t, 3, h.Placements)
	assert.Equal(t, "Grubfather", p.Placements[1].Name)

	matches, err := filepath.Glob(filepath.Join(out, "tracker", "*.jsonl.zst"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	idx, err := indexdb.OpenSQLite(filepath.Join(out, "index.sqlite"))
	require.NoError(t, err)
	defer idx.Close()
	locs, err := idx.ItemLocations(p.ID, "Grub")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sly", "Vengeful_Spirit"}, locs)
}

func TestRunExport_UnknownLocationFails(t *testing.T) {
	logger = zap.NewNop()
	configs, _, out := setupExport(t)
	in := filepath.Join(t.TempDir(), "output.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"item_placements":[{"item":{"name":"Grub"},"location":{"name":"Nowhere"}}]}`), 0o644))
	exportFlags.configDir = configs
	exportFlags.settingsPath = ""
	exportFlags.inputPath = in
	exportFlags.outDir = out
	exportFlags.disableDB = true

	err := runExport(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nowhere")
	_, statErr := os.Stat(filepath.Join(out, "profile.json.zst"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunInspect_FindsItem(t *testing.T) {
	logger = zap.NewNop()
	configs, in, out := setupExport(t)
	exportFlags.configDir = configs
	exportFlags.settingsPath = ""
	exportFlags.inputPath = in
	exportFlags.outDir = out
	exportFlags.disableDB = true
	require.NoError(t, runExport(&cobra.Command{}, nil))

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	inspectFlags.find = "Grub"
	defer func() { inspectFlags.find = "" }()
	require.NoError(t, runInspect(cmd, []string{filepath.Join(out, "profile.json.zst")}))
	assert.Contains(t, buf.String(), "Vengeful_Spirit")
	assert.Contains(t, buf.String(), "150 GEO")

	inspectFlags.find = "Mothwing_Cloak"
	assert.Error(t, runInspect(&cobra.Command{}, []string{filepath.Join(out, "profile.json.zst")}))
}

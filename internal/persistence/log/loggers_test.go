package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randoexport/internal/catalog"
	"randoexport/internal/cost"
	"randoexport/internal/export"
	"randoexport/internal/placement"
)

func readEntries(t *testing.T, path string) []TrackerEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	var out []TrackerEntry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e TrackerEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	require.NoError(t, sc.Err())
	return out
}

func testProfile() *export.Profile {
	item := func(name string, tag int, c cost.Cost) *placement.Item {
		return &placement.Item{ItemTemplate: catalog.ItemTemplate{Name: name}, Tag: tag, Cost: c}
	}
	return &export.Profile{
		ID: "exp-1",
		Placements: []*placement.Assembly{
			{
				Name:       "Sly",
				Capability: placement.Multi,
				Items: []*placement.Item{
					item("Grub", 0, cost.Cost{{Kind: cost.Geo, Amount: 10}}),
					item("Mask_Shard", 2, nil),
				},
				Cost: cost.Cost{{Kind: cost.Geo, Amount: 10}},
			},
			{
				Name:       "Geo_Chest-Junk_Pit",
				Capability: placement.Single,
				Items:      []*placement.Item{item("Rancid_Egg", 1, nil)},
				Cost:       cost.Cost{{Kind: cost.Geo, Amount: 5}},
			},
		},
	}
}

func TestTrackerEntries_OrderedByIndex(t *testing.T) {
	want := []TrackerEntry{
		{ExportID: "exp-1", Index: 0, Item: "Grub", Location: "Sly", Cost: "10 GEO"},
		{ExportID: "exp-1", Index: 1, Item: "Rancid_Egg", Location: "Geo_Chest-Junk_Pit", Cost: "5 GEO"},
		{ExportID: "exp-1", Index: 2, Item: "Mask_Shard", Location: "Sly"},
	}
	assert.Equal(t, want, TrackerEntries(testProfile()))
}

func TestTrackerLogger_WritesCompressedJSONL(t *testing.T) {
	dir := t.TempDir()
	l := NewTrackerLogger(dir)
	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	l.w.now = func() time.Time { return fixed }

	require.NoError(t, l.WriteProfile(testProfile()))
	require.NoError(t, l.Close())

	entries := readEntries(t, l.w.PathForHour("2026-10-18-09"))
	require.Len(t, entries, 3)
	assert.Equal(t, "Rancid_Egg", entries[1].Item)
	assert.Equal(t, "5 GEO", entries[1].Cost)
}

func TestTrackerLogger_BatchStaysInOneFileAcrossHourBoundary(t *testing.T) {
	dir := t.TempDir()
	l := NewTrackerLogger(dir)
	// Every clock read lands one minute later, crossing 10:00 mid-batch.
	clock := time.Date(2026, 10, 18, 9, 59, 0, 0, time.UTC)
	l.w.now = func() time.Time {
		now := clock
		clock = clock.Add(time.Minute)
		return now
	}

	require.NoError(t, l.WriteProfile(testProfile()))
	require.NoError(t, l.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "tracker", "*.jsonl.zst"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, l.w.PathForHour("2026-10-18-09"), matches[0])
	assert.Len(t, readEntries(t, matches[0]), 3)
}

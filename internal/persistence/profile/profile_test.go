package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randoexport/internal/catalog"
	"randoexport/internal/cost"
	"randoexport/internal/export"
	"randoexport/internal/placement"
	"randoexport/internal/shopdefaults"
	"randoexport/internal/transition"
)

func TestWriteRead_PreservesPlacements(t *testing.T) {
	sly := catalog.LocationTemplate{Name: "Sly", Kind: catalog.KindShop, Scene: "Room_shop", Cost: catalog.CostMulti}
	in := &export.Profile{
		ID:           "0f6a2c1e-0000-4000-8000-000000000001",
		CreatedAt:    time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		Seed:         99,
		Modules:      []string{export.ModuleRandomizer},
		ShopDefaults: shopdefaults.Unconditional,
		Placements: []*placement.Assembly{{
			Name:       "Sly",
			Capability: placement.Multi,
			Location:   &sly,
			Vendor:     true,
			Randomized: true,
			Cost:       cost.Cost{{Kind: cost.Geo, Amount: 300}},
			Items: []*placement.Item{{
				ItemTemplate: catalog.ItemTemplate{Name: "Grub"},
				Tag:          0,
				Cost:         cost.Cost{{Kind: cost.Geo, Amount: 300}},
			}},
		}},
		Transitions: []transition.Override{{Source: transition.Gate{Scene: "Town", Gate: "right1"}, Target: transition.Gate{Scene: "Crossroads_01", Gate: "left1"}}},
	}

	path := filepath.Join(t.TempDir(), "nested", "profile.json.zst")
	require.NoError(t, Write(path, in))
	h, out, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, Version, h.Version)
	assert.Equal(t, in.ID, h.ID)
	assert.EqualValues(t, 99, h.Seed)
	assert.Equal(t, 1, h.Placements)

	require.Len(t, out.Placements, 1)
	p := out.Placements[0]
	assert.Equal(t, "Sly", p.Name)
	assert.Equal(t, placement.Multi, p.Capability)
	assert.True(t, p.Vendor)
	require.NotNil(t, p.Location)
	assert.Equal(t, "Room_shop", p.Location.Scene)
	assert.True(t, p.Cost.Equal(in.Placements[0].Cost), "cost mismatch: got %v want %v", p.Cost, in.Placements[0].Cost)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Grub", p.Items[0].Name)
	assert.Equal(t, shopdefaults.Unconditional, out.ShopDefaults)
	require.Len(t, out.Transitions, 1)
	assert.Equal(t, "Crossroads_01", out.Transitions[0].Target.Scene)
}

func TestRead_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.zst")
	require.NoError(t, os.WriteFile(path, []byte("not zstd"), 0o644))
	_, _, err := Read(path)
	assert.Error(t, err)
}

package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"randoexport/internal/placement"
)

func TestDecode_Valid(t *testing.T) {
	doc, err := Decode([]byte(`{
	  "item_placements": [
	    {"item":{"name":"Split_Shade_Cloak","variant":{"orientation":"right"}},"location":{"name":"Sly","costs":[{"term":"GEO","amount":300}]}},
	    {"item":{"name":"Grub"},"location":{"name":"Grubfather"}}
	  ],
	  "transition_placements": [
	    {"source":{"scene":"Town","gate":"right1"},"target":{"scene":"Crossroads_01","gate":"left1"}}
	  ]
	}`))
	require.NoError(t, err)

	require.Len(t, doc.ItemPlacements, 2)
	first := doc.ItemPlacements[0]
	assert.Equal(t, "Split_Shade_Cloak", first.Item.Name)
	assert.Equal(t, placement.OrientationRight, first.Item.Variant.Orientation)
	require.Len(t, first.Location.Costs, 1)
	assert.Equal(t, 300, first.Location.Costs[0].Amount)
	assert.Nil(t, doc.ItemPlacements[1].Location.Costs)

	require.Len(t, doc.TransitionPlacements, 1)
	assert.Equal(t, "Crossroads_01", doc.TransitionPlacements[0].Target.Scene)
}

func TestDecode_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"not json":         `{`,
		"missing items":    `{"transition_placements":[]}`,
		"empty location":   `{"item_placements":[{"item":{"name":"Grub"},"location":{"name":""}}]}`,
		"empty costs":      `{"item_placements":[{"item":{"name":"Grub"},"location":{"name":"Sly","costs":[]}}]}`,
		"negative amount":  `{"item_placements":[{"item":{"name":"Grub"},"location":{"name":"Sly","costs":[{"term":"GEO","amount":-1}]}}]}`,
		"bad orientation":  `{"item_placements":[{"item":{"name":"Grub","variant":{"orientation":"up"}},"location":{"name":"Sly"}}]}`,
		"unknown property": `{"item_placements":[],"seed":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"item_placements":[]}`), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, doc.ItemPlacements)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))
}

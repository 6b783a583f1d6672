package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GenerationSettings is the subset of the randomizer settings the exporter
// reads.
type GenerationSettings struct {
	Seed int64 `yaml:"seed" json:"seed"`

	PoolSettings          PoolSettings          `yaml:"pool_settings" json:"pool_settings"`
	StartLocationSettings StartLocationSettings `yaml:"start_location_settings" json:"start_location_settings"`
	NoveltySettings       NoveltySettings       `yaml:"novelty_settings" json:"novelty_settings"`
	SkipSettings          SkipSettings          `yaml:"skip_settings" json:"skip_settings"`
}

// PoolSettings flags which item pools were randomized.
type PoolSettings struct {
	Keys            bool `yaml:"keys" json:"keys"`
	Charms          bool `yaml:"charms" json:"charms"`
	Maps            bool `yaml:"maps" json:"maps"`
	MaskShards      bool `yaml:"mask_shards" json:"mask_shards"`
	VesselFragments bool `yaml:"vessel_fragments" json:"vessel_fragments"`
	RancidEggs      bool `yaml:"rancid_eggs" json:"rancid_eggs"`
}

type StartLocationSettings struct {
	StartLocation string `yaml:"start_location" json:"start_location"`
}

type NoveltySettings struct {
	RandomizeNail  bool `yaml:"randomize_nail" json:"randomize_nail"`
	RandomizeClaw  bool `yaml:"randomize_claw" json:"randomize_claw"`
	SplitCloak     bool `yaml:"split_cloak" json:"split_cloak"`
	RandomizeSwim  bool `yaml:"randomize_swim" json:"randomize_swim"`
	RandomizeFocus bool `yaml:"randomize_focus" json:"randomize_focus"`
}

type SkipSettings struct {
	ShadeSkips   bool `yaml:"shade_skips" json:"shade_skips"`
	EnemyPogos   bool `yaml:"enemy_pogos" json:"enemy_pogos"`
	PreciseMoves bool `yaml:"precise_movement" json:"precise_movement"`
}

// Defaults randomizes the common pools and keeps the vanilla start.
func Defaults() GenerationSettings {
	return GenerationSettings{
		PoolSettings: PoolSettings{
			Keys:            true,
			Charms:          true,
			Maps:            false,
			MaskShards:      true,
			VesselFragments: true,
			RancidEggs:      false,
		},
		StartLocationSettings: StartLocationSettings{StartLocation: "King's Pass"},
	}
}

// Load reads a settings file. Keys missing from the file keep their
// Defaults() value.
func Load(path string) (GenerationSettings, error) {
	gs := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return gs, err
	}
	if err := yaml.Unmarshal(raw, &gs); err != nil {
		return gs, fmt.Errorf("settings.yaml: %w", err)
	}
	return gs, nil
}

// Condition evaluates a named boolean setting. Unknown names report false
// and ok=false.
func (gs GenerationSettings) Condition(name string) (value, ok bool) {
	switch name {
	case "randomize_nail":
		return gs.NoveltySettings.RandomizeNail, true
	case "randomize_claw":
		return gs.NoveltySettings.RandomizeClaw, true
	case "split_cloak":
		return gs.NoveltySettings.SplitCloak, true
	case "randomize_swim":
		return gs.NoveltySettings.RandomizeSwim, true
	case "randomize_focus":
		return gs.NoveltySettings.RandomizeFocus, true
	case "shade_skips":
		return gs.SkipSettings.ShadeSkips, true
	case "enemy_pogos":
		return gs.SkipSettings.EnemyPogos, true
	case "precise_movement":
		return gs.SkipSettings.PreciseMoves, true
	}
	return false, false
}

package export

import (
	"time"

	"randoexport/internal/placement"
	"randoexport/internal/shopdefaults"
	"randoexport/internal/transition"
)

// Export-time modules the runtime registers for every randomized save.
const (
	ModuleRandomizer    = "RandomizerModule"
	ModuleTrackerUpdate = "TrackerUpdate"
	ModuleTrackerLog    = "TrackerLog"
)

// Profile is everything the game-state mutation layer applies for one save.
type Profile struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Seed      int64     `json:"seed"`

	Modules    []string    `json:"modules"`
	Start      *StartPoint `json:"start,omitempty"`
	Deployers  []Platform  `json:"deployers,omitempty"`
	SceneFlags []SceneFlag `json:"scene_flags,omitempty"`

	ShopDefaults shopdefaults.Items    `json:"shop_defaults"`
	Placements   []*placement.Assembly `json:"placements"`
	Transitions  []transition.Override `json:"transitions,omitempty"`

	CatalogDigests map[string]string `json:"catalog_digests,omitempty"`
}

type StartPoint struct {
	Name    string  `json:"name"`
	Scene   string  `json:"scene"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	MapZone int     `json:"map_zone"`
}

// Platform is a small platform deployed into a scene.
type Platform struct {
	Scene string  `json:"scene"`
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
}

// SceneFlag marks a persistent scene object as already triggered.
type SceneFlag struct {
	Scene  string `json:"scene"`
	Object string `json:"object"`
}

type Summary struct {
	Placements  int
	Items       int
	Vendors     int
	Composites  int
	Transitions int
	Deployers   int
}

func (p *Profile) Summary() Summary {
	s := Summary{
		Placements:  len(p.Placements),
		Transitions: len(p.Transitions),
		Deployers:   len(p.Deployers),
	}
	for _, a := range p.Placements {
		s.Items += len(a.Items)
		if a.Vendor {
			s.Vendors++
		}
		if a.Composite != nil {
			s.Composites++
		}
	}
	return s
}

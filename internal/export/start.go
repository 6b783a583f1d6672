package export

import (
	"go.uber.org/zap"

	"randoexport/internal/catalog"
	"randoexport/internal/settings"
)

type startAdjustment struct {
	// Condition, when set, names a setting that must be true.
	Condition  string
	Platforms  []Platform
	SceneFlags []SceneFlag
}

var startAdjustments = map[string]startAdjustment{
	// Escape the Hive start regardless of difficulty or starting items.
	"Hive": {
		Platforms: []Platform{
			{Scene: "Hive_03", X: 58.5, Y: 134},
			{Scene: "Hive_03", X: 58.5, Y: 138.5},
		},
	},
	// Drop the vine platforms and add small platforms to jump up instead.
	"Far Greenpath": {
		Platforms: []Platform{
			{Scene: "Fungus1_13", X: 45, Y: 16.5},
			{Scene: "Fungus1_13", X: 64, Y: 16.5},
		},
		SceneFlags: []SceneFlag{
			{Scene: "Fungus1_13", Object: "Vine Platform (1)"},
			{Scene: "Fungus1_13", Object: "Vine Platform (2)"},
		},
	},
	// Without a nail the vine right of the vessel fragment cannot be cut.
	"Lower Greenpath": {
		Condition:  "randomize_nail",
		SceneFlags: []SceneFlag{{Scene: "Fungus1_13", Object: "Vine Platform"}},
	},
}

// ExportStart sets the start point and deploys the platforms the start and
// settings call for.
func (s *Session) ExportStart(gs settings.GenerationSettings) {
	name := gs.StartLocationSettings.StartLocation
	if name != "" {
		if def, ok := s.cat.ResolveStart(name); ok {
			s.profile.Start = &StartPoint{
				Name:    def.Name,
				Scene:   def.Scene,
				X:       def.X,
				Y:       def.Y,
				MapZone: def.Zone,
			}
		} else {
			s.log.Warn("start location not in catalog; keeping vanilla start", zap.String("start", name))
		}
	}

	s.profile.Deployers = append(s.profile.Deployers, platformList(s.cat, gs, s.log)...)

	adj, ok := startAdjustments[name]
	if !ok {
		return
	}
	if adj.Condition != "" {
		if v, _ := gs.Condition(adj.Condition); !v {
			return
		}
	}
	s.profile.Deployers = append(s.profile.Deployers, adj.Platforms...)
	s.profile.SceneFlags = append(s.profile.SceneFlags, adj.SceneFlags...)
}

// platformList filters the catalog platforms; a session without a catalog
// deploys only the start adjustments.
func platformList(cat *catalog.Catalog, gs settings.GenerationSettings, logger *zap.Logger) []Platform {
	if cat == nil {
		return nil
	}
	var out []Platform
	for _, def := range cat.Platforms.Defs {
		if def.Start != "" && def.Start != gs.StartLocationSettings.StartLocation {
			continue
		}
		if def.Condition != "" {
			v, known := gs.Condition(def.Condition)
			if !known {
				logger.Warn("platform condition unknown; skipping", zap.String("scene", def.Scene), zap.String("condition", def.Condition))
				continue
			}
			if !v {
				continue
			}
		}
		out = append(out, Platform{Scene: def.Scene, X: def.X, Y: def.Y})
	}
	return out
}

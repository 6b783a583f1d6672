// Package export turns a finished randomization into the profile the
// game-state mutation layer applies.
package export

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"randoexport/internal/catalog"
	"randoexport/internal/placement"
	"randoexport/internal/settings"
	"randoexport/internal/shopdefaults"
	"randoexport/internal/transition"
)

// ErrNoCatalog rejects a full export without templates to resolve against.
var ErrNoCatalog = errors.New("export: no catalog")

// Session owns one profile under construction. It is not safe for
// concurrent use.
type Session struct {
	cat     *catalog.Catalog
	log     *zap.Logger
	profile *Profile
}

// Begin starts a fresh profile and registers the export-time modules once.
func Begin(cat *catalog.Catalog, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		cat: cat,
		log: logger,
		profile: &Profile{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
		},
	}
	if cat != nil {
		s.profile.CatalogDigests = map[string]string{
			"locations": cat.Locations.Digest,
			"items":     cat.Items.Digest,
			"starts":    cat.Starts.Digest,
			"platforms": cat.Platforms.Digest,
		}
	}
	s.addModule(ModuleRandomizer)
	s.addModule(ModuleTrackerUpdate)
	s.addModule(ModuleTrackerLog)
	return s
}

func (s *Session) addModule(name string) {
	for _, m := range s.profile.Modules {
		if m == name {
			return
		}
	}
	s.profile.Modules = append(s.profile.Modules, name)
}

// ExportItemPlacements assembles the item placements. On error the profile
// keeps no placements.
func (s *Session) ExportItemPlacements(gs settings.GenerationSettings, records []placement.Record) error {
	defaults := shopdefaults.Derive(gs.PoolSettings)
	ps, err := placement.Assemble(s.cat, records, placement.Options{
		ShopDefaults: defaults,
		Logger:       s.log.Named("placement"),
	})
	if err != nil {
		s.log.Error("item export aborted", zap.Error(err), zap.Int("records", len(records)))
		return err
	}
	s.profile.Seed = gs.Seed
	s.profile.ShopDefaults = defaults
	s.profile.Placements = ps
	s.log.Info("item placements exported",
		zap.Int("records", len(records)),
		zap.Int("placements", len(ps)),
		zap.Stringer("shop_defaults", defaults))
	return nil
}

func (s *Session) ExportTransitionPlacements(ps []transition.Placement) {
	s.profile.Transitions = append(s.profile.Transitions, transition.Emit(ps)...)
}

func (s *Session) Profile() *Profile { return s.profile }

// Run performs a complete export: start, item placements, transitions.
func Run(cat *catalog.Catalog, gs settings.GenerationSettings, records []placement.Record, transitions []transition.Placement, logger *zap.Logger) (*Profile, error) {
	if cat == nil {
		return nil, ErrNoCatalog
	}
	s := Begin(cat, logger)
	s.ExportStart(gs)
	if err := s.ExportItemPlacements(gs, records); err != nil {
		return nil, err
	}
	s.ExportTransitionPlacements(transitions)
	return s.Profile(), nil
}

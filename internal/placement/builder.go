// Package placement groups randomizer assignments into per-location
// placements ready for the game-state mutation layer.
package placement

import (
	"fmt"

	"go.uber.org/zap"

	"randoexport/internal/catalog"
	"randoexport/internal/cost"
	"randoexport/internal/shopdefaults"
)

// SplitShadeCloak has a left- and a right-facing variant; the catalog records
// the left-biased predecessor order.
const SplitShadeCloak = "Split_Shade_Cloak"

// Catalog resolves template names. Both methods return copies.
type Catalog interface {
	ResolveLocation(name string) (catalog.LocationTemplate, bool)
	ResolveItem(name string) (catalog.ItemTemplate, bool)
}

type Options struct {
	ShopDefaults shopdefaults.Items
	Logger       *zap.Logger
}

// Builder consumes records in order. It is not safe for concurrent use.
type Builder struct {
	cat      Catalog
	defaults shopdefaults.Items
	log      *zap.Logger

	byName map[string]*Assembly
	order  []*Assembly
	next   int
	err    error
}

func NewBuilder(cat Catalog, opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		cat:      cat,
		defaults: opts.ShopDefaults,
		log:      logger,
		byName:   map[string]*Assembly{},
	}
}

// Assemble runs a whole pass. On error no placements are returned.
func Assemble(cat Catalog, records []Record, opts Options) ([]*Assembly, error) {
	b := NewBuilder(cat, opts)
	for _, rec := range records {
		if err := b.Add(rec); err != nil {
			return nil, err
		}
	}
	return b.Placements(), nil
}

// Add places the next record. After the first error the builder is poisoned
// and returns that error forever.
func (b *Builder) Add(rec Record) error {
	if b.err != nil {
		return b.err
	}
	j := b.next
	b.next++
	if err := b.add(j, rec); err != nil {
		b.err = err
		return err
	}
	return nil
}

// Placements returns assemblies in first-seen location order, or nil if the
// pass failed.
func (b *Builder) Placements() []*Assembly {
	if b.err != nil {
		return nil
	}
	out := make([]*Assembly, len(b.order))
	copy(out, b.order)
	return out
}

func (b *Builder) add(j int, rec Record) error {
	loc := rec.Location
	a, ok := b.byName[loc.Name]
	if !ok {
		var err error
		a, err = b.create(loc)
		if err != nil {
			return &RecordError{Index: j, Name: loc.Name, Err: err}
		}
		b.byName[a.Name] = a
		b.order = append(b.order, a)
		b.log.Debug("placement created",
			zap.String("location", a.Name),
			zap.Stringer("capability", a.Capability),
			zap.Bool("composite", a.Composite != nil))
	}

	tmpl, ok := b.cat.ResolveItem(rec.Item.Name)
	if !ok {
		return &RecordError{Index: j, Name: rec.Item.Name, Err: fmt.Errorf("%w: %s", ErrUnresolvedItem, rec.Item.Name)}
	}
	if rec.Item.Name == SplitShadeCloak && rec.Item.Variant.Orientation == OrientationRight {
		swapPredecessors(&tmpl)
	}
	item := &Item{ItemTemplate: tmpl, Tag: j}

	if len(loc.Costs) > 0 && a.Capability != Single {
		var c cost.Cost
		if a.Capability == Multi {
			converted, err := cost.Convert(loc.Costs)
			if err != nil {
				return &RecordError{Index: j, Name: loc.Name, Err: err}
			}
			c = converted
			item.Cost = converted
		}
		if err := a.AttachCost(c); err != nil {
			return &RecordError{Index: j, Name: loc.Name, Err: fmt.Errorf("attached cost %s: %w", loc.Costs[0], err)}
		}
	}

	a.Items = append(a.Items, item)
	return nil
}

func (b *Builder) create(loc LocationRecord) (*Assembly, error) {
	var a *Assembly
	if t, ok := b.cat.ResolveLocation(loc.Name); ok {
		wrapped, err := wrap(t, b.defaults)
		if err != nil {
			return nil, err
		}
		a = wrapped
	} else if rule, ok := compositeRule(loc.Name); ok {
		merged, problems := rule.resolve(b.cat)
		if merged == nil {
			b.log.Error(fmt.Sprintf("error constructing %s location", rule.Name),
				zap.String("composite", rule.Name),
				zap.Strings("problems", problems))
			return nil, fmt.Errorf("%w: %s: %v", ErrCompositeTemplateMissing, rule.Name, problems)
		}
		a = merged
	} else {
		return nil, fmt.Errorf("%w: %s did not correspond to any catalog location", ErrUnresolvedLocation, loc.Name)
	}

	// All items at a single-cost location share one cost; only the first
	// record's cost is converted.
	if len(loc.Costs) > 0 && a.Capability == Single {
		c, err := cost.Convert(loc.Costs)
		if err != nil {
			return nil, err
		}
		if err := a.AttachCost(c); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func swapPredecessors(t *catalog.ItemTemplate) {
	if t.Tree == nil || len(t.Tree.Predecessors) != 2 {
		return
	}
	p := t.Tree.Predecessors
	p[0], p[1] = p[1], p[0]
}

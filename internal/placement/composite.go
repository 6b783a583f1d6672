package placement

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"randoexport/internal/catalog"
)

// CompositeRule maps a logical location with no catalog entry onto two
// catalog templates: the tablet where costs are shown and the chest that
// delivers the items.
type CompositeRule struct {
	Name        string
	Acquisition string // placeable
	Delivery    string // container
}

var CompositeRules = []CompositeRule{
	{Name: "Grubfather", Acquisition: "Mask_Shard-5_Grubs", Delivery: "Grubberfly's_Elegy"},
	{Name: "Seer", Acquisition: "Hallownest_Seal-Seer", Delivery: "Awoken_Dream_Nail"},
}

var compositeNames = func() mapset.Set[string] {
	s := mapset.New[string]()
	for _, r := range CompositeRules {
		s.Put(r.Name)
	}
	return s
}()

func IsComposite(name string) bool { return compositeNames.Has(name) }

func compositeRule(name string) (CompositeRule, bool) {
	for _, r := range CompositeRules {
		if r.Name == name {
			return r, true
		}
	}
	return CompositeRule{}, false
}

// resolve returns the merged assembly, or the list of templates that could
// not serve their slot.
func (r CompositeRule) resolve(cat Catalog) (*Assembly, []string) {
	var problems []string
	tablet, ok := cat.ResolveLocation(r.Acquisition)
	switch {
	case !ok:
		problems = append(problems, r.Acquisition+": not found")
	case tablet.Kind != catalog.KindPlaceable:
		problems = append(problems, fmt.Sprintf("%s: kind %s is not %s", r.Acquisition, tablet.Kind, catalog.KindPlaceable))
	}
	chest, ok := cat.ResolveLocation(r.Delivery)
	switch {
	case !ok:
		problems = append(problems, r.Delivery+": not found")
	case chest.Kind != catalog.KindContainer:
		problems = append(problems, fmt.Sprintf("%s: kind %s is not %s", r.Delivery, chest.Kind, catalog.KindContainer))
	}
	if len(problems) > 0 {
		return nil, problems
	}

	// Templates are copies; renaming them leaves the catalog untouched.
	tablet.Name = r.Name
	chest.Name = r.Name
	return &Assembly{
		Name:       r.Name,
		Capability: Multi,
		Composite:  &CompositeSlots{Acquisition: tablet, Delivery: chest},
		Randomized: true,
	}, nil
}

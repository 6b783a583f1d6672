package placement

import (
	"fmt"

	"randoexport/internal/catalog"
	"randoexport/internal/cost"
	"randoexport/internal/shopdefaults"
)

// Capability is how much cost an assembly can structurally hold.
type Capability int

const (
	None Capability = iota
	Single
	Multi
)

func (c Capability) String() string {
	switch c {
	case None:
		return "none"
	case Single:
		return "single"
	case Multi:
		return "multi"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

func (c Capability) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Capability) UnmarshalText(b []byte) error {
	v, ok := parseCapability(string(b))
	if !ok {
		return fmt.Errorf("unknown capability %q", string(b))
	}
	*c = v
	return nil
}

func parseCapability(s string) (Capability, bool) {
	switch s {
	case "", catalog.CostNone:
		return None, true
	case catalog.CostSingle:
		return Single, true
	case catalog.CostMulti:
		return Multi, true
	}
	return None, false
}

const (
	OrientationLeft  = "left"
	OrientationRight = "right"
)

// Variant carries optional per-item metadata from the randomizer.
type Variant struct {
	Orientation string `json:"orientation,omitempty"` // "" and "left" are the default
}

type ItemRecord struct {
	Name    string  `json:"name"`
	Variant Variant `json:"variant,omitempty"`
}

type LocationRecord struct {
	Name  string      `json:"name"`
	Costs []cost.Term `json:"costs,omitempty"`
}

// Record is one (item, location) assignment.
type Record struct {
	Item     ItemRecord     `json:"item"`
	Location LocationRecord `json:"location"`
}

// Item is a resolved item template tagged with its input index.
type Item struct {
	catalog.ItemTemplate

	Tag  int       `json:"tag"`
	Cost cost.Cost `json:"cost,omitempty"`
}

// CompositeSlots backs one logical placement with two physical locations.
// Both templates carry the logical name.
type CompositeSlots struct {
	Acquisition catalog.LocationTemplate `json:"acquisition"`
	Delivery    catalog.LocationTemplate `json:"delivery"`
}

// Assembly groups every item assigned to one location name.
type Assembly struct {
	Name       string     `json:"name"`
	Capability Capability `json:"capability"`
	Items      []*Item    `json:"items"`
	Cost       cost.Cost  `json:"cost,omitempty"`

	// Exactly one of Location and Composite is set.
	Location  *catalog.LocationTemplate `json:"location,omitempty"`
	Composite *CompositeSlots           `json:"composite,omitempty"`

	Vendor       bool               `json:"vendor,omitempty"`
	ShopDefaults shopdefaults.Items `json:"shop_defaults,omitempty"`
	Randomized   bool               `json:"randomized"`

	costSet bool
}

func wrap(t catalog.LocationTemplate, defaults shopdefaults.Items) (*Assembly, error) {
	capability, ok := parseCapability(t.Cost)
	if !ok {
		return nil, fmt.Errorf("location %s: unknown cost interface %q", t.Name, t.Cost)
	}
	a := &Assembly{
		Name:       t.Name,
		Capability: capability,
		Location:   &t,
		Randomized: true,
	}
	if t.IsShop() {
		a.Vendor = true
		a.ShopDefaults = defaults
	}
	return a, nil
}

// Scenes lists the scenes this assembly touches.
func (a *Assembly) Scenes() []string {
	switch {
	case a.Composite != nil:
		if a.Composite.Acquisition.Scene == a.Composite.Delivery.Scene {
			return []string{a.Composite.Delivery.Scene}
		}
		return []string{a.Composite.Acquisition.Scene, a.Composite.Delivery.Scene}
	case a.Location != nil && a.Location.Scene != "":
		return []string{a.Location.Scene}
	}
	return nil
}

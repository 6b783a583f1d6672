package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Location kinds. Composite placements need a container and a placeable.
const (
	KindPlaceable = "placeable"
	KindContainer = "container"
	KindShop      = "shop"
	KindAuto      = "auto"
)

// Cost interfaces a location template can declare.
const (
	CostNone   = "none"
	CostSingle = "single"
	CostMulti  = "multi"
)

type Catalog struct {
	Locations LocationCatalog
	Items     ItemCatalog
	Starts    StartCatalog
	Platforms PlatformCatalog
}

type LocationCatalog struct {
	Names  []string
	Defs   map[string]LocationTemplate
	Digest string
}

type LocationTemplate struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Scene string `json:"scene,omitempty"`
	Cost  string `json:"cost,omitempty"` // "none","single","multi"; empty means none
}

// IsShop reports whether placements built from t hold vendor default items.
func (t LocationTemplate) IsShop() bool { return t.Kind == KindShop }

// CostInterface returns the declared cost interface, defaulting to none.
func (t LocationTemplate) CostInterface() string {
	if t.Cost == "" {
		return CostNone
	}
	return t.Cost
}

type ItemCatalog struct {
	Names  []string
	Defs   map[string]ItemTemplate
	Digest string
}

type ItemTemplate struct {
	Name string    `json:"name"`
	Pool string    `json:"pool,omitempty"`
	Tree *ItemTree `json:"tree,omitempty"`
}

// ItemTree records progression metadata used by downstream ordering.
type ItemTree struct {
	Predecessors []string `json:"predecessors,omitempty"`
	Successors   []string `json:"successors,omitempty"`
}

// Clone returns a deep copy so callers may edit the tree freely.
func (t ItemTemplate) Clone() ItemTemplate {
	out := t
	if t.Tree != nil {
		tree := ItemTree{
			Predecessors: append([]string(nil), t.Tree.Predecessors...),
			Successors:   append([]string(nil), t.Tree.Successors...),
		}
		out.Tree = &tree
	}
	return out
}

type StartCatalog struct {
	ByName map[string]StartDef
	Digest string
}

type StartDef struct {
	Name  string  `json:"name"`
	Scene string  `json:"scene"`
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Zone  int     `json:"zone"`
}

type PlatformCatalog struct {
	Defs   []PlatformDef
	Digest string
}

// PlatformDef is a movement-assist platform. Start and Condition are optional
// filters evaluated by the exporter.
type PlatformDef struct {
	Scene     string  `json:"scene"`
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Start     string  `json:"start,omitempty"`
	Condition string  `json:"condition,omitempty"`
}

var (
	validKinds = setOf(KindPlaceable, KindContainer, KindShop, KindAuto)
	validCosts = setOf("", CostNone, CostSingle, CostMulti)
)

func setOf(vals ...string) mapset.Set[string] {
	s := mapset.New[string]()
	for _, v := range vals {
		s.Put(v)
	}
	return s
}

// Load reads locations.json and items.json (required) plus starts.json and
// platforms.json (optional) from configDir.
func Load(configDir string) (*Catalog, error) {
	var c Catalog

	if err := loadLocations(filepath.Join(configDir, "locations.json"), &c.Locations); err != nil {
		return nil, err
	}
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := loadStarts(filepath.Join(configDir, "starts.json"), &c.Starts); err != nil {
		return nil, err
	}
	if err := loadPlatforms(filepath.Join(configDir, "platforms.json"), &c.Platforms); err != nil {
		return nil, err
	}
	return &c, nil
}

// New builds an in-memory catalog from already decoded templates.
func New(locations []LocationTemplate, items []ItemTemplate) (*Catalog, error) {
	var c Catalog
	locRaw, _ := json.Marshal(locations)
	if err := indexLocations("locations", locRaw, locations, &c.Locations); err != nil {
		return nil, err
	}
	itemRaw, _ := json.Marshal(items)
	if err := indexItems("items", itemRaw, items, &c.Items); err != nil {
		return nil, err
	}
	c.Starts = StartCatalog{ByName: map[string]StartDef{}, Digest: sha256Hex(nil)}
	c.Platforms = PlatformCatalog{Digest: sha256Hex(nil)}
	return &c, nil
}

// ResolveLocation returns a copy of the named template.
func (c *Catalog) ResolveLocation(name string) (LocationTemplate, bool) {
	if c == nil {
		return LocationTemplate{}, false
	}
	t, ok := c.Locations.Defs[name]
	return t, ok
}

// ResolveItem returns a deep copy of the named template.
func (c *Catalog) ResolveItem(name string) (ItemTemplate, bool) {
	if c == nil {
		return ItemTemplate{}, false
	}
	t, ok := c.Items.Defs[name]
	if !ok {
		return ItemTemplate{}, false
	}
	return t.Clone(), true
}

func (c *Catalog) ResolveStart(name string) (StartDef, bool) {
	if c == nil {
		return StartDef{}, false
	}
	d, ok := c.Starts.ByName[name]
	return d, ok
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadLocations(path string, out *LocationCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs []LocationTemplate
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("locations.json: %w", err)
	}
	return indexLocations("locations.json", raw, defs, out)
}

func indexLocations(src string, raw []byte, defs []LocationTemplate, out *LocationCatalog) error {
	out.Digest = sha256Hex(raw)
	out.Defs = make(map[string]LocationTemplate, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("%s: empty name", src)
		}
		if !validKinds.Has(d.Kind) {
			return fmt.Errorf("%s: %s: unknown kind %q", src, d.Name, d.Kind)
		}
		if !validCosts.Has(d.Cost) {
			return fmt.Errorf("%s: %s: unknown cost interface %q", src, d.Name, d.Cost)
		}
		if _, dup := out.Defs[d.Name]; dup {
			return fmt.Errorf("%s: duplicate name %s", src, d.Name)
		}
		out.Defs[d.Name] = d
	}
	out.Names = sortedKeys(out.Defs)
	return nil
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs []ItemTemplate
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	return indexItems("items.json", raw, defs, out)
}

func indexItems(src string, raw []byte, defs []ItemTemplate, out *ItemCatalog) error {
	out.Digest = sha256Hex(raw)
	out.Defs = make(map[string]ItemTemplate, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("%s: empty name", src)
		}
		if _, dup := out.Defs[d.Name]; dup {
			return fmt.Errorf("%s: duplicate name %s", src, d.Name)
		}
		out.Defs[d.Name] = d
	}
	out.Names = sortedKeys(out.Defs)
	return nil
}

func loadStarts(path string, out *StartCatalog) error {
	out.ByName = map[string]StartDef{}
	raw, err := os.ReadFile(path)
	if err != nil {
		// Optional: without starts the exporter keeps the vanilla start.
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			return nil
		}
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []StartDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("starts.json: %w", err)
	}
	for _, d := range defs {
		if d.Name == "" || d.Scene == "" {
			return fmt.Errorf("starts.json: start missing name or scene")
		}
		out.ByName[d.Name] = d
	}
	return nil
}

func loadPlatforms(path string, out *PlatformCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			return nil
		}
		return err
	}
	out.Digest = sha256Hex(raw)
	if err := json.Unmarshal(raw, &out.Defs); err != nil {
		return fmt.Errorf("platforms.json: %w", err)
	}
	for i, p := range out.Defs {
		if p.Scene == "" {
			return fmt.Errorf("platforms.json: platform %d: empty scene", i)
		}
	}
	return nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package placement

import (
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"randoexport/internal/cost"
)

type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchContains
)

// CostExemption names a location that reports costs its template cannot
// hold. Such costs are dropped instead of failing the export.
type CostExemption struct {
	Pattern string
	Match   MatchKind
	Reason  string
}

// CostExemptions is upstream data debt: the randomizer emits costs for these
// locations even though their templates have no cost interface.
// TODO: drop entries once the randomizer stops attaching costs to them.
var CostExemptions = []CostExemption{
	{Pattern: "Dash_Slash", Match: MatchExact, Reason: "nailmaster ability location reports a geo cost"},
	{Pattern: "Map", Match: MatchContains, Reason: "map locations report the vendor price"},
}

var exemptNames, exemptSubstrings = indexExemptions(CostExemptions)

func indexExemptions(table []CostExemption) (mapset.Set[string], []string) {
	names := mapset.New[string]()
	var subs []string
	for _, e := range table {
		switch e.Match {
		case MatchExact:
			names.Put(e.Pattern)
		case MatchContains:
			subs = append(subs, e.Pattern)
		}
	}
	return names, subs
}

// IsCostExempt reports whether a cost attached to a cost-less placement named
// name is silently ignored.
func IsCostExempt(name string) bool {
	if exemptNames.Has(name) {
		return true
	}
	for _, s := range exemptSubstrings {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// AttachCost merges c into the assembly according to its capability. Single
// keeps the first cost it sees; Multi accumulates.
func (a *Assembly) AttachCost(c cost.Cost) error {
	switch a.Capability {
	case Single:
		if !a.costSet {
			a.Cost = c
			a.costSet = true
		}
		return nil
	case Multi:
		a.Cost = cost.Add(a.Cost, c)
		a.costSet = true
		return nil
	}
	if IsCostExempt(a.Name) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedCostAttachment, a.Name)
}

// ItemCost is what the player pays for it: its own cost at a multi-cost
// placement, the shared cost at a single-cost placement.
func (a *Assembly) ItemCost(it *Item) cost.Cost {
	if a.Capability == Single {
		return a.Cost
	}
	return it.Cost
}

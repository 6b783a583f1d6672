// Package cost converts randomizer cost terms into the additive cost carried
// by placements.
//
// Accepted terms, matched case-insensitively: GEO, GRUBS, ESSENCE, CHARMS,
// RANCIDEGGS, SIMPLE (simple keys), MASKSHARDS, VESSELFRAGMENTS, PALEORE and
// DREAMNAIL. Any other term fails with ErrUnknownTerm.
package cost

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	Geo             Kind = "GEO"
	Grubs           Kind = "GRUBS"
	Essence         Kind = "ESSENCE"
	Charms          Kind = "CHARMS"
	RancidEggs      Kind = "RANCIDEGGS"
	SimpleKeys      Kind = "SIMPLE"
	MaskShards      Kind = "MASKSHARDS"
	VesselFragments Kind = "VESSELFRAGMENTS"
	PaleOre         Kind = "PALEORE"
	DreamNail       Kind = "DREAMNAIL"
)

var knownKinds = map[Kind]struct{}{
	Geo:             {},
	Grubs:           {},
	Essence:         {},
	Charms:          {},
	RancidEggs:      {},
	SimpleKeys:      {},
	MaskShards:      {},
	VesselFragments: {},
	PaleOre:         {},
	DreamNail:       {},
}

var (
	ErrUnknownTerm    = errors.New("unknown cost term")
	ErrNegativeAmount = errors.New("negative cost amount")
)

// Term is one cost requirement as emitted by the randomizer.
type Term struct {
	Term   string `json:"term"`
	Amount int    `json:"amount"`
}

func (t Term) String() string { return fmt.Sprintf("%d %s", t.Amount, t.Term) }

type Component struct {
	Kind   Kind `json:"kind"`
	Amount int  `json:"amount"`
}

// Cost is a normalized sum of components: sorted by kind, one entry per kind.
// The nil Cost is free.
type Cost []Component

// Convert turns a list of terms into a single combined cost.
func Convert(terms []Term) (Cost, error) {
	var out Cost
	for _, t := range terms {
		k := Kind(strings.ToUpper(strings.TrimSpace(t.Term)))
		if _, ok := knownKinds[k]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTerm, t.Term)
		}
		if t.Amount < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativeAmount, t)
		}
		out = Add(out, Cost{{Kind: k, Amount: t.Amount}})
	}
	return out, nil
}

// Add returns a+b. It is commutative and associative and never mutates its
// arguments.
func Add(a, b Cost) Cost {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	sums := make(map[Kind]int, len(a)+len(b))
	for _, c := range a {
		sums[c.Kind] += c.Amount
	}
	for _, c := range b {
		sums[c.Kind] += c.Amount
	}
	out := make(Cost, 0, len(sums))
	for k, n := range sums {
		out = append(out, Component{Kind: k, Amount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

func (c Cost) IsFree() bool {
	for _, p := range c {
		if p.Amount != 0 {
			return false
		}
	}
	return true
}

func (c Cost) Equal(o Cost) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Amount returns the amount required of kind k.
func (c Cost) Amount(k Kind) int {
	for _, p := range c {
		if p.Kind == k {
			return p.Amount
		}
	}
	return 0
}

func (c Cost) String() string {
	if len(c) == 0 {
		return "free"
	}
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = fmt.Sprintf("%d %s", p.Amount, p.Kind)
	}
	return strings.Join(parts, " + ")
}

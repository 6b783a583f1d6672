// Package shopdefaults derives which vendor-default stock stays enabled for a
// given set of randomized pools.
package shopdefaults

import (
	"strings"

	"randoexport/internal/settings"
)

// Items is a bitmask of vendor-default stock.
type Items uint32

const None Items = 0

const (
	SlyCharms Items = 1 << iota
	SlyMaskShards
	SlyVesselFragments
	SlySimpleKey
	SlyRancidEgg
	SlyLantern
	SlyKeyCharms
	SlyKeyElegantKey
	IseldaMapPins
	IseldaMapMarkers
	IseldaQuill
	IseldaMaps
	IseldaCharms
	SalubraCharms
	SalubraBlessing
	LegEaterCharms
	LegEaterRepair
)

// Unconditional stock is never randomized.
const Unconditional = IseldaMapPins | IseldaMapMarkers | SalubraBlessing

const (
	KeyPool    = SlyLantern | SlySimpleKey | SlyKeyElegantKey
	CharmPool  = SlyCharms | SlyKeyCharms | IseldaCharms | SalubraCharms | LegEaterCharms | LegEaterRepair
	MapPool    = IseldaQuill | IseldaMaps
	MaskPool   = SlyMaskShards
	VesselPool = SlyVesselFragments
	EggPool    = SlyRancidEgg
)

var names = []struct {
	bit  Items
	name string
}{
	{SlyCharms, "SlyCharms"},
	{SlyMaskShards, "SlyMaskShards"},
	{SlyVesselFragments, "SlyVesselFragments"},
	{SlySimpleKey, "SlySimpleKey"},
	{SlyRancidEgg, "SlyRancidEgg"},
	{SlyLantern, "SlyLantern"},
	{SlyKeyCharms, "SlyKeyCharms"},
	{SlyKeyElegantKey, "SlyKeyElegantKey"},
	{IseldaMapPins, "IseldaMapPins"},
	{IseldaMapMarkers, "IseldaMapMarkers"},
	{IseldaQuill, "IseldaQuill"},
	{IseldaMaps, "IseldaMaps"},
	{IseldaCharms, "IseldaCharms"},
	{SalubraCharms, "SalubraCharms"},
	{SalubraBlessing, "SalubraBlessing"},
	{LegEaterCharms, "LegEaterCharms"},
	{LegEaterRepair, "LegEaterRepair"},
}

// Derive keeps a pool's vendor stock enabled when that pool was not
// randomized, so the items remain obtainable from their original vendor.
func Derive(pools settings.PoolSettings) Items {
	items := Unconditional
	if !pools.Keys {
		items |= KeyPool
	}
	if !pools.Charms {
		items |= CharmPool
	}
	if !pools.Maps {
		items |= MapPool
	}
	if !pools.MaskShards {
		items |= MaskPool
	}
	if !pools.VesselFragments {
		items |= VesselPool
	}
	if !pools.RancidEggs {
		items |= EggPool
	}
	return items
}

func (i Items) Has(flag Items) bool { return i&flag == flag }

// Names lists the set flags in declaration order.
func (i Items) Names() []string {
	var out []string
	for _, n := range names {
		if i&n.bit != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

func (i Items) String() string {
	if i == None {
		return "None"
	}
	return strings.Join(i.Names(), "|")
}

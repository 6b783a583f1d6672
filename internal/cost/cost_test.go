package cost

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_CombinesTerms(t *testing.T) {
	got, err := Convert([]Term{
		{Term: "GEO", Amount: 300},
		{Term: "grubs", Amount: 10},
		{Term: "GEO", Amount: 50},
	})
	require.NoError(t, err)
	want := Cost{{Kind: Geo, Amount: 350}, {Kind: Grubs, Amount: 10}}
	assert.Empty(t, cmp.Diff(want, got), "Convert mismatch (-want +got)")
	assert.Equal(t, "350 GEO + 10 GRUBS", got.String())
}

func TestConvert_AcceptsEveryKnownTerm(t *testing.T) {
	for _, k := range []Kind{Geo, Grubs, Essence, Charms, RancidEggs, SimpleKeys, MaskShards, VesselFragments, PaleOre, DreamNail} {
		t.Run(string(k), func(t *testing.T) {
			got, err := Convert([]Term{{Term: string(k), Amount: 1}})
			require.NoError(t, err)
			assert.Equal(t, 1, got.Amount(k))
		})
	}

	got, err := Convert([]Term{{Term: "DREAMNAIL", Amount: 1}})
	require.NoError(t, err)
	assert.Equal(t, "1 DREAMNAIL", got.String())
}

func TestConvert_Empty(t *testing.T) {
	got, err := Convert(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, got.IsFree())
}

func TestConvert_Errors(t *testing.T) {
	_, err := Convert([]Term{{Term: "SOULS", Amount: 1}})
	assert.ErrorIs(t, err, ErrUnknownTerm)

	_, err = Convert([]Term{{Term: "GEO", Amount: -1}})
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestAdd_CommutativeAndAssociative(t *testing.T) {
	a := Cost{{Kind: Geo, Amount: 100}}
	b := Cost{{Kind: Essence, Amount: 200}, {Kind: Geo, Amount: 5}}
	c := Cost{{Kind: Charms, Amount: 3}}

	assert.True(t, Add(a, b).Equal(Add(b, a)), "Add not commutative: %v vs %v", Add(a, b), Add(b, a))
	assert.True(t, Add(Add(a, b), c).Equal(Add(a, Add(b, c))), "Add not associative")
	assert.Equal(t, 105, Add(a, b).Amount(Geo))
	assert.Equal(t, 100, a[0].Amount, "Add mutated its argument")
}

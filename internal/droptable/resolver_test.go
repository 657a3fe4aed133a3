package droptable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemcrate/StemCrate_Go/internal/domain"
)

func standardTable() domain.DropTable {
	return domain.DropTable{
		ID: "standard",
		Rows: []domain.DropRow{
			{Rarity: domain.RarityCommon, Weight: 70},
			{Rarity: domain.RarityRare, Weight: 20},
			{Rarity: domain.RarityLegendary, Weight: 10, PityEvery: 5},
		},
	}
}

func fixedRnd(v float64) func() float64 {
	return func() float64 { return v }
}

func TestResolveRarity_AlwaysReturnsDeclaredRarity(t *testing.T) {
	table := standardTable()
	declared := map[domain.Rarity]bool{
		domain.RarityCommon:    true,
		domain.RarityRare:      true,
		domain.RarityLegendary: true,
	}

	for _, v := range []float64{0, 0.1, 0.5, 0.69, 0.7, 0.89, 0.9, 0.999} {
		pity := domain.PityState{}
		outcome, err := ResolveRarity(&table, &pity, fixedRnd(v))
		require.NoError(t, err)
		assert.True(t, declared[outcome.Rarity], "rnd=%v returned undeclared rarity %q", v, outcome.Rarity)
	}
}

func TestResolveRarity_WeightedWalk(t *testing.T) {
	table := standardTable()

	tests := []struct {
		name string
		rnd  float64
		want domain.Rarity
	}{
		{"low roll hits first row", 0.0, domain.RarityCommon},
		{"boundary roll falls into second row", 0.70, domain.RarityRare},
		{"high roll hits last row", 0.95, domain.RarityLegendary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pity := domain.PityState{}
			outcome, err := ResolveRarity(&table, &pity, fixedRnd(tt.rnd))
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Rarity)
			assert.False(t, outcome.PityTriggered)
		})
	}
}

func TestResolveRarity_PityCounterAdvancesOnMiss(t *testing.T) {
	table := standardTable()
	pity := domain.PityState{}

	for i := 1; i <= 4; i++ {
		outcome, err := ResolveRarity(&table, &pity, fixedRnd(0))
		require.NoError(t, err)
		assert.Equal(t, domain.RarityCommon, outcome.Rarity)
		assert.Equal(t, i, pity.SinceLast)
	}
}

func TestResolveRarity_ForcedPityOnThreshold(t *testing.T) {
	table := standardTable()
	pity := domain.PityState{SinceLast: 4}

	// A roll that would land on common is overridden by the pity force.
	outcome, err := ResolveRarity(&table, &pity, fixedRnd(0))
	require.NoError(t, err)
	assert.Equal(t, domain.RarityLegendary, outcome.Rarity)
	assert.True(t, outcome.PityTriggered)
	assert.Equal(t, 0, pity.SinceLast)
}

func TestResolveRarity_FourMissesThenForced(t *testing.T) {
	table := standardTable()
	pity := domain.PityState{}

	for i := 0; i < 4; i++ {
		outcome, err := ResolveRarity(&table, &pity, fixedRnd(0))
		require.NoError(t, err)
		assert.NotEqual(t, domain.RarityLegendary, outcome.Rarity)
	}

	outcome, err := ResolveRarity(&table, &pity, fixedRnd(0))
	require.NoError(t, err)
	assert.Equal(t, domain.RarityLegendary, outcome.Rarity)
	assert.True(t, outcome.PityTriggered)
	assert.Equal(t, 0, pity.SinceLast)
}

func TestResolveRarity_NaturalHitResetsCounter(t *testing.T) {
	table := standardTable()
	pity := domain.PityState{SinceLast: 2}

	outcome, err := ResolveRarity(&table, &pity, fixedRnd(0.95))
	require.NoError(t, err)
	assert.Equal(t, domain.RarityLegendary, outcome.Rarity)
	assert.False(t, outcome.PityTriggered)
	assert.Equal(t, 0, pity.SinceLast)
}

func TestResolveRarity_NoPityRowLeavesCounterAlone(t *testing.T) {
	table := domain.DropTable{
		ID: "flat",
		Rows: []domain.DropRow{
			{Rarity: domain.RarityCommon, Weight: 1},
		},
	}
	pity := domain.PityState{SinceLast: 3}

	_, err := ResolveRarity(&table, &pity, fixedRnd(0))
	require.NoError(t, err)
	assert.Equal(t, 3, pity.SinceLast)
}

func TestResolveRarity_ZeroTotalWeightFailsFast(t *testing.T) {
	table := domain.DropTable{ID: "broken", Rows: []domain.DropRow{}}
	pity := domain.PityState{}

	_, err := ResolveRarity(&table, &pity, fixedRnd(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDropTable)
}

package rankings

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/propsage/internal/domain"
)

func TestRank_NoTies(t *testing.T) {
	e := NewEngine(zerolog.Nop())

	ranks, err := e.Rank(map[string]float64{
		"San Francisco 49ers": 11,
		"Buffalo Bills":       14,
		"Denver Broncos":      21,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, ranks["San Francisco 49ers"])
	assert.Equal(t, 2, ranks["Buffalo Bills"])
	assert.Equal(t, 3, ranks["Denver Broncos"])
}

func TestRank_TiedPairSharesAveragedRank(t *testing.T) {
	e := NewEngine(zerolog.Nop())

	// Two teams tied at positions 2 and 3 both get round((2+3)/2) = 2
	// (2.5 rounds half to even).
	ranks, err := e.Rank(map[string]float64{
		"A": 10,
		"B": 15,
		"C": 15,
		"D": 20,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, ranks["A"])
	assert.Equal(t, 2, ranks["B"])
	assert.Equal(t, 2, ranks["C"])
	assert.Equal(t, 4, ranks["D"])
}

func TestRank_TiedPairAtOddPositions(t *testing.T) {
	e := NewEngine(zerolog.Nop())

	// Positions 3 and 4 average to 3.5, which rounds half to even: 4.
	// Round-half-to-even is the convention inherited from the ranking
	// source, documented here deliberately.
	ranks, err := e.Rank(map[string]float64{
		"A": 1,
		"B": 2,
		"C": 9,
		"D": 9,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, ranks["C"])
	assert.Equal(t, 4, ranks["D"])
}

func TestRank_ThreeWayTie(t *testing.T) {
	e := NewEngine(zerolog.Nop())

	// Three teams occupying positions 1, 2, 3 all get rank 2; the rank sum
	// 6 equals the sum of positions they occupy.
	ranks, err := e.Rank(map[string]float64{
		"A": 5,
		"B": 5,
		"C": 5,
		"D": 8,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, ranks["A"])
	assert.Equal(t, 2, ranks["B"])
	assert.Equal(t, 2, ranks["C"])
	assert.Equal(t, 4, ranks["D"])
	assert.Equal(t, 6, ranks["A"]+ranks["B"]+ranks["C"])
}

func TestRank_WorseValueNeverOutranksBetterValue(t *testing.T) {
	e := NewEngine(zerolog.Nop())

	ranks, err := e.Rank(map[string]float64{
		"A": 1, "B": 2, "C": 2, "D": 2, "E": 3,
	})
	require.NoError(t, err)

	// B, C, D occupy positions 2-4, average 3.
	assert.Equal(t, 1, ranks["A"])
	assert.Equal(t, 3, ranks["B"])
	assert.Equal(t, 3, ranks["C"])
	assert.Equal(t, 3, ranks["D"])
	assert.Equal(t, 5, ranks["E"])
	assert.Less(t, ranks["A"], ranks["B"], "strictly better raw value must keep the better rank")
	assert.Less(t, ranks["B"], ranks["E"])
}

func TestRank_SingleTeam(t *testing.T) {
	e := NewEngine(zerolog.Nop())

	ranks, err := e.Rank(map[string]float64{"Kansas City Chiefs": 17})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Kansas City Chiefs": 1}, ranks)
}

func TestRank_EmptyInputFails(t *testing.T) {
	e := NewEngine(zerolog.Nop())

	_, err := e.Rank(map[string]float64{})
	assert.Error(t, err)
}

func TestRank_AbsentTeamNotSynthesized(t *testing.T) {
	e := NewEngine(zerolog.Nop())

	ranks, err := e.Rank(map[string]float64{"A": 1, "B": 2})
	require.NoError(t, err)

	_, present := ranks["C"]
	assert.False(t, present, "teams missing from the input must not receive a default rank")
	assert.Len(t, ranks, 2)
}

func TestBuildIndex_LookupByStatType(t *testing.T) {
	e := NewEngine(zerolog.Nop())

	idx, err := e.BuildIndex([]domain.TeamDefensiveAggregate{
		{Team: "Buffalo Bills", Category: domain.DefPassingYardsAllowed, RawValue: 180},
		{Team: "New York Jets", Category: domain.DefPassingYardsAllowed, RawValue: 220},
		{Team: "Buffalo Bills", Category: domain.DefRushingYardsAllowed, RawValue: 130},
		{Team: "New York Jets", Category: domain.DefRushingYardsAllowed, RawValue: 95},
	})
	require.NoError(t, err)

	rank, ok := idx.DefensiveRank("Buffalo Bills", domain.StatPassingYards)
	require.True(t, ok)
	assert.Equal(t, 1, rank)

	// Receiving stats resolve through the passing defense proxy.
	rank, ok = idx.DefensiveRank("NYJ", domain.StatReceivingYards)
	require.True(t, ok)
	assert.Equal(t, 2, rank)

	rank, ok = idx.DefensiveRank("New York Jets", domain.StatRushingYards)
	require.True(t, ok)
	assert.Equal(t, 1, rank)

	_, ok = idx.DefensiveRank("Detroit Lions", domain.StatPassingYards)
	assert.False(t, ok, "team without data must be unknown, not mid-pack")
}

package scoring

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/propsage/internal/domain"
	"github.com/aristath/propsage/internal/modules/history"
	"github.com/aristath/propsage/internal/modules/rankings"
)

func buildRankIndex(t *testing.T) *rankings.Index {
	t.Helper()

	teams := []string{
		"Arizona Cardinals", "Atlanta Falcons", "Baltimore Ravens", "Buffalo Bills",
		"Carolina Panthers", "Chicago Bears", "Cincinnati Bengals", "Cleveland Browns",
		"Dallas Cowboys", "Denver Broncos", "Detroit Lions", "Green Bay Packers",
		"Houston Texans", "Indianapolis Colts", "Jacksonville Jaguars", "Kansas City Chiefs",
		"Las Vegas Raiders", "Los Angeles Chargers", "Los Angeles Rams", "Miami Dolphins",
		"Minnesota Vikings", "New England Patriots", "New Orleans Saints", "New York Giants",
		"New York Jets", "Philadelphia Eagles", "Pittsburgh Steelers", "San Francisco 49ers",
		"Seattle Seahawks", "Tampa Bay Buccaneers", "Tennessee Titans", "Washington Commanders",
	}

	var aggregates []domain.TeamDefensiveAggregate
	for i, team := range teams {
		aggregates = append(aggregates, domain.TeamDefensiveAggregate{
			Team:     team,
			Category: domain.DefPassingYardsAllowed,
			RawValue: float64(1500 + i*25),
		})
	}

	engine := rankings.NewEngine(zerolog.Nop())
	idx, err := engine.BuildIndex(aggregates)
	require.NoError(t, err)
	return idx
}

func buildHistIndex(values ...float64) *history.Index {
	var records []domain.GameStatRecord
	for i, v := range values {
		records = append(records, domain.GameStatRecord{
			Player:   "Travis Kelce",
			Team:     "Kansas City Chiefs",
			Week:     i + 1,
			Stat:     domain.StatReceivingYards,
			Value:    v,
			HomeGame: i%2 == 0,
		})
	}
	return history.Build(records, history.BuildOptions{}, zerolog.Nop())
}

func kelceProp(line float64, odds int) domain.PropRecord {
	return domain.PropRecord{
		Player:       "Travis Kelce",
		Team:         "Kansas City Chiefs",
		OpposingTeam: "Arizona Cardinals", // rank 1 in the fixture
		Stat:         domain.StatReceivingYards,
		Line:         line,
		Odds:         odds,
		Bookmaker:    "draftkings",
		Week:         8,
	}
}

func TestScore_WeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, weightMatchup+weightHistory+weightConsistency+weightValue, 1e-12)
}

func TestScore_CompositeIsWeightedSum(t *testing.T) {
	model := NewModel(5, zerolog.Nop())
	ranks := buildRankIndex(t)
	hist := buildHistIndex(70, 75, 80, 85, 90, 95)

	scored := model.Score(kelceProp(60.5, -110), ranks, hist)

	expected := weightMatchup*scored.MatchupScore +
		weightHistory*scored.HistoryScore +
		weightConsistency*scored.ConsistencyScore +
		weightValue*scored.ValueScore
	assert.InDelta(t, expected, scored.TotalScore, 1e-9)
	assert.GreaterOrEqual(t, scored.TotalScore, 0.0)
	assert.LessOrEqual(t, scored.TotalScore, 100.0)
}

func TestMatchupScore_RankOneIsFullStrength(t *testing.T) {
	rank := 1
	assert.InDelta(t, 100.0, matchupScore(&rank, domain.StatPassingYards), 1e-9)

	rank = 32
	assert.InDelta(t, 100.0/32.0, matchupScore(&rank, domain.StatPassingYards), 1e-9)
}

func TestMatchupScore_StatScaleDiscounts(t *testing.T) {
	rank := 1
	assert.InDelta(t, 90.0, matchupScore(&rank, domain.StatRushingYards), 1e-9)
	assert.InDelta(t, 80.0, matchupScore(&rank, domain.StatPassingTDs), 1e-9)
	assert.InDelta(t, 80.0, matchupScore(&rank, domain.StatReceivingTDs), 1e-9)
	assert.InDelta(t, 100.0, matchupScore(&rank, domain.StatReceptions), 1e-9)
}

func TestMatchupScore_UnknownRankIsNeutral(t *testing.T) {
	assert.Equal(t, neutralScore, matchupScore(nil, domain.StatPassingYards))
}

func TestHistoryScore_LineRatioAdjustments(t *testing.T) {
	rate := 0.5
	avg := 100.0

	// Line far under the average is a bonus, far over a penalty.
	assert.InDelta(t, 70.0, historyScore(&rate, nil, &avg, 70), 1e-9)  // ratio 0.7 -> +20
	assert.InDelta(t, 60.0, historyScore(&rate, nil, &avg, 90), 1e-9)  // ratio 0.9 -> +10
	assert.InDelta(t, 50.0, historyScore(&rate, nil, &avg, 110), 1e-9) // ratio 1.1 -> +0
	assert.InDelta(t, 30.0, historyScore(&rate, nil, &avg, 130), 1e-9) // ratio 1.3 -> -20
}

func TestHistoryScore_ClampedToRange(t *testing.T) {
	high := 0.95
	low := 0.05
	avg := 100.0

	assert.InDelta(t, 100.0, historyScore(&high, nil, &avg, 70), 1e-9)
	assert.InDelta(t, 0.0, historyScore(&low, nil, &avg, 130), 1e-9)
}

func TestHistoryScore_RecentFormWeighsMore(t *testing.T) {
	season := 0.5
	hot := 1.0
	cold := 0.0

	assert.Greater(t, historyScore(&season, &hot, nil, 50), historyScore(&season, nil, nil, 50))
	assert.Less(t, historyScore(&season, &cold, nil, 50), historyScore(&season, nil, nil, 50))
}

func TestHistoryScore_UnknownRateIsNeutral(t *testing.T) {
	assert.Equal(t, neutralScore, historyScore(nil, nil, nil, 50))
}

func TestConsistencyScore_Tiers(t *testing.T) {
	avg := 100.0

	assert.Equal(t, 90.0, consistencyScore(5, true, &avg))
	assert.Equal(t, 80.0, consistencyScore(15, true, &avg))
	assert.Equal(t, 70.0, consistencyScore(25, true, &avg))
	assert.Equal(t, 60.0, consistencyScore(45, true, &avg))
	assert.Equal(t, 40.0, consistencyScore(60, true, &avg))
}

func TestConsistencyScore_UnknownInputsAreNeutral(t *testing.T) {
	avg := 100.0
	zero := 0.0

	assert.Equal(t, neutralScore, consistencyScore(0, false, &avg))
	assert.Equal(t, neutralScore, consistencyScore(10, true, nil))
	assert.Equal(t, neutralScore, consistencyScore(10, true, &zero))
}

func TestValueScore_Tiers(t *testing.T) {
	// -110 implies ~52.4%; an 80% over rate is a large positive edge.
	hot := 0.8
	assert.Equal(t, 90.0, valueScore(-110, &hot))

	// A 20% over rate against the same price is a large negative edge.
	cold := 0.2
	assert.Equal(t, 30.0, valueScore(-110, &cold))

	// Break-even: win probability equal to the implied probability.
	fair := 110.0 / 210.0
	assert.Equal(t, 50.0, valueScore(-110, &fair))
}

func TestValueScore_MissingOddsOrRateIsNeutral(t *testing.T) {
	rate := 0.8
	assert.Equal(t, neutralScore, valueScore(0, &rate))
	assert.Equal(t, neutralScore, valueScore(-110, nil))
}

func TestScore_UnknownStatsStayNilWhileSubScoresNeutral(t *testing.T) {
	model := NewModel(5, zerolog.Nop())

	// No ranking data, no history: the prop still scores, every sub-score is
	// neutral, and no statistic is fabricated.
	scored := model.Score(kelceProp(60.5, -110), nil, nil)

	assert.Nil(t, scored.OpponentRank)
	assert.Nil(t, scored.SeasonOverRate)
	assert.Nil(t, scored.HomeOverRate)
	assert.Nil(t, scored.AwayOverRate)
	assert.Nil(t, scored.RollingOverRate)
	assert.Nil(t, scored.SeasonAverage)
	assert.Zero(t, scored.Streak)

	assert.Equal(t, neutralScore, scored.MatchupScore)
	assert.Equal(t, neutralScore, scored.HistoryScore)
	assert.Equal(t, neutralScore, scored.ConsistencyScore)
	assert.Equal(t, neutralScore, scored.ValueScore)
	assert.InDelta(t, neutralScore, scored.TotalScore, 1e-9)
	assert.Equal(t, domain.ConfidenceLow, scored.Confidence)
	assert.NotEmpty(t, scored.Analysis)
}

func TestScore_PopulatesDerivedStatistics(t *testing.T) {
	model := NewModel(5, zerolog.Nop())
	ranks := buildRankIndex(t)
	hist := buildHistIndex(70, 75, 80, 85, 90, 95)

	scored := model.Score(kelceProp(60.5, -110), ranks, hist)

	require.NotNil(t, scored.OpponentRank)
	assert.Equal(t, 1, *scored.OpponentRank)
	require.NotNil(t, scored.SeasonOverRate)
	assert.Equal(t, 1.0, *scored.SeasonOverRate)
	require.NotNil(t, scored.SeasonAverage)
	assert.InDelta(t, 82.5, *scored.SeasonAverage, 1e-9)
	assert.Equal(t, 6, scored.Streak)
}

func TestConfidence_SignalCounting(t *testing.T) {
	decisive := 0.8
	middling := 0.5
	extremeRank := 2
	midRank := 16

	assert.Equal(t, domain.ConfidenceHigh, confidence(&decisive, &extremeRank, 10, true))
	assert.Equal(t, domain.ConfidenceMedium, confidence(&decisive, &extremeRank, 40, true))
	assert.Equal(t, domain.ConfidenceMedium, confidence(&decisive, &midRank, 10, true))
	assert.Equal(t, domain.ConfidenceLow, confidence(&middling, &midRank, 40, true))
	assert.Equal(t, domain.ConfidenceLow, confidence(nil, nil, 0, false))
}

func TestScoreAll_SkipsMalformedProps(t *testing.T) {
	model := NewModel(5, zerolog.Nop())
	ranks := buildRankIndex(t)
	hist := buildHistIndex(70, 75, 80)

	props := []domain.PropRecord{
		kelceProp(60.5, -110),
		{Player: "", Stat: domain.StatReceivingYards, Line: 50}, // malformed
	}

	scored := model.ScoreAll(props, ranks, hist)
	require.Len(t, scored, 1)
	assert.Equal(t, "Travis Kelce", scored[0].Player)
}

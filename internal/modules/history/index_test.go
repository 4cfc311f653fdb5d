package history

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/propsage/internal/domain"
)

func rec(player string, week int, stat domain.StatType, value float64, home bool) domain.GameStatRecord {
	return domain.GameStatRecord{
		Player:   player,
		Team:     "Kansas City Chiefs",
		Week:     week,
		Stat:     stat,
		Value:    value,
		HomeGame: home,
	}
}

func TestBuild_SeriesSortedAndDeduplicated(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 3, domain.StatReceivingYards, 71, true),
		rec("Travis Kelce", 1, domain.StatReceivingYards, 90, false),
		rec("Travis Kelce", 2, domain.StatReceivingYards, 45, true),
		// Re-ingested week 2 row supersedes the earlier one.
		rec("Travis Kelce", 2, domain.StatReceivingYards, 55, true),
	}, BuildOptions{}, zerolog.Nop())

	games := idx.LastN("Travis Kelce", domain.StatReceivingYards, 10)
	require.Len(t, games, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{games[0].Week, games[1].Week, games[2].Week})
	assert.Equal(t, 55.0, games[1].Value)
}

func TestBuild_MalformedRecordsSkippedNotFatal(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 90, false),
		{Player: "", Week: 2, Stat: domain.StatReceivingYards, Value: 50},
		{Player: "Travis Kelce", Week: 0, Stat: domain.StatReceivingYards, Value: 50},
		{Player: "Travis Kelce", Week: 3, Stat: domain.StatType("Sack Yards"), Value: 50},
	}, BuildOptions{}, zerolog.Nop())

	assert.Equal(t, 1, idx.GamesPlayed("Travis Kelce", domain.StatReceivingYards))
}

func TestBuild_MaxWeekExcludesCurrentAndLaterWeeks(t *testing.T) {
	records := []domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 90, false),
		rec("Travis Kelce", 2, domain.StatReceivingYards, 45, true),
		rec("Travis Kelce", 3, domain.StatReceivingYards, 71, true),
	}

	asOf := Build(records, BuildOptions{MaxWeek: 3}, zerolog.Nop())
	assert.Equal(t, 2, asOf.GamesPlayed("Travis Kelce", domain.StatReceivingYards))

	full := Build(records, BuildOptions{}, zerolog.Nop())
	assert.Equal(t, 3, full.GamesPlayed("Travis Kelce", domain.StatReceivingYards))
}

func TestNameNormalization_VariantsResolveToOnePlayer(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Marquise Brown", 1, domain.StatReceivingYards, 80, true),
		rec("D.J. Moore", 1, domain.StatReceivingYards, 60, true),
	}, BuildOptions{}, zerolog.Nop())

	// Alias and punctuation variants hit the same series.
	rate, ok := idx.OverRate("Hollywood Brown", domain.StatReceivingYards, 50.5)
	require.True(t, ok)
	assert.Equal(t, 1.0, rate)

	rate, ok = idx.OverRate("DJ Moore", domain.StatReceivingYards, 50.5)
	require.True(t, ok)
	assert.Equal(t, 1.0, rate)

	name, ok := idx.DisplayName("dj moore")
	require.True(t, ok)
	assert.Equal(t, "D.J. Moore", name)
}

func TestOverRate_StrictlyOverTheLine(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceptions, 6, true),
		rec("Travis Kelce", 2, domain.StatReceptions, 5, false),
		rec("Travis Kelce", 3, domain.StatReceptions, 4, true),
		rec("Travis Kelce", 4, domain.StatReceptions, 8, false),
	}, BuildOptions{}, zerolog.Nop())

	// Exactly on the line does not count as over.
	rate, ok := idx.OverRate("Travis Kelce", domain.StatReceptions, 5)
	require.True(t, ok)
	assert.InDelta(t, 0.5, rate, 1e-9)
}

func TestOverRate_UnknownPlayerReportsNotOk(t *testing.T) {
	idx := Build(nil, BuildOptions{}, zerolog.Nop())

	rate, ok := idx.OverRate("Nobody Special", domain.StatReceptions, 5.5)
	assert.False(t, ok)
	assert.Zero(t, rate)

	avg, ok := idx.Average("Nobody Special", domain.StatReceptions)
	assert.False(t, ok)
	assert.Zero(t, avg)

	_, ok = idx.Consistency("Nobody Special", domain.StatReceptions)
	assert.False(t, ok)
}

func TestHomeAwaySplits(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 90, true),
		rec("Travis Kelce", 2, domain.StatReceivingYards, 30, true),
		rec("Travis Kelce", 3, domain.StatReceivingYards, 80, false),
		rec("Travis Kelce", 4, domain.StatReceivingYards, 85, false),
	}, BuildOptions{}, zerolog.Nop())

	home, ok := idx.HomeOverRate("Travis Kelce", domain.StatReceivingYards, 60.5)
	require.True(t, ok)
	assert.InDelta(t, 0.5, home, 1e-9)

	away, ok := idx.AwayOverRate("Travis Kelce", domain.StatReceivingYards, 60.5)
	require.True(t, ok)
	assert.InDelta(t, 1.0, away, 1e-9)
}

func TestHomeOverRate_NoHomeGamesReportsNotOk(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 90, false),
	}, BuildOptions{}, zerolog.Nop())

	_, ok := idx.HomeOverRate("Travis Kelce", domain.StatReceivingYards, 60.5)
	assert.False(t, ok, "no home games must surface as unknown, not 0%")
}

func TestLastNOverRate_UsesMostRecentGames(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 10, true),
		rec("Travis Kelce", 2, domain.StatReceivingYards, 10, true),
		rec("Travis Kelce", 3, domain.StatReceivingYards, 90, true),
		rec("Travis Kelce", 4, domain.StatReceivingYards, 90, true),
		rec("Travis Kelce", 5, domain.StatReceivingYards, 90, true),
	}, BuildOptions{}, zerolog.Nop())

	rate, ok := idx.LastNOverRate("Travis Kelce", domain.StatReceivingYards, 60.5, 3)
	require.True(t, ok)
	assert.Equal(t, 1.0, rate)

	// Fewer games than requested uses what exists.
	rate, ok = idx.LastNOverRate("Travis Kelce", domain.StatReceivingYards, 60.5, 10)
	require.True(t, ok)
	assert.InDelta(t, 0.6, rate, 1e-9)
}

func TestAverageAndConsistency(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 60, true),
		rec("Travis Kelce", 2, domain.StatReceivingYards, 80, false),
		rec("Travis Kelce", 3, domain.StatReceivingYards, 100, true),
	}, BuildOptions{}, zerolog.Nop())

	avg, ok := idx.Average("Travis Kelce", domain.StatReceivingYards)
	require.True(t, ok)
	assert.InDelta(t, 80.0, avg, 1e-9)

	sd, ok := idx.Consistency("Travis Kelce", domain.StatReceivingYards)
	require.True(t, ok)
	assert.InDelta(t, 16.32993161855452, sd, 1e-9)
}

func TestConsistency_SingleGameReportsNotOk(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 60, true),
	}, BuildOptions{}, zerolog.Nop())

	_, ok := idx.Consistency("Travis Kelce", domain.StatReceivingYards)
	assert.False(t, ok)
}

func TestStreak_ConsecutiveOvers(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 40, true),
		rec("Travis Kelce", 2, domain.StatReceivingYards, 70, false),
		rec("Travis Kelce", 3, domain.StatReceivingYards, 75, true),
		rec("Travis Kelce", 4, domain.StatReceivingYards, 80, false),
	}, BuildOptions{}, zerolog.Nop())

	assert.Equal(t, 3, idx.Streak("Travis Kelce", domain.StatReceivingYards, 60.5))
}

func TestStreak_EndsAtFirstNonOver(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 90, true),
		rec("Travis Kelce", 2, domain.StatReceivingYards, 40, false),
		rec("Travis Kelce", 3, domain.StatReceivingYards, 75, true),
		rec("Travis Kelce", 4, domain.StatReceivingYards, 80, false),
	}, BuildOptions{}, zerolog.Nop())

	// The week 1 over is unreachable past the week 2 miss.
	assert.Equal(t, 2, idx.Streak("Travis Kelce", domain.StatReceivingYards, 60.5))
}

func TestStreak_TwoWeekAbsenceBreaksTheStreak(t *testing.T) {
	// Overs in weeks 2, 3, 4 and again in week 7: the two missed weeks
	// (5 and 6) sever the run, so only week 7 counts.
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 2, domain.StatReceivingYards, 70, true),
		rec("Travis Kelce", 3, domain.StatReceivingYards, 75, false),
		rec("Travis Kelce", 4, domain.StatReceivingYards, 80, true),
		rec("Travis Kelce", 7, domain.StatReceivingYards, 85, false),
	}, BuildOptions{}, zerolog.Nop())

	assert.Equal(t, 1, idx.Streak("Travis Kelce", domain.StatReceivingYards, 60.5))
}

func TestStreak_SingleMissedWeekIsTolerated(t *testing.T) {
	// Overs in weeks 2, 3, 4 and 6: one missed week (a bye or a single
	// DNP) does not break the run.
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 2, domain.StatReceivingYards, 70, true),
		rec("Travis Kelce", 3, domain.StatReceivingYards, 75, false),
		rec("Travis Kelce", 4, domain.StatReceivingYards, 80, true),
		rec("Travis Kelce", 6, domain.StatReceivingYards, 85, false),
	}, BuildOptions{}, zerolog.Nop())

	assert.Equal(t, 4, idx.Streak("Travis Kelce", domain.StatReceivingYards, 60.5))
}

func TestStreak_MostRecentGameUnderLineIsZero(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 90, true),
		rec("Travis Kelce", 2, domain.StatReceivingYards, 40, false),
	}, BuildOptions{}, zerolog.Nop())

	assert.Equal(t, 0, idx.Streak("Travis Kelce", domain.StatReceivingYards, 60.5))
}

func TestPlayerTeam_Normalized(t *testing.T) {
	idx := Build([]domain.GameStatRecord{
		rec("Travis Kelce", 1, domain.StatReceivingYards, 90, true),
	}, BuildOptions{}, zerolog.Nop())

	team, ok := idx.PlayerTeam("Travis Kelce")
	require.True(t, ok)
	assert.Equal(t, "Kansas City Chiefs", team)
}

func TestNilIndexIsSafe(t *testing.T) {
	var idx *Index

	assert.Equal(t, 0, idx.Players())
	assert.Equal(t, 0, idx.GamesPlayed("x", domain.StatReceptions))
	_, ok := idx.OverRate("x", domain.StatReceptions, 1)
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Streak("x", domain.StatReceptions, 1))
}

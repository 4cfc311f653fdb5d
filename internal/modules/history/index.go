// Package history maintains per-player per-stat game series and derives
// over rates, splits, averages, consistency and gap-aware streaks from them.
//
// Every derived statistic distinguishes "no qualifying games" from a real
// value: lookups return (value, ok) and ok=false is never replaced by a
// numeric placeholder. An index is immutable once built; staleness is handled
// by rebuilding wholesale and swapping the snapshot.
package history

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/propsage/internal/domain"
	"github.com/aristath/propsage/pkg/formulas"
)

// Game is one recorded appearance in a player's series.
type Game struct {
	Week  int
	Value float64
	Home  bool
}

// playerSeries holds one player's series per stat type plus identity data.
type playerSeries struct {
	displayName string
	team        string
	series      map[domain.StatType][]Game
}

// Index is the read-only lookup structure over all player series. Player
// lookups go through the normalization index; raw names from any source
// resolve in O(1).
type Index struct {
	players map[string]*playerSeries // keyed by cleaned name
	maxWeek int                      // 0 means unscoped
}

// BuildOptions controls index construction.
type BuildOptions struct {
	// MaxWeek, when positive, includes only games from weeks strictly before
	// it. Backtests use this to reconstruct the index as it stood before a
	// given week's games.
	MaxWeek int
}

// Build constructs an index from raw game stat records. Malformed records are
// skipped with a logged warning; they never abort the batch. Duplicate
// (player, stat, week) records are superseded by the last one seen, matching
// re-ingestion semantics.
func Build(records []domain.GameStatRecord, opts BuildOptions, log zerolog.Logger) *Index {
	log = log.With().Str("module", "history").Logger()

	idx := &Index{
		players: make(map[string]*playerSeries),
		maxWeek: opts.MaxWeek,
	}

	type seriesKey struct {
		player string
		stat   domain.StatType
	}
	latest := make(map[seriesKey]map[int]Game)

	skipped := 0
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			log.Warn().Err(err).Str("player", rec.Player).Int("week", rec.Week).Msg("Skipping malformed game stat record")
			skipped++
			continue
		}
		if opts.MaxWeek > 0 && rec.Week >= opts.MaxWeek {
			continue
		}

		cleaned := domain.CleanPlayerName(rec.Player)
		if cleaned == "" {
			skipped++
			continue
		}

		ps, ok := idx.players[cleaned]
		if !ok {
			ps = &playerSeries{
				displayName: rec.Player,
				series:      make(map[domain.StatType][]Game),
			}
			idx.players[cleaned] = ps
		}
		if rec.Team != "" {
			ps.team = domain.NormalizeTeam(rec.Team)
		}

		key := seriesKey{player: cleaned, stat: rec.Stat}
		if latest[key] == nil {
			latest[key] = make(map[int]Game)
		}
		latest[key][rec.Week] = Game{Week: rec.Week, Value: rec.Value, Home: rec.HomeGame}
	}

	for key, byWeek := range latest {
		games := make([]Game, 0, len(byWeek))
		for _, g := range byWeek {
			games = append(games, g)
		}
		sort.Slice(games, func(i, j int) bool { return games[i].Week < games[j].Week })
		idx.players[key.player].series[key.stat] = games
	}

	log.Info().
		Int("players", len(idx.players)).
		Int("records", len(records)).
		Int("skipped", skipped).
		Int("max_week", opts.MaxWeek).
		Msg("Built player history index")

	return idx
}

// seriesFor resolves a raw player name and returns the week-ascending series
// for the stat type, or nil when either is unknown.
func (idx *Index) seriesFor(player string, stat domain.StatType) []Game {
	if idx == nil {
		return nil
	}
	ps, ok := idx.players[domain.CleanPlayerName(player)]
	if !ok {
		return nil
	}
	return ps.series[stat]
}

// DisplayName returns the original (uncleaned) name the player was first
// recorded under, for presentation.
func (idx *Index) DisplayName(player string) (string, bool) {
	if idx == nil {
		return "", false
	}
	ps, ok := idx.players[domain.CleanPlayerName(player)]
	if !ok {
		return "", false
	}
	return ps.displayName, true
}

// Players returns the number of players in the index.
func (idx *Index) Players() int {
	if idx == nil {
		return 0
	}
	return len(idx.players)
}

// PlayerTeam returns the canonical team the player most recently appeared
// for.
func (idx *Index) PlayerTeam(player string) (string, bool) {
	if idx == nil {
		return "", false
	}
	ps, ok := idx.players[domain.CleanPlayerName(player)]
	if !ok || ps.team == "" {
		return "", false
	}
	return ps.team, true
}

// GamesPlayed returns how many games back the player's series for the stat
// type goes.
func (idx *Index) GamesPlayed(player string, stat domain.StatType) int {
	return len(idx.seriesFor(player, stat))
}

// OverRate returns the fraction of recorded games strictly exceeding the
// line. ok is false when the player/stat combination has no games.
func (idx *Index) OverRate(player string, stat domain.StatType, line float64) (float64, bool) {
	return overRate(idx.seriesFor(player, stat), line)
}

// HomeOverRate returns the over rate across home games only.
func (idx *Index) HomeOverRate(player string, stat domain.StatType, line float64) (float64, bool) {
	return overRate(filterHome(idx.seriesFor(player, stat), true), line)
}

// AwayOverRate returns the over rate across away games only.
func (idx *Index) AwayOverRate(player string, stat domain.StatType, line float64) (float64, bool) {
	return overRate(filterHome(idx.seriesFor(player, stat), false), line)
}

// LastNOverRate returns the over rate across the N most recent recorded
// games, regardless of week contiguity. Fewer than N games uses what exists.
func (idx *Index) LastNOverRate(player string, stat domain.StatType, line float64, n int) (float64, bool) {
	games := idx.seriesFor(player, stat)
	if len(games) == 0 || n <= 0 {
		return 0, false
	}
	if len(games) > n {
		games = games[len(games)-n:]
	}
	return overRate(games, line)
}

// Average returns the mean recorded value for the stat type.
func (idx *Index) Average(player string, stat domain.StatType) (float64, bool) {
	games := idx.seriesFor(player, stat)
	if len(games) == 0 {
		return 0, false
	}
	return formulas.Mean(values(games)), true
}

// Consistency returns the population standard deviation of the series. Lower
// is more consistent. ok is false with fewer than two games.
func (idx *Index) Consistency(player string, stat domain.StatType) (float64, bool) {
	games := idx.seriesFor(player, stat)
	if len(games) < 2 {
		return 0, false
	}
	return formulas.PopStdDev(values(games)), true
}

// Streak counts consecutive games over the line, walking most recent first.
// A single missed week between games (gap of two week numbers) is tolerated;
// two or more missed weeks (gap >= 3) end the walk. The walk also ends at the
// first game at or under the line.
func (idx *Index) Streak(player string, stat domain.StatType, line float64) int {
	games := idx.seriesFor(player, stat)
	if len(games) == 0 {
		return 0
	}

	streak := 0
	previousWeek := 0

	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		if g.Value <= line {
			break
		}
		if previousWeek != 0 && previousWeek-g.Week >= 3 {
			// Two or more weeks with no recorded game: materially absent,
			// the streak does not reach back past the break.
			break
		}
		streak++
		previousWeek = g.Week
	}

	return streak
}

// LastN returns the N most recent games, oldest first.
func (idx *Index) LastN(player string, stat domain.StatType, n int) []Game {
	games := idx.seriesFor(player, stat)
	if len(games) == 0 || n <= 0 {
		return nil
	}
	if len(games) > n {
		games = games[len(games)-n:]
	}
	out := make([]Game, len(games))
	copy(out, games)
	return out
}

func overRate(games []Game, line float64) (float64, bool) {
	if len(games) == 0 {
		return 0, false
	}
	over := 0
	for _, g := range games {
		if g.Value > line {
			over++
		}
	}
	return float64(over) / float64(len(games)), true
}

func filterHome(games []Game, home bool) []Game {
	var out []Game
	for _, g := range games {
		if g.Home == home {
			out = append(out, g)
		}
	}
	return out
}

func values(games []Game) []float64 {
	out := make([]float64, len(games))
	for i, g := range games {
		out[i] = g.Value
	}
	return out
}

// Package rankings converts raw per-team defensive counting stats into
// 1-based ranks with tie-aware averaged positions.
package rankings

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/propsage/internal/domain"
)

// Engine ranks teams by raw defensive stats. Lower raw values are better
// defenses and receive lower (better) ranks.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a new ranking engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("module", "rankings").Logger(),
	}
}

// Rank produces a 1-based rank for every team in the input. Teams with
// identical raw values form a tie run and all receive the rounded average of
// the positions the run occupies, rounding half to even. Rounding half to
// even is a convention carried from the data source, not a domain rule; the
// tests document it explicitly.
//
// Teams absent from the input never appear in the output. An empty input is a
// structural error.
func (e *Engine) Rank(raw map[string]float64) (map[string]int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("ranking input is empty")
	}

	type teamStat struct {
		team  string
		value float64
	}

	teams := make([]teamStat, 0, len(raw))
	for team, value := range raw {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("non-numeric raw value for team %q", team)
		}
		teams = append(teams, teamStat{team: team, value: value})
	}

	sort.Slice(teams, func(i, j int) bool {
		if teams[i].value != teams[j].value {
			return teams[i].value < teams[j].value
		}
		return teams[i].team < teams[j].team
	})

	ranks := make(map[string]int, len(teams))

	// Walk maximal runs of equal raw values and assign each run the rounded
	// average of its 1-based positions.
	for start := 0; start < len(teams); {
		end := start
		for end+1 < len(teams) && teams[end+1].value == teams[start].value {
			end++
		}

		// Positions start..end are 0-based; the occupied 1-based positions
		// are start+1..end+1, whose mean is (start+end)/2 + 1.
		mean := float64(start+end)/2.0 + 1.0
		rank := int(math.RoundToEven(mean))

		for i := start; i <= end; i++ {
			ranks[teams[i].team] = rank
		}
		start = end + 1
	}

	return ranks, nil
}

// RankCategory ranks a full set of defensive aggregates for one category and
// returns them with ranks filled in. Aggregates for other categories are
// ignored.
func (e *Engine) RankCategory(category domain.DefensiveCategory, aggregates []domain.TeamDefensiveAggregate) ([]domain.TeamDefensiveAggregate, error) {
	raw := make(map[string]float64)
	for _, agg := range aggregates {
		if agg.Category != category {
			continue
		}
		raw[domain.NormalizeTeam(agg.Team)] = agg.RawValue
	}

	ranks, err := e.Rank(raw)
	if err != nil {
		return nil, fmt.Errorf("ranking %s: %w", category, err)
	}

	ranked := make([]domain.TeamDefensiveAggregate, 0, len(ranks))
	for team, rank := range ranks {
		ranked = append(ranked, domain.TeamDefensiveAggregate{
			Team:     team,
			Category: category,
			RawValue: raw[team],
			Rank:     rank,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Rank != ranked[j].Rank {
			return ranked[i].Rank < ranked[j].Rank
		}
		return ranked[i].Team < ranked[j].Team
	})

	e.log.Debug().
		Str("category", string(category)).
		Int("teams", len(ranked)).
		Msg("Calculated defensive ranks")

	return ranked, nil
}

// Index holds the ranked defensive aggregates for every category, keyed by
// canonical team name. It is built wholesale and safe for concurrent reads.
type Index struct {
	ranks map[string]map[domain.DefensiveCategory]int
}

// BuildIndex ranks every category present in the aggregates and assembles the
// lookup index. Categories with no data are simply absent.
func (e *Engine) BuildIndex(aggregates []domain.TeamDefensiveAggregate) (*Index, error) {
	idx := &Index{ranks: make(map[string]map[domain.DefensiveCategory]int)}

	for _, category := range domain.AllDefensiveCategories {
		ranked, err := e.RankCategory(category, aggregates)
		if err != nil {
			// A category missing from the source data is not structural;
			// lookups against it will return unknown.
			e.log.Warn().Str("category", string(category)).Err(err).Msg("Skipping category with no rankable data")
			continue
		}
		for _, agg := range ranked {
			if idx.ranks[agg.Team] == nil {
				idx.ranks[agg.Team] = make(map[domain.DefensiveCategory]int)
			}
			idx.ranks[agg.Team][agg.Category] = agg.Rank
		}
	}

	return idx, nil
}

// DefensiveRank returns the rank of a team for the defensive category opposing
// the given stat type. ok is false when the team or category is unknown; no
// default rank is ever synthesized.
func (idx *Index) DefensiveRank(team string, stat domain.StatType) (int, bool) {
	if idx == nil {
		return 0, false
	}
	category, ok := domain.DefensiveCategoryFor(stat)
	if !ok {
		return 0, false
	}
	teamRanks, ok := idx.ranks[domain.NormalizeTeam(team)]
	if !ok {
		return 0, false
	}
	rank, ok := teamRanks[category]
	return rank, ok
}

// Teams returns the number of teams present in the index.
func (idx *Index) Teams() int {
	if idx == nil {
		return 0
	}
	return len(idx.ranks)
}

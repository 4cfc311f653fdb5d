package strategies

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/propsage/internal/domain"
	"github.com/aristath/propsage/pkg/formulas"
)

// PositionLookup resolves a player's primary position. Returning
// PositionUnknown is always acceptable.
type PositionLookup func(player string) domain.Position

// Selection is the filter output. Props is never nil; an empty selection
// always carries a human-readable Reason.
type Selection struct {
	Props  []domain.ScoredProp `json:"props"`
	Reason string              `json:"reason,omitempty"`
}

// Filter applies strategy definitions to scored props. It never propagates
// errors to the caller: anything that goes wrong yields an empty selection
// with a diagnostic reason.
type Filter struct {
	log       zerolog.Logger
	positions PositionLookup
}

// NewFilter creates a filter. positions may be nil, in which case every
// player is treated as unknown-position.
func NewFilter(positions PositionLookup, log zerolog.Logger) *Filter {
	if positions == nil {
		positions = func(string) domain.Position { return domain.PositionUnknown }
	}
	return &Filter{
		log:       log.With().Str("module", "strategies").Logger(),
		positions: positions,
	}
}

// Select applies the definition: score and odds bounds (inclusive), optional
// minimum streak, optional position-appropriateness, then sorts by score
// descending with ties broken by more favorable odds and caps at MaxPlayers.
func (f *Filter) Select(props []domain.ScoredProp, def Definition) Selection {
	if err := def.Validate(); err != nil {
		f.log.Warn().Err(err).Str("strategy", def.Key).Msg("Rejecting unusable strategy definition")
		return Selection{Props: []domain.ScoredProp{}, Reason: err.Error()}
	}

	kept := make([]domain.ScoredProp, 0, len(props))
	for _, p := range props {
		if p.TotalScore < def.ScoreMin || p.TotalScore > def.ScoreMax {
			continue
		}
		if p.Odds < def.OddsMin || p.Odds > def.OddsMax {
			continue
		}
		if def.StreakMin != nil && p.Streak < *def.StreakMin {
			continue
		}
		if def.PositionFilter && !StatAllowedForPosition(f.positions(p.Player), p.Stat) {
			continue
		}
		kept = append(kept, p)
	}

	if len(kept) == 0 {
		return Selection{Props: []domain.ScoredProp{}, Reason: criteriaRecap(def)}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].TotalScore != kept[j].TotalScore {
			return kept[i].TotalScore > kept[j].TotalScore
		}
		return kept[i].Odds > kept[j].Odds
	})

	if len(kept) > def.MaxPlayers {
		kept = kept[:def.MaxPlayers]
	}

	f.log.Debug().
		Str("strategy", def.Key).
		Int("candidates", len(props)).
		Int("selected", len(kept)).
		Msg("Applied strategy filter")

	return Selection{Props: kept}
}

// criteriaRecap renders the active criteria so an empty selection explains
// itself.
func criteriaRecap(def Definition) string {
	parts := []string{fmt.Sprintf("Score %.0f+", def.ScoreMin)}
	if !math.IsInf(def.ScoreMax, 1) {
		parts = append(parts, fmt.Sprintf("(max %.0f)", def.ScoreMax))
	}
	parts = append(parts, fmt.Sprintf("Odds %s to %s", formulas.FormatOdds(def.OddsMin), formulas.FormatOdds(def.OddsMax)))
	if def.StreakMin != nil {
		parts = append(parts, fmt.Sprintf("Streak %d+", *def.StreakMin))
	}
	if def.PositionFilter {
		parts = append(parts, "Position-appropriate only")
	}
	return "No props meet the criteria: " + strings.Join(parts, " | ")
}

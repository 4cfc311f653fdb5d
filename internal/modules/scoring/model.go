// Package scoring produces the 0-100 composite score for a prop from four
// weighted sub-scores: opponent matchup, player history, consistency and
// betting value.
package scoring

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/propsage/internal/domain"
	"github.com/aristath/propsage/internal/modules/history"
	"github.com/aristath/propsage/internal/modules/rankings"
)

// Composite weights. They sum to 1.0 so the total stays on the 0-100 scale.
const (
	weightMatchup     = 0.35
	weightHistory     = 0.30
	weightConsistency = 0.20
	weightValue       = 0.15
)

// neutralScore stands in for a sub-score whose inputs are unknown. It only
// ever replaces the sub-score; the underlying statistic on the ScoredProp
// stays nil so reports never show a fabricated number.
const neutralScore = 50.0

// Model scores props against a defensive rank index and a player history
// index.
type Model struct {
	log          zerolog.Logger
	rollingGames int
}

// NewModel creates a scoring model. rollingGames is the window for the
// recent-form over rate.
func NewModel(rollingGames int, log zerolog.Logger) *Model {
	if rollingGames <= 0 {
		rollingGames = 5
	}
	return &Model{
		log:          log.With().Str("module", "scoring").Logger(),
		rollingGames: rollingGames,
	}
}

// Score evaluates a single prop. It never fails: every unknown input
// degrades to a neutral sub-score and is reported as unknown on the result.
func (m *Model) Score(prop domain.PropRecord, ranks *rankings.Index, hist *history.Index) domain.ScoredProp {
	scored := domain.ScoredProp{PropRecord: prop}

	if rank, ok := ranks.DefensiveRank(prop.OpposingTeam, prop.Stat); ok {
		scored.OpponentRank = domain.IntPtr(rank)
	}
	if rate, ok := hist.OverRate(prop.Player, prop.Stat, prop.Line); ok {
		scored.SeasonOverRate = domain.Float64Ptr(rate)
	}
	if rate, ok := hist.HomeOverRate(prop.Player, prop.Stat, prop.Line); ok {
		scored.HomeOverRate = domain.Float64Ptr(rate)
	}
	if rate, ok := hist.AwayOverRate(prop.Player, prop.Stat, prop.Line); ok {
		scored.AwayOverRate = domain.Float64Ptr(rate)
	}
	if rate, ok := hist.LastNOverRate(prop.Player, prop.Stat, prop.Line, m.rollingGames); ok {
		scored.RollingOverRate = domain.Float64Ptr(rate)
	}
	if avg, ok := hist.Average(prop.Player, prop.Stat); ok {
		scored.SeasonAverage = domain.Float64Ptr(avg)
	}
	scored.Streak = hist.Streak(prop.Player, prop.Stat, prop.Line)

	stddev, stddevKnown := hist.Consistency(prop.Player, prop.Stat)

	scored.MatchupScore = matchupScore(scored.OpponentRank, prop.Stat)
	scored.HistoryScore = historyScore(scored.SeasonOverRate, scored.RollingOverRate, scored.SeasonAverage, prop.Line)
	scored.ConsistencyScore = consistencyScore(stddev, stddevKnown, scored.SeasonAverage)
	scored.ValueScore = valueScore(prop.Odds, scored.SeasonOverRate)

	scored.TotalScore = weightMatchup*scored.MatchupScore +
		weightHistory*scored.HistoryScore +
		weightConsistency*scored.ConsistencyScore +
		weightValue*scored.ValueScore

	scored.Confidence = confidence(scored.SeasonOverRate, scored.OpponentRank, stddev, stddevKnown)
	scored.Analysis = analysis(scored)

	return scored
}

// ScoreAll scores a batch of props against the same indexes.
func (m *Model) ScoreAll(props []domain.PropRecord, ranks *rankings.Index, hist *history.Index) []domain.ScoredProp {
	out := make([]domain.ScoredProp, 0, len(props))
	for _, prop := range props {
		if err := prop.Validate(); err != nil {
			m.log.Warn().Err(err).Str("player", prop.Player).Msg("Skipping malformed prop")
			continue
		}
		out = append(out, m.Score(prop, ranks, hist))
	}
	m.log.Debug().Int("props", len(props)).Int("scored", len(out)).Msg("Scored prop batch")
	return out
}

// confidence counts strong independent signals: a decisive season over rate,
// an extreme opponent rank, and a tight game-to-game spread. All three yield
// High, two yield Medium.
func confidence(overRate *float64, rank *int, stddev float64, stddevKnown bool) domain.Confidence {
	signals := 0
	if overRate != nil && (*overRate >= 0.7 || *overRate <= 0.3) {
		signals++
	}
	if rank != nil && (*rank <= 5 || *rank >= 28) {
		signals++
	}
	if stddevKnown && stddev < 20 {
		signals++
	}

	switch {
	case signals >= 3:
		return domain.ConfidenceHigh
	case signals >= 2:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// analysis renders a one-line human summary of the score and its strongest
// drivers.
func analysis(p domain.ScoredProp) string {
	var tier string
	switch {
	case p.TotalScore >= 80:
		tier = "Elite play"
	case p.TotalScore >= 65:
		tier = "Strong play"
	case p.TotalScore >= 50:
		tier = "Decent play"
	default:
		tier = "Weak play"
	}

	detail := ""
	if p.OpponentRank != nil {
		detail += fmt.Sprintf(", opponent ranked #%d", *p.OpponentRank)
	}
	if p.SeasonOverRate != nil {
		detail += fmt.Sprintf(", over in %.0f%% of games", *p.SeasonOverRate*100)
	}
	if p.Streak >= 2 {
		detail += fmt.Sprintf(", %d-game over streak", p.Streak)
	}

	return fmt.Sprintf("%s (%.1f)%s. Confidence: %s.", tier, p.TotalScore, detail, p.Confidence)
}

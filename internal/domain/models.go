package domain

import (
	"fmt"
	"math"
	"time"
)

// GameStatRecord is one player's recorded value for one stat category in one
// week. Records are immutable once ingested; re-ingesting a week supersedes
// its records wholesale.
type GameStatRecord struct {
	Player   string   `json:"player"`
	Team     string   `json:"team"`
	Week     int      `json:"week"`
	Stat     StatType `json:"stat"`
	Value    float64  `json:"value"`
	HomeGame bool     `json:"home_game"`
}

// Validate rejects malformed records. Validation failures are fatal to the
// individual record only; callers skip and log, they do not abort the batch.
func (r GameStatRecord) Validate() error {
	if r.Player == "" {
		return fmt.Errorf("game stat record has empty player name")
	}
	if r.Week <= 0 {
		return fmt.Errorf("game stat record for %s has non-positive week %d", r.Player, r.Week)
	}
	if !r.Stat.Valid() {
		return fmt.Errorf("game stat record for %s has unknown stat type %q", r.Player, r.Stat)
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return fmt.Errorf("game stat record for %s week %d has non-numeric value", r.Player, r.Week)
	}
	return nil
}

// TeamDefensiveAggregate is one team's raw counting value and derived rank for
// one defensive category.
type TeamDefensiveAggregate struct {
	Team     string            `json:"team"`
	Category DefensiveCategory `json:"category"`
	RawValue float64           `json:"raw_value"`
	Rank     int               `json:"rank"`
}

// PropRecord is one betting opportunity as captured from a book.
type PropRecord struct {
	Player       string     `json:"player"`
	Team         string     `json:"team"`
	OpposingTeam string     `json:"opposing_team"`
	Stat         StatType   `json:"stat"`
	Line         float64    `json:"line"`
	Odds         int        `json:"odds"` // American format
	Bookmaker    string     `json:"bookmaker"`
	Week         int        `json:"week"`
	CommenceTime time.Time  `json:"commence_time"`
	Source       PropSource `json:"source"`
}

// Validate rejects malformed prop records.
func (p PropRecord) Validate() error {
	if p.Player == "" {
		return fmt.Errorf("prop record has empty player name")
	}
	if !p.Stat.Valid() {
		return fmt.Errorf("prop record for %s has unknown stat type %q", p.Player, p.Stat)
	}
	if math.IsNaN(p.Line) || math.IsInf(p.Line, 0) {
		return fmt.Errorf("prop record for %s has non-numeric line", p.Player)
	}
	if p.Week < 0 {
		return fmt.Errorf("prop record for %s has negative week %d", p.Player, p.Week)
	}
	return nil
}

// Started reports whether the game this prop belongs to has kicked off.
func (p PropRecord) Started(now time.Time) bool {
	return !p.CommenceTime.IsZero() && !now.Before(p.CommenceTime)
}

// ScoredProp is a PropRecord augmented with matchup and history context and a
// composite score. Statistics that could not be derived are nil, never a
// plausible-looking numeric default.
type ScoredProp struct {
	PropRecord

	OpponentRank    *int     `json:"opponent_rank,omitempty"`
	SeasonOverRate  *float64 `json:"season_over_rate,omitempty"`
	HomeOverRate    *float64 `json:"home_over_rate,omitempty"`
	AwayOverRate    *float64 `json:"away_over_rate,omitempty"`
	RollingOverRate *float64 `json:"rolling_over_rate,omitempty"`
	SeasonAverage   *float64 `json:"season_average,omitempty"`
	Streak          int      `json:"streak"`

	TotalScore       float64    `json:"total_score"`
	MatchupScore     float64    `json:"matchup_score"`
	HistoryScore     float64    `json:"history_score"`
	ConsistencyScore float64    `json:"consistency_score"`
	ValueScore       float64    `json:"value_score"`
	Confidence       Confidence `json:"confidence"`
	Analysis         string     `json:"analysis"`
}

// Confidence is the discrete tier attached to a scored prop.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Float64Ptr returns a pointer to v. Helper for building optional statistics.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

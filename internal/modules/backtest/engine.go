// Package backtest replays strategy selections across historical weeks and
// aggregates parlay returns per week and per broadcast window.
package backtest

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/propsage/internal/domain"
	"github.com/aristath/propsage/internal/modules/history"
	"github.com/aristath/propsage/internal/modules/rankings"
	"github.com/aristath/propsage/internal/modules/scoring"
	"github.com/aristath/propsage/internal/modules/strategies"
	"github.com/aristath/propsage/pkg/formulas"
)

// Inputs carries the already-materialized season data a backtest runs on.
type Inputs struct {
	// Stats is the full season of box-score records. It serves double duty:
	// as-of-week history reconstruction and actual-outcome settlement.
	Stats []domain.GameStatRecord

	// Aggregates are the defensive raw counts used for matchup ranks.
	Aggregates []domain.TeamDefensiveAggregate

	// PropsByWeek holds each week's canonical prop snapshot.
	PropsByWeek map[int][]domain.PropRecord
}

// Leg is one settled parlay leg.
type Leg struct {
	Player string          `json:"player"`
	Stat   domain.StatType `json:"stat"`
	Line   float64         `json:"line"`
	Odds   int             `json:"odds"`
	Actual *float64        `json:"actual,omitempty"`
	Won    bool            `json:"won"`
}

// Parlay is one (week, window) bet: every selected leg combined at the
// product of decimal odds, staked at one unit.
type Parlay struct {
	Week        int        `json:"week"`
	Window      TimeWindow `json:"window"`
	Legs        []Leg      `json:"legs"`
	DecimalOdds float64    `json:"decimal_odds"`
	Won         bool       `json:"won"`
	ROI         float64    `json:"roi"`
}

// WeekResult aggregates one week's parlays.
type WeekResult struct {
	Week      int                    `json:"week"`
	Parlays   []Parlay               `json:"parlays"`
	WindowROI map[TimeWindow]float64 `json:"window_roi"`
	ROI       float64                `json:"roi"`
}

// Result is a full backtest for one strategy definition.
type Result struct {
	Strategy     string                 `json:"strategy"`
	Weeks        []WeekResult           `json:"weeks"`
	WindowTotals map[TimeWindow]float64 `json:"window_totals"`
	TotalROI     float64                `json:"total_roi"`
}

// Engine replays strategies over historical weeks.
type Engine struct {
	log             zerolog.Logger
	model           *scoring.Model
	filter          *strategies.Filter
	rankEngine      *rankings.Engine
	minEligibleWeek int
}

// NewEngine creates a backtest engine. Weeks below minEligibleWeek are
// excluded: early weeks lack the history depth that streak and over-rate
// signals need.
func NewEngine(model *scoring.Model, filter *strategies.Filter, rankEngine *rankings.Engine, minEligibleWeek int, log zerolog.Logger) *Engine {
	return &Engine{
		log:             log.With().Str("module", "backtest").Logger(),
		model:           model,
		filter:          filter,
		rankEngine:      rankEngine,
		minEligibleWeek: minEligibleWeek,
	}
}

// Run backtests one strategy definition over the requested weeks. A failure
// in one week is logged with (strategy, week) context and contributes zero;
// the remaining weeks still run.
func (e *Engine) Run(def strategies.Definition, weeks []int, inputs Inputs) (Result, error) {
	if err := def.Validate(); err != nil {
		return Result{}, fmt.Errorf("backtest aborted: %w", err)
	}

	rankIndex, err := e.rankEngine.BuildIndex(inputs.Aggregates)
	if err != nil {
		return Result{}, fmt.Errorf("backtest aborted: %w", err)
	}

	actuals := actualOutcomes(inputs.Stats)

	result := Result{
		Strategy:     def.Key,
		WindowTotals: make(map[TimeWindow]float64),
	}

	sorted := append([]int(nil), weeks...)
	sort.Ints(sorted)

	for _, week := range sorted {
		if week < e.minEligibleWeek {
			e.log.Debug().Str("strategy", def.Key).Int("week", week).Msg("Week below eligibility threshold, skipped")
			continue
		}

		weekResult, err := e.runWeek(def, week, inputs, rankIndex, actuals)
		if err != nil {
			e.log.Error().Err(err).Str("strategy", def.Key).Int("week", week).Msg("Backtest week failed, contributing zero")
			continue
		}

		result.Weeks = append(result.Weeks, weekResult)
		result.TotalROI += weekResult.ROI
		for window, roi := range weekResult.WindowROI {
			result.WindowTotals[window] += roi
		}
	}

	e.log.Info().
		Str("strategy", def.Key).
		Int("weeks", len(result.Weeks)).
		Float64("total_roi", result.TotalROI).
		Msg("Backtest complete")

	return result, nil
}

// RunAll backtests every built-in strategy. Per-strategy failures are
// isolated the same way per-week failures are.
func (e *Engine) RunAll(weeks []int, inputs Inputs) []Result {
	var results []Result
	for _, def := range strategies.BuiltIn() {
		result, err := e.Run(def, weeks, inputs)
		if err != nil {
			e.log.Error().Err(err).Str("strategy", def.Key).Msg("Backtest strategy failed, skipped")
			continue
		}
		results = append(results, result)
	}
	return results
}

func (e *Engine) runWeek(def strategies.Definition, week int, inputs Inputs, rankIndex *rankings.Index, actuals map[outcomeKey]float64) (weekResult WeekResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("week %d panicked: %v", week, r)
		}
	}()

	weekResult = WeekResult{Week: week, WindowROI: make(map[TimeWindow]float64)}

	props := inputs.PropsByWeek[week]
	if len(props) == 0 {
		return weekResult, nil
	}

	// History as the scorer would have seen it before this week's games.
	asOf := history.Build(inputs.Stats, history.BuildOptions{MaxWeek: week}, e.log)
	scoredProps := e.model.ScoreAll(props, rankIndex, asOf)

	buckets := make(map[TimeWindow][]domain.ScoredProp)
	for _, p := range scoredProps {
		buckets[ClassifyWindow(p.CommenceTime)] = append(buckets[ClassifyWindow(p.CommenceTime)], p)
	}

	for window, bucket := range buckets {
		selection := e.filter.Select(bucket, def)
		if len(selection.Props) == 0 {
			continue
		}

		parlay := settleParlay(week, window, selection.Props, actuals)
		weekResult.Parlays = append(weekResult.Parlays, parlay)
		weekResult.ROI += parlay.ROI
		if window != WindowNone {
			weekResult.WindowROI[window] = parlay.ROI
		}
	}

	sort.Slice(weekResult.Parlays, func(i, j int) bool {
		return weekResult.Parlays[i].Window < weekResult.Parlays[j].Window
	})

	return weekResult, nil
}

// settleParlay combines the selected legs into one parlay and settles it
// against actual outcomes. A leg with no recorded actual settles as a loss:
// a player who never posted a stat line did not clear it.
func settleParlay(week int, window TimeWindow, legs []domain.ScoredProp, actuals map[outcomeKey]float64) Parlay {
	parlay := Parlay{Week: week, Window: window, Won: true}

	var legOdds []int
	for _, p := range legs {
		leg := Leg{
			Player: p.Player,
			Stat:   p.Stat,
			Line:   p.Line,
			Odds:   p.Odds,
		}
		if actual, ok := actuals[outcomeKey{player: domain.CleanPlayerName(p.Player), stat: p.Stat, week: week}]; ok {
			leg.Actual = domain.Float64Ptr(actual)
			leg.Won = actual > p.Line
		}
		if !leg.Won {
			parlay.Won = false
		}
		parlay.Legs = append(parlay.Legs, leg)
		legOdds = append(legOdds, p.Odds)
	}

	parlay.DecimalOdds = formulas.ParlayDecimal(legOdds)
	if parlay.Won {
		parlay.ROI = parlay.DecimalOdds - 1.0
	} else {
		parlay.ROI = -1.0
	}
	return parlay
}

type outcomeKey struct {
	player string
	stat   domain.StatType
	week   int
}

func actualOutcomes(stats []domain.GameStatRecord) map[outcomeKey]float64 {
	actuals := make(map[outcomeKey]float64, len(stats))
	for _, rec := range stats {
		if rec.Validate() != nil {
			continue
		}
		actuals[outcomeKey{player: domain.CleanPlayerName(rec.Player), stat: rec.Stat, week: rec.Week}] = rec.Value
	}
	return actuals
}

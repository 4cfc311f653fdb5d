package scoring

import (
	"github.com/aristath/propsage/internal/domain"
	"github.com/aristath/propsage/pkg/formulas"
)

// statScale discounts the matchup signal for categories where defensive rank
// predicts less: rushing yardage a little, touchdown props a lot.
func statScale(stat domain.StatType) float64 {
	switch stat {
	case domain.StatPassingTDs, domain.StatRushingTDs, domain.StatReceivingTDs:
		return 0.8
	case domain.StatRushingYards:
		return 0.9
	default:
		return 1.0
	}
}

// matchupScore maps the opponent's defensive rank (1 = stingiest of 32) onto
// 0-100, higher for weaker defenses, then applies the per-stat scale.
func matchupScore(rank *int, stat domain.StatType) float64 {
	if rank == nil {
		return neutralScore
	}
	base := (float64(32-*rank+1) / 32.0) * 100.0
	return base * statScale(stat)
}

// historyScore starts from a blend of the season and recent-form over rates,
// weighted toward recent form, and adjusts for how the line sits relative to
// the player's average: a line well under the average is a bonus, a line
// above it a penalty.
func historyScore(seasonRate, rollingRate, average *float64, line float64) float64 {
	var rate float64
	switch {
	case seasonRate != nil && rollingRate != nil:
		rate = 0.4**seasonRate + 0.6**rollingRate
	case seasonRate != nil:
		rate = *seasonRate
	default:
		return neutralScore
	}

	score := rate * 100.0

	if average != nil && *average > 0 {
		switch ratio := line / *average; {
		case ratio < 0.8:
			score += 20
		case ratio < 1.0:
			score += 10
		case ratio < 1.2:
			// line near the average, no adjustment
		default:
			score -= 20
		}
	}

	return clamp(score, 0, 100)
}

// consistencyScore tiers the coefficient of variation of the player's series.
// Tighter spread scores higher. Without a usable average the signal is
// neutral.
func consistencyScore(stddev float64, stddevKnown bool, average *float64) float64 {
	if !stddevKnown || average == nil || *average == 0 {
		return neutralScore
	}

	switch cv := stddev / *average; {
	case cv < 0.1:
		return 90
	case cv < 0.2:
		return 80
	case cv < 0.3:
		return 70
	case cv < 0.5:
		return 60
	default:
		return 40
	}
}

// valueScore tiers the expected value of a one-unit bet, using the season
// over rate as the win probability estimate against the book's implied
// probability. Missing odds or an unknown over rate are neutral.
func valueScore(odds int, overRate *float64) float64 {
	if odds == 0 || overRate == nil {
		return neutralScore
	}

	ev := formulas.ExpectedValue(*overRate, formulas.ImpliedProbability(odds))

	switch {
	case ev > 0.2:
		return 90
	case ev > 0.1:
		return 80
	case ev > 0.05:
		return 70
	case ev > 0:
		return 60
	case ev > -0.05:
		return 50
	default:
		return 30
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

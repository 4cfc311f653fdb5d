// Package formulas provides the statistical and betting-math primitives shared
// across modules.
package formulas

import "fmt"

// ImpliedProbability converts American odds to the book's implied win probability.
// Returns 0 for odds of 0 (no price available).
func ImpliedProbability(odds int) float64 {
	if odds == 0 {
		return 0
	}
	if odds > 0 {
		return 100.0 / (float64(odds) + 100.0)
	}
	a := float64(-odds)
	return a / (a + 100.0)
}

// AmericanToDecimal converts American odds to decimal (European) odds.
// Returns 1.0 for odds of 0, which contributes nothing to a parlay product.
func AmericanToDecimal(odds int) float64 {
	if odds == 0 {
		return 1.0
	}
	if odds > 0 {
		return 1.0 + float64(odds)/100.0
	}
	return 1.0 + 100.0/float64(-odds)
}

// DecimalToAmerican converts decimal odds back to American format.
// Decimal odds at or below 1.0 have no American representation and yield 0.
func DecimalToAmerican(decimal float64) int {
	if decimal <= 1.0 {
		return 0
	}
	if decimal >= 2.0 {
		return int((decimal - 1.0) * 100.0)
	}
	return int(-100.0 / (decimal - 1.0))
}

// ParlayDecimal multiplies the decimal odds of every leg into the combined
// parlay price.
func ParlayDecimal(legOdds []int) float64 {
	product := 1.0
	for _, odds := range legOdds {
		product *= AmericanToDecimal(odds)
	}
	return product
}

// ExpectedValue computes the expected return of a one-unit bet given the
// bettor's estimated win probability and the book's implied probability.
func ExpectedValue(winProbability, impliedProbability float64) float64 {
	if impliedProbability <= 0 {
		return 0
	}
	return winProbability*(1.0/impliedProbability-1.0) - (1.0 - winProbability)
}

// FormatOdds renders American odds with the conventional leading sign.
func FormatOdds(odds int) string {
	if odds > 0 {
		return fmt.Sprintf("+%d", odds)
	}
	return fmt.Sprintf("%d", odds)
}

// Package strategies holds the declarative selection criteria applied to
// scored props and the filter that executes them.
package strategies

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/aristath/propsage/internal/domain"
)

// Definition is one named criteria set. Score and odds bounds are inclusive.
// StreakMin is optional; nil means no streak requirement.
type Definition struct {
	Key            string   `json:"key"`
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	ScoreMin       float64  `json:"score_min"`
	ScoreMax       float64  `json:"score_max"` // +Inf means unbounded
	OddsMin        int      `json:"odds_min"`
	OddsMax        int      `json:"odds_max"`
	StreakMin      *int     `json:"streak_min,omitempty"`
	MaxPlayers     int      `json:"max_players"`
	PositionFilter bool     `json:"position_filter"`
}

// definitionJSON is the wire form of Definition. An unbounded score maximum
// travels as a null score_max, since JSON has no encoding for +Inf.
type definitionJSON struct {
	Key            string   `json:"key"`
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	ScoreMin       float64  `json:"score_min"`
	ScoreMax       *float64 `json:"score_max"`
	OddsMin        int      `json:"odds_min"`
	OddsMax        int      `json:"odds_max"`
	StreakMin      *int     `json:"streak_min,omitempty"`
	MaxPlayers     int      `json:"max_players"`
	PositionFilter bool     `json:"position_filter"`
}

// MarshalJSON encodes an unbounded score maximum as null.
func (d Definition) MarshalJSON() ([]byte, error) {
	wire := definitionJSON{
		Key:            d.Key,
		Name:           d.Name,
		Version:        d.Version,
		ScoreMin:       d.ScoreMin,
		OddsMin:        d.OddsMin,
		OddsMax:        d.OddsMax,
		StreakMin:      d.StreakMin,
		MaxPlayers:     d.MaxPlayers,
		PositionFilter: d.PositionFilter,
	}
	if !math.IsInf(d.ScoreMax, 1) {
		wire.ScoreMax = &d.ScoreMax
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a null or omitted score_max as unbounded.
func (d *Definition) UnmarshalJSON(data []byte) error {
	var wire definitionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*d = Definition{
		Key:            wire.Key,
		Name:           wire.Name,
		Version:        wire.Version,
		ScoreMin:       wire.ScoreMin,
		ScoreMax:       math.Inf(1),
		OddsMin:        wire.OddsMin,
		OddsMax:        wire.OddsMax,
		StreakMin:      wire.StreakMin,
		MaxPlayers:     wire.MaxPlayers,
		PositionFilter: wire.PositionFilter,
	}
	if wire.ScoreMax != nil {
		d.ScoreMax = *wire.ScoreMax
	}
	return nil
}

// Validate rejects structurally unusable definitions.
func (d Definition) Validate() error {
	if d.MaxPlayers <= 0 {
		return fmt.Errorf("strategy %q has non-positive max players", d.Key)
	}
	if d.ScoreMin > d.ScoreMax {
		return fmt.Errorf("strategy %q has score min above score max", d.Key)
	}
	if d.OddsMin > d.OddsMax {
		return fmt.Errorf("strategy %q has odds min above odds max", d.Key)
	}
	if math.IsNaN(d.ScoreMin) || math.IsNaN(d.ScoreMax) {
		return fmt.Errorf("strategy %q has non-numeric score bounds", d.Key)
	}
	return nil
}

// BuiltIn returns the six stock strategy definitions, v1 and v2 variants of
// Optimal, Greasy and Degen.
func BuiltIn() []Definition {
	return []Definition{
		{
			Key: "v1_Optimal", Name: "Optimal", Version: "v1",
			ScoreMin: 70, ScoreMax: math.Inf(1),
			OddsMin: -400, OddsMax: -150,
			MaxPlayers: 5,
		},
		{
			Key: "v1_Greasy", Name: "Greasy", Version: "v1",
			ScoreMin: 50, ScoreMax: 70,
			OddsMin: -400, OddsMax: -150,
			MaxPlayers: 5,
		},
		{
			Key: "v1_Degen", Name: "Degen", Version: "v1",
			ScoreMin: 0, ScoreMax: 50,
			OddsMin: -400, OddsMax: -150,
			MaxPlayers: 5,
		},
		{
			Key: "v2_Optimal", Name: "Optimal v2", Version: "v2",
			ScoreMin: 75, ScoreMax: math.Inf(1),
			OddsMin: -300, OddsMax: -150,
			StreakMin: domain.IntPtr(3), MaxPlayers: 4,
			PositionFilter: true,
		},
		{
			Key: "v2_Greasy", Name: "Greasy v2", Version: "v2",
			ScoreMin: 65, ScoreMax: 80,
			OddsMin: -300, OddsMax: -150,
			StreakMin: domain.IntPtr(2), MaxPlayers: 6,
			PositionFilter: true,
		},
		{
			Key: "v2_Degen", Name: "Degen v2", Version: "v2",
			ScoreMin: 70, ScoreMax: 100,
			OddsMin: 0, OddsMax: 200,
			MaxPlayers: 3,
		},
	}
}

// ByKey looks up a built-in definition.
func ByKey(key string) (Definition, bool) {
	for _, def := range BuiltIn() {
		if def.Key == key {
			return def, true
		}
	}
	return Definition{}, false
}

// allowedStatsByPosition is the explicit stat-appropriateness table. A
// position only bets its primary role: QB passing, RB rushing, WR/TE
// receiving. Secondary-role props (a quarterback's rushing yards, a running
// back's receptions) are excluded as less predictable.
var allowedStatsByPosition = map[domain.Position]map[domain.StatType]bool{
	domain.PositionQB: {
		domain.StatPassingYards: true,
		domain.StatPassingTDs:   true,
	},
	domain.PositionRB: {
		domain.StatRushingYards: true,
		domain.StatRushingTDs:   true,
	},
	domain.PositionWR: {
		domain.StatReceivingYards: true,
		domain.StatReceivingTDs:   true,
		domain.StatReceptions:     true,
	},
	domain.PositionTE: {
		domain.StatReceivingYards: true,
		domain.StatReceivingTDs:   true,
		domain.StatReceptions:     true,
	},
}

// StatAllowedForPosition reports whether a stat category is a primary role
// for the position. Players with an unknown position always pass; position
// data is an enrichment, not a requirement.
func StatAllowedForPosition(pos domain.Position, stat domain.StatType) bool {
	allowed, ok := allowedStatsByPosition[pos]
	if !ok {
		return true
	}
	return allowed[stat]
}

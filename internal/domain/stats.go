// Package domain defines the core types shared by every module: stat
// categories, player positions, game records, prop records and their scored
// form.
package domain

// StatType is a closed enumeration of the player stat categories props are
// written against.
type StatType string

const (
	StatPassingYards   StatType = "Passing Yards"
	StatPassingTDs     StatType = "Passing TDs"
	StatRushingYards   StatType = "Rushing Yards"
	StatRushingTDs     StatType = "Rushing TDs"
	StatReceptions     StatType = "Receptions"
	StatReceivingYards StatType = "Receiving Yards"
	StatReceivingTDs   StatType = "Receiving TDs"
)

// AllStatTypes lists every known stat category.
var AllStatTypes = []StatType{
	StatPassingYards,
	StatPassingTDs,
	StatRushingYards,
	StatRushingTDs,
	StatReceptions,
	StatReceivingYards,
	StatReceivingTDs,
}

// Valid reports whether the stat type is one of the known categories.
func (s StatType) Valid() bool {
	for _, t := range AllStatTypes {
		if s == t {
			return true
		}
	}
	return false
}

// DefensiveCategory is a closed enumeration of the per-team defensive
// aggregates teams are ranked on.
type DefensiveCategory string

const (
	DefPassingYardsAllowed DefensiveCategory = "Passing Yards Allowed"
	DefPassingTDsAllowed   DefensiveCategory = "Passing TDs Allowed"
	DefRushingYardsAllowed DefensiveCategory = "Rushing Yards Allowed"
	DefRushingTDsAllowed   DefensiveCategory = "Rushing TDs Allowed"
)

// AllDefensiveCategories lists every ranked defensive category.
var AllDefensiveCategories = []DefensiveCategory{
	DefPassingYardsAllowed,
	DefPassingTDsAllowed,
	DefRushingYardsAllowed,
	DefRushingTDsAllowed,
}

// defensiveCategoryByStat maps each offensive stat category to the defensive
// aggregate that opposes it. There is no separate receiving defense in the
// source data, so receiving stats use the passing defense as a proxy.
var defensiveCategoryByStat = map[StatType]DefensiveCategory{
	StatPassingYards:   DefPassingYardsAllowed,
	StatPassingTDs:     DefPassingTDsAllowed,
	StatRushingYards:   DefRushingYardsAllowed,
	StatRushingTDs:     DefRushingTDsAllowed,
	StatReceptions:     DefPassingYardsAllowed,
	StatReceivingYards: DefPassingYardsAllowed,
	StatReceivingTDs:   DefPassingTDsAllowed,
}

// DefensiveCategoryFor returns the defensive category a stat type is matched
// against when evaluating an opponent.
func DefensiveCategoryFor(stat StatType) (DefensiveCategory, bool) {
	cat, ok := defensiveCategoryByStat[stat]
	return cat, ok
}

// Position is a closed enumeration of offensive player positions.
type Position string

const (
	PositionQB      Position = "QB"
	PositionRB      Position = "RB"
	PositionWR      Position = "WR"
	PositionTE      Position = "TE"
	PositionUnknown Position = ""
)

// PropSource distinguishes a point-in-time live capture from the canonical
// pre-game snapshot.
type PropSource string

const (
	SourceLive      PropSource = "live"
	SourceCanonical PropSource = "canonical"
)

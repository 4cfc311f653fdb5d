package domain

import "strings"

// canonicalTeams lists the 32 canonical franchise names.
var canonicalTeams = []string{
	"Arizona Cardinals", "Atlanta Falcons", "Baltimore Ravens", "Buffalo Bills",
	"Carolina Panthers", "Chicago Bears", "Cincinnati Bengals", "Cleveland Browns",
	"Dallas Cowboys", "Denver Broncos", "Detroit Lions", "Green Bay Packers",
	"Houston Texans", "Indianapolis Colts", "Jacksonville Jaguars", "Kansas City Chiefs",
	"Las Vegas Raiders", "Los Angeles Chargers", "Los Angeles Rams", "Miami Dolphins",
	"Minnesota Vikings", "New England Patriots", "New Orleans Saints", "New York Giants",
	"New York Jets", "Philadelphia Eagles", "Pittsburgh Steelers", "San Francisco 49ers",
	"Seattle Seahawks", "Tampa Bay Buccaneers", "Tennessee Titans", "Washington Commanders",
}

// teamAliases maps every known variant (nickname, abbreviation, legacy
// franchise name) to the canonical full name. Keys are lowercase.
var teamAliases = map[string]string{
	// Nicknames
	"cardinals": "Arizona Cardinals", "falcons": "Atlanta Falcons",
	"ravens": "Baltimore Ravens", "bills": "Buffalo Bills",
	"panthers": "Carolina Panthers", "bears": "Chicago Bears",
	"bengals": "Cincinnati Bengals", "browns": "Cleveland Browns",
	"cowboys": "Dallas Cowboys", "broncos": "Denver Broncos",
	"lions": "Detroit Lions", "packers": "Green Bay Packers",
	"texans": "Houston Texans", "colts": "Indianapolis Colts",
	"jaguars": "Jacksonville Jaguars", "chiefs": "Kansas City Chiefs",
	"raiders": "Las Vegas Raiders", "chargers": "Los Angeles Chargers",
	"rams": "Los Angeles Rams", "dolphins": "Miami Dolphins",
	"vikings": "Minnesota Vikings", "patriots": "New England Patriots",
	"saints": "New Orleans Saints", "giants": "New York Giants",
	"jets": "New York Jets", "eagles": "Philadelphia Eagles",
	"steelers": "Pittsburgh Steelers", "49ers": "San Francisco 49ers",
	"niners": "San Francisco 49ers", "seahawks": "Seattle Seahawks",
	"buccaneers": "Tampa Bay Buccaneers", "bucs": "Tampa Bay Buccaneers",
	"titans": "Tennessee Titans", "commanders": "Washington Commanders",

	// Abbreviations
	"ari": "Arizona Cardinals", "atl": "Atlanta Falcons", "bal": "Baltimore Ravens",
	"buf": "Buffalo Bills", "car": "Carolina Panthers", "chi": "Chicago Bears",
	"cin": "Cincinnati Bengals", "cle": "Cleveland Browns", "dal": "Dallas Cowboys",
	"den": "Denver Broncos", "det": "Detroit Lions", "gb": "Green Bay Packers",
	"hou": "Houston Texans", "ind": "Indianapolis Colts", "jax": "Jacksonville Jaguars",
	"jac": "Jacksonville Jaguars", "kc": "Kansas City Chiefs", "lv": "Las Vegas Raiders",
	"lac": "Los Angeles Chargers", "lar": "Los Angeles Rams", "mia": "Miami Dolphins",
	"min": "Minnesota Vikings", "ne": "New England Patriots", "no": "New Orleans Saints",
	"nyg": "New York Giants", "nyj": "New York Jets", "phi": "Philadelphia Eagles",
	"pit": "Pittsburgh Steelers", "sf": "San Francisco 49ers", "sea": "Seattle Seahawks",
	"tb": "Tampa Bay Buccaneers", "ten": "Tennessee Titans", "was": "Washington Commanders",
	"wsh": "Washington Commanders",

	// Legacy franchise names
	"oakland raiders":       "Las Vegas Raiders",
	"san diego chargers":    "Los Angeles Chargers",
	"st. louis rams":        "Los Angeles Rams",
	"washington redskins":   "Washington Commanders",
	"washington football team": "Washington Commanders",
}

// teamAbbreviations maps canonical full names to their common abbreviation.
var teamAbbreviations = map[string]string{
	"Arizona Cardinals": "ARI", "Atlanta Falcons": "ATL", "Baltimore Ravens": "BAL",
	"Buffalo Bills": "BUF", "Carolina Panthers": "CAR", "Chicago Bears": "CHI",
	"Cincinnati Bengals": "CIN", "Cleveland Browns": "CLE", "Dallas Cowboys": "DAL",
	"Denver Broncos": "DEN", "Detroit Lions": "DET", "Green Bay Packers": "GB",
	"Houston Texans": "HOU", "Indianapolis Colts": "IND", "Jacksonville Jaguars": "JAX",
	"Kansas City Chiefs": "KC", "Las Vegas Raiders": "LV", "Los Angeles Chargers": "LAC",
	"Los Angeles Rams": "LAR", "Miami Dolphins": "MIA", "Minnesota Vikings": "MIN",
	"New England Patriots": "NE", "New Orleans Saints": "NO", "New York Giants": "NYG",
	"New York Jets": "NYJ", "Philadelphia Eagles": "PHI", "Pittsburgh Steelers": "PIT",
	"San Francisco 49ers": "SF", "Seattle Seahawks": "SEA", "Tampa Bay Buccaneers": "TB",
	"Tennessee Titans": "TEN", "Washington Commanders": "WAS",
}

// canonicalByLower is built once from canonicalTeams for case-insensitive
// exact matching.
var canonicalByLower = func() map[string]string {
	m := make(map[string]string, len(canonicalTeams))
	for _, t := range canonicalTeams {
		m[strings.ToLower(t)] = t
	}
	return m
}()

// CanonicalTeams returns the 32 canonical franchise names.
func CanonicalTeams() []string {
	out := make([]string, len(canonicalTeams))
	copy(out, canonicalTeams)
	return out
}

// NormalizeTeam resolves any team name variant to the canonical full name.
// Unrecognized names are returned unchanged so callers can surface them.
func NormalizeTeam(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	if canonical, ok := canonicalByLower[lower]; ok {
		return canonical
	}
	if canonical, ok := teamAliases[lower]; ok {
		return canonical
	}
	// Partial match handles forms like "SF 49ers" or "LA Chargers".
	for key, canonical := range canonicalByLower {
		if strings.Contains(key, lower) || strings.Contains(lower, key) {
			return canonical
		}
	}
	for key, canonical := range teamAliases {
		if len(key) > 3 && (strings.Contains(lower, key) || strings.Contains(key, lower)) {
			return canonical
		}
	}
	return trimmed
}

// TeamAbbreviation converts any team name variant to its common abbreviation.
func TeamAbbreviation(name string) string {
	canonical := NormalizeTeam(name)
	if abbrev, ok := teamAbbreviations[canonical]; ok {
		return abbrev
	}
	return name
}

// KnownTeam reports whether the name resolves to one of the 32 canonical
// franchises.
func KnownTeam(name string) bool {
	_, ok := teamAbbreviations[NormalizeTeam(name)]
	return ok
}

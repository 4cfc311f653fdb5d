package domain

import (
	"regexp"
	"strings"
)

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	suffixRe        = regexp.MustCompile(`(?i)\s+(jr\.?|sr\.?|iii|ii|iv|vi|v)$`)
	initialDotRe    = regexp.MustCompile(`\b([a-z])\.`)
)

// playerAliases maps known cross-source name variants to the name used by the
// box-score data. Keys and values are pre-cleaned (lowercase, no suffixes, no
// dots in initials). Books and box scores routinely disagree on nicknames.
var playerAliases = map[string]string{
	"nathaniel dell":    "tank dell",
	"josh palmer":       "joshua palmer",
	"cartavious bigsby": "tank bigsby",
	"damario douglas":   "demario douglas",
	"gabriel davis":     "gabe davis",
	"chigoziem okonkwo": "chig okonkwo",
	"john mundt":        "johnny mundt",
	"markeise irving":   "bucky irving",
	"cam ward":          "cameron ward",
	"marquise brown":    "hollywood brown",
	"kenny gainwell":    "kenneth gainwell",
	"christopher rodriguez": "chris rodriguez",
	"christopher brooks":    "chris brooks",
	"nick westbrook":        "nick westbrook-ikhine",
	"wayne eskridge":        "dee eskridge",
}

// CleanPlayerName reduces a raw player name from any source to the canonical
// lookup key: trimmed, lowercased, suffixes and initial dots stripped, known
// aliases resolved. The cleaning is deliberately aggressive so that "A.J.
// Brown", "AJ Brown" and "a.j. brown jr." all collapse to the same key.
func CleanPlayerName(name string) string {
	if name == "" {
		return ""
	}

	cleaned := strings.TrimSpace(name)
	cleaned = parentheticalRe.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, " ", " ")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = suffixRe.ReplaceAllString(cleaned, "")
	cleaned = strings.ToLower(strings.TrimSpace(cleaned))
	cleaned = initialDotRe.ReplaceAllString(cleaned, "$1")
	cleaned = strings.ReplaceAll(cleaned, "'", "")

	if alias, ok := playerAliases[cleaned]; ok {
		return alias
	}
	return cleaned
}

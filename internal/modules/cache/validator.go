package cache

import (
	"time"

	"github.com/rs/zerolog"
)

// Validator decides whether a cache entry may be served or must be rebuilt.
// It is pure and read-only; rebuilding is the caller's responsibility.
type Validator struct {
	log zerolog.Logger
}

// NewValidator creates a new cache validator.
func NewValidator(log zerolog.Logger) *Validator {
	return &Validator{
		log: log.With().Str("module", "cache").Logger(),
	}
}

// IsValid runs the three staleness checks in order:
//
//  1. the entry must exist,
//  2. its age must be strictly under maxAge,
//  3. no source may have been modified after the entry was built.
//
// The source check exists because weekly data lands as batch appends; an
// age-only check cannot see new data arriving inside the age window. A source
// with a zero (unreadable) timestamp counts as newer than the cache, failing
// toward a rebuild rather than toward serving stale data.
func (v *Validator) IsValid(entry *Entry, sources []SourceStamp, maxAge time.Duration, now time.Time) bool {
	if entry == nil {
		return false
	}

	if entry.Age(now) >= maxAge {
		v.log.Debug().
			Str("kind", entry.Kind).
			Dur("age", entry.Age(now)).
			Dur("max_age", maxAge).
			Msg("Cache entry past max age")
		return false
	}

	for _, src := range sources {
		if src.Modified.IsZero() || src.Modified.After(entry.BuiltAt) {
			v.log.Debug().
				Str("kind", entry.Kind).
				Str("source", src.Name).
				Time("source_modified", src.Modified).
				Time("built_at", entry.BuiltAt).
				Msg("Cache entry older than source data")
			return false
		}
	}

	return true
}

// Package props reconciles point-in-time live prop captures with the
// canonical pre-game snapshot and guards the merge against late or missing
// snapshots.
package props

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/propsage/internal/domain"
)

// mergeKey identifies a prop across captures. The line is deliberately
// excluded: it can legitimately move between a live capture and the canonical
// snapshot, and a moved line is still the same prop.
type mergeKey struct {
	player    string
	stat      domain.StatType
	bookmaker string
}

func keyFor(p domain.PropRecord) mergeKey {
	return mergeKey{
		player:    domain.CleanPlayerName(p.Player),
		stat:      p.Stat,
		bookmaker: p.Bookmaker,
	}
}

// Merger reconciles live captures with canonical snapshots.
type Merger struct {
	log zerolog.Logger
}

// NewMerger creates a merger.
func NewMerger(log zerolog.Logger) *Merger {
	return &Merger{
		log: log.With().Str("module", "props").Logger(),
	}
}

// Merge reconciles existing records against a canonical snapshot:
//
//   - a key present in both takes the snapshot's line and odds and is marked
//     canonical;
//   - a key only in existing (scratched before the snapshot) survives
//     unchanged, marked live;
//   - a key only in the snapshot is added as a new canonical record.
//
// Merging the same snapshot into an already-merged result is a no-op.
func (m *Merger) Merge(existing, canonical []domain.PropRecord) []domain.PropRecord {
	canonicalByKey := make(map[mergeKey]domain.PropRecord, len(canonical))
	for _, p := range canonical {
		canonicalByKey[keyFor(p)] = p
	}

	merged := make([]domain.PropRecord, 0, len(existing)+len(canonical))
	seen := make(map[mergeKey]bool, len(existing))
	overwritten, preserved := 0, 0

	for _, p := range existing {
		key := keyFor(p)
		if seen[key] {
			continue
		}
		seen[key] = true

		if snap, ok := canonicalByKey[key]; ok {
			p.Line = snap.Line
			p.Odds = snap.Odds
			p.Source = domain.SourceCanonical
			overwritten++
		} else {
			p.Source = domain.SourceLive
			preserved++
		}
		merged = append(merged, p)
	}

	added := 0
	for _, p := range canonical {
		key := keyFor(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		p.Source = domain.SourceCanonical
		merged = append(merged, p)
		added++
	}

	m.log.Debug().
		Int("overwritten", overwritten).
		Int("live_only", preserved).
		Int("added", added).
		Msg("Merged canonical snapshot")

	return merged
}

// FreshenLive folds a new live capture into the existing records, replacing
// line and odds per key. Records whose game has already kicked off are frozen:
// a post-kickoff fetch reflects in-game prices, not a bettable number.
func (m *Merger) FreshenLive(existing, incoming []domain.PropRecord, now time.Time) []domain.PropRecord {
	incomingByKey := make(map[mergeKey]domain.PropRecord, len(incoming))
	for _, p := range incoming {
		incomingByKey[keyFor(p)] = p
	}

	out := make([]domain.PropRecord, 0, len(existing)+len(incoming))
	seen := make(map[mergeKey]bool, len(existing))
	frozen := 0

	for _, p := range existing {
		key := keyFor(p)
		seen[key] = true

		fresh, ok := incomingByKey[key]
		if !ok || p.Started(now) {
			if ok {
				frozen++
			}
			out = append(out, p)
			continue
		}
		// Canonical records are settled; a live refresh never downgrades them.
		if p.Source == domain.SourceCanonical {
			out = append(out, p)
			continue
		}
		p.Line = fresh.Line
		p.Odds = fresh.Odds
		p.CommenceTime = fresh.CommenceTime
		out = append(out, p)
	}

	for _, p := range incoming {
		if seen[keyFor(p)] {
			continue
		}
		p.Source = domain.SourceLive
		out = append(out, p)
	}

	if frozen > 0 {
		m.log.Debug().Int("frozen", frozen).Msg("Skipped live updates for started games")
	}
	return out
}

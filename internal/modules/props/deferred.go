package props

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/propsage/internal/domain"
)

// DeferredTracker remembers weeks whose canonical snapshot was not yet
// published at merge time. Pending weeks are retried on every scheduler tick;
// once a bounded wait past the latest kickoff has elapsed the tracker gives
// up and the live-only data is accepted as final, so a never-published
// snapshot cannot produce an unbounded retry loop.
type DeferredTracker struct {
	mu          sync.Mutex
	log         zerolog.Logger
	giveUpAfter time.Duration
	pending     map[int]time.Time // week -> latest kickoff seen for that week
}

// NewDeferredTracker creates a tracker with the given give-up window.
func NewDeferredTracker(giveUpAfter time.Duration, log zerolog.Logger) *DeferredTracker {
	return &DeferredTracker{
		log:         log.With().Str("module", "props").Logger(),
		giveUpAfter: giveUpAfter,
		pending:     make(map[int]time.Time),
	}
}

// MarkPending records that the canonical snapshot for a week was unavailable.
// The latest kickoff among the week's props anchors the give-up deadline.
func (t *DeferredTracker) MarkPending(week int, weekProps []domain.PropRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	latest := t.pending[week]
	for _, p := range weekProps {
		if p.CommenceTime.After(latest) {
			latest = p.CommenceTime
		}
	}
	t.pending[week] = latest
	t.log.Info().Int("week", week).Time("latest_kickoff", latest).Msg("Deferred canonical merge")
}

// Complete removes a week after its canonical snapshot merged successfully.
func (t *DeferredTracker) Complete(week int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, week)
}

// RetryableWeeks returns the pending weeks still inside their give-up window,
// ascending.
func (t *DeferredTracker) RetryableWeeks(now time.Time) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	var weeks []int
	for week, latest := range t.pending {
		if latest.IsZero() || now.Sub(latest) <= t.giveUpAfter {
			weeks = append(weeks, week)
		}
	}
	sort.Ints(weeks)
	return weeks
}

// GiveUp removes and returns the weeks whose give-up window has elapsed.
// Their live-only records are final from here on.
func (t *DeferredTracker) GiveUp(now time.Time) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	var abandoned []int
	for week, latest := range t.pending {
		if !latest.IsZero() && now.Sub(latest) > t.giveUpAfter {
			abandoned = append(abandoned, week)
			delete(t.pending, week)
		}
	}
	sort.Ints(abandoned)

	for _, week := range abandoned {
		t.log.Warn().Int("week", week).Msg("Gave up waiting for canonical snapshot, accepting live data as final")
	}
	return abandoned
}

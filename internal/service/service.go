// Package service wires the repositories, cache artifacts and analysis
// modules into the operations the HTTP layer and the scheduler call.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/propsage/internal/config"
	"github.com/aristath/propsage/internal/database/repositories"
	"github.com/aristath/propsage/internal/domain"
	"github.com/aristath/propsage/internal/modules/backtest"
	"github.com/aristath/propsage/internal/modules/cache"
	"github.com/aristath/propsage/internal/modules/history"
	propsmod "github.com/aristath/propsage/internal/modules/props"
	"github.com/aristath/propsage/internal/modules/rankings"
	"github.com/aristath/propsage/internal/modules/scoring"
	"github.com/aristath/propsage/internal/modules/strategies"
)

const (
	kindPlayerHistory = "player_history"
	kindDefenseRanks  = "defense_ranks"
)

// Service coordinates the full pipeline: ingestion, cache-validated index
// rebuilds, scoring, strategy selection and backtesting.
type Service struct {
	log zerolog.Logger
	cfg *config.Config

	stats *repositories.GameStatRepository
	props *repositories.PropRepository

	store     *cache.Store
	validator *cache.Validator

	rankEngine *rankings.Engine
	model      *scoring.Model
	filter     *strategies.Filter
	backtester *backtest.Engine
	merger     *propsmod.Merger
	tracker    *propsmod.DeferredTracker

	historySnap cache.Snapshot[history.Index]
	rankSnap    cache.Snapshot[rankings.Index]

	startedAt time.Time
}

// New assembles the service. positions may be nil when no position data is
// available; position-filtered strategies then pass every player through.
func New(cfg *config.Config, stats *repositories.GameStatRepository, props *repositories.PropRepository, store *cache.Store, positions strategies.PositionLookup, log zerolog.Logger) *Service {
	rankEngine := rankings.NewEngine(log)
	model := scoring.NewModel(cfg.RollingGames, log)
	filter := strategies.NewFilter(positions, log)

	return &Service{
		log:        log.With().Str("module", "service").Logger(),
		cfg:        cfg,
		stats:      stats,
		props:      props,
		store:      store,
		validator:  cache.NewValidator(log),
		rankEngine: rankEngine,
		model:      model,
		filter:     filter,
		backtester: backtest.NewEngine(model, filter, rankEngine, cfg.MinBacktestWeek, log),
		merger:     propsmod.NewMerger(log),
		tracker:    propsmod.NewDeferredTracker(cfg.MergeGiveUpAfter, log),
		startedAt:  time.Now(),
	}
}

// Uptime reports how long the service has been running.
func (s *Service) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// sourceStamps converts per-week ingestion times into cache source stamps.
func sourceStamps(stamps map[int]time.Time) []cache.SourceStamp {
	weeks := make([]int, 0, len(stamps))
	for week := range stamps {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	sources := make([]cache.SourceStamp, 0, len(weeks))
	for _, week := range weeks {
		sources = append(sources, cache.SourceStamp{
			Name:     fmt.Sprintf("week_%d_box_scores", week),
			Modified: stamps[week],
		})
	}
	return sources
}

// RefreshIndexes rebuilds the player history and defensive rank snapshots if
// their cache artifacts are missing, too old, or older than any ingested
// week. Valid artifacts are reused, so a restart does not force a rebuild.
func (s *Service) RefreshIndexes(ctx context.Context) error {
	stamps, err := s.stats.WeekStamps(ctx)
	if err != nil {
		return fmt.Errorf("failed to load source stamps: %w", err)
	}
	sources := sourceStamps(stamps)
	now := time.Now().UTC()

	if err := s.refreshHistory(ctx, sources, now); err != nil {
		return err
	}
	return s.refreshRanks(ctx, sources, now)
}

func (s *Service) refreshHistory(ctx context.Context, sources []cache.SourceStamp, now time.Time) error {
	entry, err := s.store.Load(kindPlayerHistory)
	if err != nil {
		return fmt.Errorf("failed to load history cache: %w", err)
	}

	if s.validator.IsValid(entry, sources, s.cfg.PlayerCacheMaxAge, now) {
		if s.historySnap.Load() != nil {
			return nil
		}
		// Cold start with a valid artifact: rebuild from the cached records
		// rather than the database.
		var records []domain.GameStatRecord
		if err := msgpack.Unmarshal(entry.Payload, &records); err == nil {
			s.historySnap.Swap(history.Build(records, history.BuildOptions{}, s.log))
			return nil
		}
	}

	records, err := s.stats.AllRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load game stats: %w", err)
	}
	s.historySnap.Swap(history.Build(records, history.BuildOptions{}, s.log))

	payload, err := msgpack.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode history payload: %w", err)
	}
	if err := s.store.Save(cache.NewEntry(kindPlayerHistory, now, sources, payload)); err != nil {
		return fmt.Errorf("failed to save history cache: %w", err)
	}

	s.log.Info().Int("records", len(records)).Msg("Rebuilt player history index")
	return nil
}

func (s *Service) refreshRanks(ctx context.Context, sources []cache.SourceStamp, now time.Time) error {
	entry, err := s.store.Load(kindDefenseRanks)
	if err != nil {
		return fmt.Errorf("failed to load defense cache: %w", err)
	}

	if s.validator.IsValid(entry, sources, s.cfg.DefenseCacheMaxAge, now) {
		if s.rankSnap.Load() != nil {
			return nil
		}
		var aggregates []domain.TeamDefensiveAggregate
		if err := msgpack.Unmarshal(entry.Payload, &aggregates); err == nil {
			if idx, err := s.rankEngine.BuildIndex(aggregates); err == nil {
				s.rankSnap.Swap(idx)
				return nil
			}
		}
	}

	aggregates, err := s.stats.Aggregates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load defensive aggregates: %w", err)
	}
	idx, err := s.rankEngine.BuildIndex(aggregates)
	if err != nil {
		return fmt.Errorf("failed to build rank index: %w", err)
	}
	s.rankSnap.Swap(idx)

	payload, err := msgpack.Marshal(aggregates)
	if err != nil {
		return fmt.Errorf("failed to encode defense payload: %w", err)
	}
	if err := s.store.Save(cache.NewEntry(kindDefenseRanks, now, sources, payload)); err != nil {
		return fmt.Errorf("failed to save defense cache: %w", err)
	}

	s.log.Info().Int("teams", idx.Teams()).Msg("Rebuilt defensive rank index")
	return nil
}

// IngestWeekStats stores a week of box scores and refreshes the derived
// indexes.
func (s *Service) IngestWeekStats(ctx context.Context, week int, records []domain.GameStatRecord) error {
	if err := s.stats.SaveWeek(ctx, week, records); err != nil {
		return err
	}
	return s.RefreshIndexes(ctx)
}

// IngestAggregates stores the defensive aggregate set and refreshes the rank
// index.
func (s *Service) IngestAggregates(ctx context.Context, aggregates []domain.TeamDefensiveAggregate) error {
	if err := s.stats.SaveAggregates(ctx, aggregates); err != nil {
		return err
	}
	if err := s.store.Clear(kindDefenseRanks); err != nil {
		return err
	}
	return s.RefreshIndexes(ctx)
}

// IngestLiveProps folds a live capture into a week's stored props. Props for
// games that already kicked off are left untouched.
func (s *Service) IngestLiveProps(ctx context.Context, week int, incoming []domain.PropRecord) error {
	existing, err := s.props.WeekProps(ctx, week)
	if err != nil {
		return err
	}
	merged := s.merger.FreshenLive(existing, incoming, time.Now().UTC())
	return s.props.SaveWeek(ctx, week, merged)
}

// MergeCanonical reconciles a week's stored props against the canonical
// pre-game snapshot. An empty snapshot defers the merge for retry.
func (s *Service) MergeCanonical(ctx context.Context, week int, canonical []domain.PropRecord) error {
	existing, err := s.props.WeekProps(ctx, week)
	if err != nil {
		return err
	}

	if len(canonical) == 0 {
		s.tracker.MarkPending(week, existing)
		return fmt.Errorf("canonical snapshot for week %d unavailable, merge deferred", week)
	}

	merged := s.merger.Merge(existing, canonical)
	if err := s.props.SaveWeek(ctx, week, merged); err != nil {
		return err
	}
	s.tracker.Complete(week)
	return nil
}

// RetryDeferredMerges is the scheduler hook: it abandons weeks past the
// give-up window and reports the weeks still worth retrying.
func (s *Service) RetryDeferredMerges(now time.Time) []int {
	s.tracker.GiveUp(now)
	return s.tracker.RetryableWeeks(now)
}

// ScoreProps scores already-materialized props against the current
// snapshots.
func (s *Service) ScoreProps(props []domain.PropRecord) []domain.ScoredProp {
	return s.model.ScoreAll(props, s.rankSnap.Load(), s.historySnap.Load())
}

// ScoreWeek scores a stored week's props.
func (s *Service) ScoreWeek(ctx context.Context, week int) ([]domain.ScoredProp, error) {
	props, err := s.props.WeekProps(ctx, week)
	if err != nil {
		return nil, err
	}
	return s.ScoreProps(props), nil
}

// Select applies a built-in strategy to scored props.
func (s *Service) Select(scored []domain.ScoredProp, strategyKey string) (strategies.Selection, error) {
	def, ok := strategies.ByKey(strategyKey)
	if !ok {
		return strategies.Selection{}, fmt.Errorf("unknown strategy %q", strategyKey)
	}
	return s.filter.Select(scored, def), nil
}

// SelectWithDefinition applies a caller-supplied definition.
func (s *Service) SelectWithDefinition(scored []domain.ScoredProp, def strategies.Definition) strategies.Selection {
	return s.filter.Select(scored, def)
}

// Strategies lists the built-in strategy definitions.
func (s *Service) Strategies() []strategies.Definition {
	return strategies.BuiltIn()
}

// DefensiveRanks returns the ranked teams for a stat type's defensive
// category from the current snapshot.
func (s *Service) DefensiveRanks(stat domain.StatType) (map[string]int, error) {
	idx := s.rankSnap.Load()
	if idx == nil {
		return nil, fmt.Errorf("defensive rank index not built yet")
	}

	out := make(map[string]int)
	for _, team := range domain.CanonicalTeams() {
		if rank, ok := idx.DefensiveRank(team, stat); ok {
			out[team] = rank
		}
	}
	return out, nil
}

// Backtest replays a strategy over the stored season.
func (s *Service) Backtest(ctx context.Context, def strategies.Definition, weeks []int) (backtest.Result, error) {
	stats, err := s.stats.AllRecords(ctx)
	if err != nil {
		return backtest.Result{}, err
	}
	aggregates, err := s.stats.Aggregates(ctx)
	if err != nil {
		return backtest.Result{}, err
	}
	propsByWeek, err := s.props.PropsByWeek(ctx)
	if err != nil {
		return backtest.Result{}, err
	}

	return s.backtester.Run(def, weeks, backtest.Inputs{
		Stats:       stats,
		Aggregates:  aggregates,
		PropsByWeek: propsByWeek,
	})
}

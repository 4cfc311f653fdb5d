// Package repositories provides the data access layer over the SQLite
// databases: weekly game stats, defensive aggregates and prop snapshots.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/propsage/internal/database"
	"github.com/aristath/propsage/internal/domain"
)

// GameStatRepository stores weekly box-score records. Weeks are replaced
// wholesale on re-ingestion; the per-week ingestion stamp feeds cache
// staleness checks.
type GameStatRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewGameStatRepository creates a repository over the stats database.
func NewGameStatRepository(db *sql.DB, log zerolog.Logger) *GameStatRepository {
	return &GameStatRepository{
		db:  db,
		log: log.With().Str("module", "repository").Str("table", "game_stats").Logger(),
	}
}

// SaveWeek replaces every record for a week inside one transaction.
// Malformed records are skipped with a warning, never aborting the batch.
func (r *GameStatRepository) SaveWeek(ctx context.Context, week int, records []domain.GameStatRecord) error {
	if week <= 0 {
		return fmt.Errorf("cannot save non-positive week %d", week)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	saved := 0

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM game_stats WHERE week = ?`, week); err != nil {
			return fmt.Errorf("failed to clear week %d: %w", week, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO game_stats (player, team, week, stat, value, home_game, ingested_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			if err := rec.Validate(); err != nil {
				r.log.Warn().Err(err).Str("player", rec.Player).Int("week", week).Msg("Skipping malformed record")
				continue
			}
			if rec.Week != week {
				r.log.Warn().Str("player", rec.Player).Int("record_week", rec.Week).Int("week", week).Msg("Skipping record from a different week")
				continue
			}
			home := 0
			if rec.HomeGame {
				home = 1
			}
			if _, err := stmt.ExecContext(ctx, rec.Player, rec.Team, rec.Week, string(rec.Stat), rec.Value, home, now); err != nil {
				return fmt.Errorf("failed to insert record for %s: %w", rec.Player, err)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info().Int("week", week).Int("records", saved).Msg("Saved weekly game stats")
	return nil
}

// AllRecords returns every stored record, week ascending.
func (r *GameStatRepository) AllRecords(ctx context.Context) ([]domain.GameStatRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player, team, week, stat, value, home_game
		FROM game_stats ORDER BY week, player`)
	if err != nil {
		return nil, fmt.Errorf("failed to query game stats: %w", err)
	}
	defer rows.Close()

	var records []domain.GameStatRecord
	for rows.Next() {
		var rec domain.GameStatRecord
		var stat string
		var home int
		if err := rows.Scan(&rec.Player, &rec.Team, &rec.Week, &stat, &rec.Value, &home); err != nil {
			return nil, fmt.Errorf("failed to scan game stat row: %w", err)
		}
		rec.Stat = domain.StatType(stat)
		rec.HomeGame = home != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// WeekStamps returns the latest ingestion time per stored week. These are the
// source stamps the cache validator compares against an artifact's build
// time.
func (r *GameStatRepository) WeekStamps(ctx context.Context) (map[int]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT week, MAX(ingested_at) FROM game_stats GROUP BY week`)
	if err != nil {
		return nil, fmt.Errorf("failed to query week stamps: %w", err)
	}
	defer rows.Close()

	stamps := make(map[int]time.Time)
	for rows.Next() {
		var week int
		var raw string
		if err := rows.Scan(&week, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan week stamp: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			// An unparseable stamp stays zero: the validator treats it as
			// newer than any cache and forces a rebuild.
			r.log.Warn().Int("week", week).Str("stamp", raw).Msg("Unparseable ingestion stamp")
		}
		stamps[week] = ts
	}
	return stamps, rows.Err()
}

// SaveAggregates replaces the defensive aggregate set wholesale.
func (r *GameStatRepository) SaveAggregates(ctx context.Context, aggregates []domain.TeamDefensiveAggregate) error {
	now := time.Now().UTC().Format(time.RFC3339)

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM defensive_aggregates`); err != nil {
			return fmt.Errorf("failed to clear defensive aggregates: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO defensive_aggregates (team, category, raw_value, ingested_at)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, agg := range aggregates {
			if _, err := stmt.ExecContext(ctx, agg.Team, string(agg.Category), agg.RawValue, now); err != nil {
				return fmt.Errorf("failed to insert aggregate for %s: %w", agg.Team, err)
			}
		}
		return nil
	})
}

// Aggregates returns the stored defensive aggregate set.
func (r *GameStatRepository) Aggregates(ctx context.Context) ([]domain.TeamDefensiveAggregate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT team, category, raw_value FROM defensive_aggregates ORDER BY category, team`)
	if err != nil {
		return nil, fmt.Errorf("failed to query defensive aggregates: %w", err)
	}
	defer rows.Close()

	var aggregates []domain.TeamDefensiveAggregate
	for rows.Next() {
		var agg domain.TeamDefensiveAggregate
		var category string
		if err := rows.Scan(&agg.Team, &category, &agg.RawValue); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		agg.Category = domain.DefensiveCategory(category)
		aggregates = append(aggregates, agg)
	}
	return aggregates, rows.Err()
}

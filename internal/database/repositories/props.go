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

// PropRepository stores weekly prop snapshots, including merge results.
type PropRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPropRepository creates a repository over the props database.
func NewPropRepository(db *sql.DB, log zerolog.Logger) *PropRepository {
	return &PropRepository{
		db:  db,
		log: log.With().Str("module", "repository").Str("table", "props").Logger(),
	}
}

// SaveWeek replaces a week's props wholesale. Merge output is persisted
// through this path, so re-running a merge is as idempotent in storage as it
// is in memory.
func (r *PropRepository) SaveWeek(ctx context.Context, week int, props []domain.PropRecord) error {
	now := time.Now().UTC().Format(time.RFC3339)
	saved := 0

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM props WHERE week = ?`, week); err != nil {
			return fmt.Errorf("failed to clear week %d props: %w", week, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO props (player, team, opposing_team, stat, line, odds, bookmaker, week, commence_time, source, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range props {
			if err := p.Validate(); err != nil {
				r.log.Warn().Err(err).Str("player", p.Player).Msg("Skipping malformed prop")
				continue
			}
			if _, err := stmt.ExecContext(ctx,
				p.Player, p.Team, p.OpposingTeam, string(p.Stat), p.Line, p.Odds,
				p.Bookmaker, week, p.CommenceTime.UTC().Format(time.RFC3339), string(p.Source), now,
			); err != nil {
				return fmt.Errorf("failed to insert prop for %s: %w", p.Player, err)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info().Int("week", week).Int("props", saved).Msg("Saved weekly props")
	return nil
}

// WeekProps returns a week's stored props.
func (r *PropRepository) WeekProps(ctx context.Context, week int) ([]domain.PropRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player, team, opposing_team, stat, line, odds, bookmaker, week, commence_time, source
		FROM props WHERE week = ? ORDER BY player, stat, bookmaker`, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query week %d props: %w", week, err)
	}
	defer rows.Close()

	return scanProps(rows)
}

// PropsByWeek returns every stored prop grouped by week.
func (r *PropRepository) PropsByWeek(ctx context.Context) (map[int][]domain.PropRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player, team, opposing_team, stat, line, odds, bookmaker, week, commence_time, source
		FROM props ORDER BY week, player`)
	if err != nil {
		return nil, fmt.Errorf("failed to query props: %w", err)
	}
	defer rows.Close()

	props, err := scanProps(rows)
	if err != nil {
		return nil, err
	}

	byWeek := make(map[int][]domain.PropRecord)
	for _, p := range props {
		byWeek[p.Week] = append(byWeek[p.Week], p)
	}
	return byWeek, nil
}

func scanProps(rows *sql.Rows) ([]domain.PropRecord, error) {
	var props []domain.PropRecord
	for rows.Next() {
		var p domain.PropRecord
		var stat, commence, source string
		if err := rows.Scan(&p.Player, &p.Team, &p.OpposingTeam, &stat, &p.Line, &p.Odds,
			&p.Bookmaker, &p.Week, &commence, &source); err != nil {
			return nil, fmt.Errorf("failed to scan prop row: %w", err)
		}
		p.Stat = domain.StatType(stat)
		p.Source = domain.PropSource(source)
		if ts, err := time.Parse(time.RFC3339, commence); err == nil {
			p.CommenceTime = ts
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

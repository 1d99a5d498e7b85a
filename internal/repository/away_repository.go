package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wellbeat/awareness-api/internal/models"
)

type AwayDayRepository interface {
	GetByDate(ctx context.Context, day time.Time) (*models.AwayDay, error)
	ListFromDate(ctx context.Context, from time.Time) ([]*models.AwayDay, error)
	ReplaceAll(ctx context.Context, dates []time.Time) error
	DeleteAll(ctx context.Context) error
}

type awayDayRepository struct {
	db *sql.DB
}

func NewAwayDayRepository(db *sql.DB) AwayDayRepository {
	return &awayDayRepository{db: db}
}

func (r *awayDayRepository) GetByDate(ctx context.Context, day time.Time) (*models.AwayDay, error) {
	query := `SELECT id, away_date, created_at FROM away_days WHERE away_date = $1`
	var ad models.AwayDay
	err := r.db.QueryRowContext(ctx, query, day.Format("2006-01-02")).Scan(&ad.ID, &ad.AwayDate, &ad.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Time("day", day).Msg("failed to look up away day")
		return nil, err
	}
	return &ad, nil
}

func (r *awayDayRepository) ListFromDate(ctx context.Context, from time.Time) ([]*models.AwayDay, error) {
	query := `SELECT id, away_date, created_at FROM away_days WHERE away_date >= $1 ORDER BY away_date ASC`
	rows, err := r.db.QueryContext(ctx, query, from.Format("2006-01-02"))
	if err != nil {
		log.Error().Err(err).Msg("failed to list away days")
		return nil, err
	}
	defer rows.Close()

	var days []*models.AwayDay
	for rows.Next() {
		var ad models.AwayDay
		if err := rows.Scan(&ad.ID, &ad.AwayDate, &ad.CreatedAt); err != nil {
			return nil, err
		}
		days = append(days, &ad)
	}
	return days, rows.Err()
}

// ReplaceAll swaps the whole away-day set in one transaction. Away days
// are never patched individually.
func (r *awayDayRepository) ReplaceAll(ctx context.Context, dates []time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM away_days`); err != nil {
		log.Error().Err(err).Msg("failed to clear away days")
		return err
	}

	for _, d := range dates {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO away_days (away_date) VALUES ($1) ON CONFLICT (away_date) DO NOTHING`,
			d.Format("2006-01-02"))
		if err != nil {
			log.Error().Err(err).Time("day", d).Msg("failed to insert away day")
			return err
		}
	}

	return tx.Commit()
}

func (r *awayDayRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM away_days`)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete away days")
	}
	return err
}

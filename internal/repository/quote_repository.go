package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/wellbeat/awareness-api/internal/models"
)

type QuoteRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Quote, error)
	GetByID(ctx context.Context, id int64) (*models.Quote, error)
	Create(ctx context.Context, quote *models.Quote) (int64, error)
	Update(ctx context.Context, quote *models.Quote) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type quoteRepository struct {
	db *sql.DB
}

func NewQuoteRepository(db *sql.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

const quoteColumns = `id, text, author, is_active, display_order, created_at, updated_at`

func (r *quoteRepository) List(ctx context.Context, activeOnly bool) ([]*models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes ORDER BY display_order ASC, id ASC`
	if activeOnly {
		query = `SELECT ` + quoteColumns + ` FROM quotes WHERE is_active ORDER BY display_order ASC, id ASC`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("failed to list quotes")
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(&q.ID, &q.Text, &q.Author, &q.IsActive, &q.DisplayOrder, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quotes = append(quotes, &q)
	}
	return quotes, rows.Err()
}

func (r *quoteRepository) GetByID(ctx context.Context, id int64) (*models.Quote, error) {
	var q models.Quote
	err := r.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id).
		Scan(&q.ID, &q.Text, &q.Author, &q.IsActive, &q.DisplayOrder, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Int64("quote_id", id).Msg("failed to load quote")
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepository) Create(ctx context.Context, quote *models.Quote) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO quotes (text, author, is_active, display_order) VALUES ($1, $2, $3, $4) RETURNING id`,
		quote.Text, quote.Author, quote.IsActive, quote.DisplayOrder).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert quote")
		return 0, err
	}
	return id, nil
}

func (r *quoteRepository) Update(ctx context.Context, quote *models.Quote) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET text = $1, author = $2, is_active = $3, display_order = $4, updated_at = NOW() WHERE id = $5`,
		quote.Text, quote.Author, quote.IsActive, quote.DisplayOrder, quote.ID)
	if err != nil {
		log.Error().Err(err).Int64("quote_id", quote.ID).Msg("failed to update quote")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *quoteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int64("quote_id", id).Msg("failed to delete quote")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

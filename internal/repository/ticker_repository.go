package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/wellbeat/awareness-api/internal/models"
)

type TickerRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*models.TickerMessage, error)
	GetByID(ctx context.Context, id int64) (*models.TickerMessage, error)
	Create(ctx context.Context, msg *models.TickerMessage) (int64, error)
	Update(ctx context.Context, msg *models.TickerMessage) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type tickerRepository struct {
	db *sql.DB
}

func NewTickerRepository(db *sql.DB) TickerRepository {
	return &tickerRepository{db: db}
}

const tickerColumns = `id, message, is_active, display_order, created_at, updated_at`

func (r *tickerRepository) List(ctx context.Context, activeOnly bool) ([]*models.TickerMessage, error) {
	query := `SELECT ` + tickerColumns + ` FROM ticker_messages ORDER BY display_order ASC, id ASC`
	if activeOnly {
		query = `SELECT ` + tickerColumns + ` FROM ticker_messages WHERE is_active ORDER BY display_order ASC, id ASC`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("failed to list ticker messages")
		return nil, err
	}
	defer rows.Close()

	var msgs []*models.TickerMessage
	for rows.Next() {
		var m models.TickerMessage
		if err := rows.Scan(&m.ID, &m.Message, &m.IsActive, &m.DisplayOrder, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

func (r *tickerRepository) GetByID(ctx context.Context, id int64) (*models.TickerMessage, error) {
	var m models.TickerMessage
	err := r.db.QueryRowContext(ctx,
		`SELECT `+tickerColumns+` FROM ticker_messages WHERE id = $1`, id).
		Scan(&m.ID, &m.Message, &m.IsActive, &m.DisplayOrder, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Int64("ticker_id", id).Msg("failed to load ticker message")
		return nil, err
	}
	return &m, nil
}

func (r *tickerRepository) Create(ctx context.Context, msg *models.TickerMessage) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO ticker_messages (message, is_active, display_order) VALUES ($1, $2, $3) RETURNING id`,
		msg.Message, msg.IsActive, msg.DisplayOrder).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert ticker message")
		return 0, err
	}
	return id, nil
}

func (r *tickerRepository) Update(ctx context.Context, msg *models.TickerMessage) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ticker_messages SET message = $1, is_active = $2, display_order = $3, updated_at = NOW() WHERE id = $4`,
		msg.Message, msg.IsActive, msg.DisplayOrder, msg.ID)
	if err != nil {
		log.Error().Err(err).Int64("ticker_id", msg.ID).Msg("failed to update ticker message")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *tickerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ticker_messages WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int64("ticker_id", id).Msg("failed to delete ticker message")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/wellbeat/awareness-api/internal/models"
)

type JokeRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Joke, error)
	GetByID(ctx context.Context, id int64) (*models.Joke, error)
	Create(ctx context.Context, joke *models.Joke) (int64, error)
	Update(ctx context.Context, joke *models.Joke) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type jokeRepository struct {
	db *sql.DB
}

func NewJokeRepository(db *sql.DB) JokeRepository {
	return &jokeRepository{db: db}
}

const jokeColumns = `id, text, is_active, display_order, created_at, updated_at`

func (r *jokeRepository) List(ctx context.Context, activeOnly bool) ([]*models.Joke, error) {
	query := `SELECT ` + jokeColumns + ` FROM jokes ORDER BY display_order ASC, id ASC`
	if activeOnly {
		query = `SELECT ` + jokeColumns + ` FROM jokes WHERE is_active ORDER BY display_order ASC, id ASC`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("failed to list jokes")
		return nil, err
	}
	defer rows.Close()

	var jokes []*models.Joke
	for rows.Next() {
		var j models.Joke
		if err := rows.Scan(&j.ID, &j.Text, &j.IsActive, &j.DisplayOrder, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		jokes = append(jokes, &j)
	}
	return jokes, rows.Err()
}

func (r *jokeRepository) GetByID(ctx context.Context, id int64) (*models.Joke, error) {
	var j models.Joke
	err := r.db.QueryRowContext(ctx,
		`SELECT `+jokeColumns+` FROM jokes WHERE id = $1`, id).
		Scan(&j.ID, &j.Text, &j.IsActive, &j.DisplayOrder, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Int64("joke_id", id).Msg("failed to load joke")
		return nil, err
	}
	return &j, nil
}

func (r *jokeRepository) Create(ctx context.Context, joke *models.Joke) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO jokes (text, is_active, display_order) VALUES ($1, $2, $3) RETURNING id`,
		joke.Text, joke.IsActive, joke.DisplayOrder).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert joke")
		return 0, err
	}
	return id, nil
}

func (r *jokeRepository) Update(ctx context.Context, joke *models.Joke) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE jokes SET text = $1, is_active = $2, display_order = $3, updated_at = NOW() WHERE id = $4`,
		joke.Text, joke.IsActive, joke.DisplayOrder, joke.ID)
	if err != nil {
		log.Error().Err(err).Int64("joke_id", joke.ID).Msg("failed to update joke")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *jokeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jokes WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int64("joke_id", id).Msg("failed to delete joke")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

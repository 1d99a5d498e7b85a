package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/wellbeat/awareness-api/internal/models"
)

type PreferenceRepository interface {
	List(ctx context.Context) ([]*models.UserPreference, error)
	GetByKey(ctx context.Context, key string) (*models.UserPreference, error)
	Upsert(ctx context.Context, key string, value json.RawMessage, description *string) (*models.UserPreference, error)
}

type preferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

const preferenceColumns = `id, pref_key, pref_value, description, created_at, updated_at`

func (r *preferenceRepository) List(ctx context.Context) ([]*models.UserPreference, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+preferenceColumns+` FROM user_preferences ORDER BY pref_key ASC`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list preferences")
		return nil, err
	}
	defer rows.Close()

	var prefs []*models.UserPreference
	for rows.Next() {
		var p models.UserPreference
		if err := rows.Scan(&p.ID, &p.Key, &p.Value, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		prefs = append(prefs, &p)
	}
	return prefs, rows.Err()
}

func (r *preferenceRepository) GetByKey(ctx context.Context, key string) (*models.UserPreference, error) {
	var p models.UserPreference
	err := r.db.QueryRowContext(ctx,
		`SELECT `+preferenceColumns+` FROM user_preferences WHERE pref_key = $1`, key).
		Scan(&p.ID, &p.Key, &p.Value, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Str("key", key).Msg("failed to load preference")
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, key string, value json.RawMessage, description *string) (*models.UserPreference, error) {
	query := `
		INSERT INTO user_preferences (pref_key, pref_value, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (pref_key) DO UPDATE
		SET pref_value = EXCLUDED.pref_value,
			description = COALESCE(EXCLUDED.description, user_preferences.description),
			updated_at = NOW()
		RETURNING ` + preferenceColumns

	var p models.UserPreference
	err := r.db.QueryRowContext(ctx, query, key, []byte(value), description).
		Scan(&p.ID, &p.Key, &p.Value, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upsert preference")
		return nil, err
	}
	return &p, nil
}

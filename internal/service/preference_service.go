package service

import (
	"context"
	"encoding/json"

	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/repository"
)

type PreferenceService interface {
	List(ctx context.Context) ([]*models.UserPreference, error)
	Get(ctx context.Context, key string) (*models.UserPreference, error)
	Upsert(ctx context.Context, key string, value json.RawMessage, description *string) (*models.UserPreference, error)
}

type preferenceService struct {
	pr repository.PreferenceRepository
}

func NewPreferenceService(pr repository.PreferenceRepository) PreferenceService {
	return &preferenceService{pr: pr}
}

func (s *preferenceService) List(ctx context.Context) ([]*models.UserPreference, error) {
	return s.pr.List(ctx)
}

func (s *preferenceService) Get(ctx context.Context, key string) (*models.UserPreference, error) {
	return s.pr.GetByKey(ctx, key)
}

func (s *preferenceService) Upsert(ctx context.Context, key string, value json.RawMessage, description *string) (*models.UserPreference, error) {
	return s.pr.Upsert(ctx, key, value, description)
}

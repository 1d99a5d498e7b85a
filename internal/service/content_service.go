package service

import (
	"context"
	"strconv"

	"github.com/wellbeat/awareness-api/internal/apperrors"
	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/repository"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

// Jokes, quotes and ticker messages are flat dashboard content with no
// relationship to posts; the services below only add NotFound
// translation on top of their repositories.

type JokeService interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Joke, error)
	Create(ctx context.Context, jc *transfer.JokeCreation) (*models.Joke, error)
	Update(ctx context.Context, id int64, jc *transfer.JokeCreation) (*models.Joke, error)
	Delete(ctx context.Context, id int64) error
}

type jokeService struct {
	jr repository.JokeRepository
}

func NewJokeService(jr repository.JokeRepository) JokeService {
	return &jokeService{jr: jr}
}

func (s *jokeService) List(ctx context.Context, activeOnly bool) ([]*models.Joke, error) {
	return s.jr.List(ctx, activeOnly)
}

func (s *jokeService) Create(ctx context.Context, jc *transfer.JokeCreation) (*models.Joke, error) {
	joke := &models.Joke{
		Text:         jc.Text,
		IsActive:     boolOrDefault(jc.IsActive, true),
		DisplayOrder: jc.DisplayOrder,
	}
	id, err := s.jr.Create(ctx, joke)
	if err != nil {
		return nil, err
	}
	return s.jr.GetByID(ctx, id)
}

func (s *jokeService) Update(ctx context.Context, id int64, jc *transfer.JokeCreation) (*models.Joke, error) {
	existing, err := s.jr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NotFound("joke", strconv.FormatInt(id, 10))
	}

	existing.Text = jc.Text
	existing.IsActive = boolOrDefault(jc.IsActive, existing.IsActive)
	existing.DisplayOrder = jc.DisplayOrder
	if _, err := s.jr.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.jr.GetByID(ctx, id)
}

func (s *jokeService) Delete(ctx context.Context, id int64) error {
	found, err := s.jr.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NotFound("joke", strconv.FormatInt(id, 10))
	}
	return nil
}

type QuoteService interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Quote, error)
	Create(ctx context.Context, qc *transfer.QuoteCreation) (*models.Quote, error)
	Update(ctx context.Context, id int64, qc *transfer.QuoteCreation) (*models.Quote, error)
	Delete(ctx context.Context, id int64) error
}

type quoteService struct {
	qr repository.QuoteRepository
}

func NewQuoteService(qr repository.QuoteRepository) QuoteService {
	return &quoteService{qr: qr}
}

func (s *quoteService) List(ctx context.Context, activeOnly bool) ([]*models.Quote, error) {
	return s.qr.List(ctx, activeOnly)
}

func (s *quoteService) Create(ctx context.Context, qc *transfer.QuoteCreation) (*models.Quote, error) {
	quote := &models.Quote{
		Text:         qc.Text,
		Author:       qc.Author,
		IsActive:     boolOrDefault(qc.IsActive, true),
		DisplayOrder: qc.DisplayOrder,
	}
	id, err := s.qr.Create(ctx, quote)
	if err != nil {
		return nil, err
	}
	return s.qr.GetByID(ctx, id)
}

func (s *quoteService) Update(ctx context.Context, id int64, qc *transfer.QuoteCreation) (*models.Quote, error) {
	existing, err := s.qr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NotFound("quote", strconv.FormatInt(id, 10))
	}

	existing.Text = qc.Text
	if qc.Author != nil {
		existing.Author = qc.Author
	}
	existing.IsActive = boolOrDefault(qc.IsActive, existing.IsActive)
	existing.DisplayOrder = qc.DisplayOrder
	if _, err := s.qr.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.qr.GetByID(ctx, id)
}

func (s *quoteService) Delete(ctx context.Context, id int64) error {
	found, err := s.qr.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NotFound("quote", strconv.FormatInt(id, 10))
	}
	return nil
}

type TickerService interface {
	List(ctx context.Context, activeOnly bool) ([]*models.TickerMessage, error)
	Create(ctx context.Context, tc *transfer.TickerCreation) (*models.TickerMessage, error)
	Update(ctx context.Context, id int64, tc *transfer.TickerCreation) (*models.TickerMessage, error)
	Delete(ctx context.Context, id int64) error
}

type tickerService struct {
	tr repository.TickerRepository
}

func NewTickerService(tr repository.TickerRepository) TickerService {
	return &tickerService{tr: tr}
}

func (s *tickerService) List(ctx context.Context, activeOnly bool) ([]*models.TickerMessage, error) {
	return s.tr.List(ctx, activeOnly)
}

func (s *tickerService) Create(ctx context.Context, tc *transfer.TickerCreation) (*models.TickerMessage, error) {
	msg := &models.TickerMessage{
		Message:      tc.Message,
		IsActive:     boolOrDefault(tc.IsActive, true),
		DisplayOrder: tc.DisplayOrder,
	}
	id, err := s.tr.Create(ctx, msg)
	if err != nil {
		return nil, err
	}
	return s.tr.GetByID(ctx, id)
}

func (s *tickerService) Update(ctx context.Context, id int64, tc *transfer.TickerCreation) (*models.TickerMessage, error) {
	existing, err := s.tr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NotFound("ticker message", strconv.FormatInt(id, 10))
	}

	existing.Message = tc.Message
	existing.IsActive = boolOrDefault(tc.IsActive, existing.IsActive)
	existing.DisplayOrder = tc.DisplayOrder
	if _, err := s.tr.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.tr.GetByID(ctx, id)
}

func (s *tickerService) Delete(ctx context.Context, id int64) error {
	found, err := s.tr.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NotFound("ticker message", strconv.FormatInt(id, 10))
	}
	return nil
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

package challenge

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
)

type Config struct {
	Store Store
}

// Service manages the challenge catalog.
type Service struct {
	store Store
}

func NewService(c Config) *Service {
	return &Service{store: c.Store}
}

type CreateChallengeRequest struct {
	Title       string
	Description string
	Category    string
	Difficulty  domain.ChallengeDifficulty
	Points      int
	CreatedBy   string
}

func (s *Service) Create(ctx context.Context, req CreateChallengeRequest) (*domain.Challenge, error) {
	if req.Title == "" {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("title is required"))
	}
	if req.Points <= 0 {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("points must be positive: points=%d", req.Points))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate challenge ID: %w", err)
	}

	c := domain.Challenge{
		ID:          id.String(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Points:      req.Points,
		CreatedBy:   req.CreatedBy,
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, err
	}

	return &c, nil
}

// Get returns the challenge for the given id, failing with NotFound when
// absent. Also serves as the challenge directory for the participation module.
func (s *Service) Get(ctx context.Context, id string) (*domain.Challenge, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) GetAll(ctx context.Context) ([]domain.Challenge, error) {
	return s.store.GetAll(ctx)
}

type UpdateChallengeRequest struct {
	Title       string
	Description string
	Category    string
	Difficulty  domain.ChallengeDifficulty
	Points      int
}

func (s *Service) Update(ctx context.Context, id string, req UpdateChallengeRequest) (*domain.Challenge, error) {
	if req.Title == "" {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("title is required"))
	}
	if req.Points <= 0 {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("points must be positive: points=%d", req.Points))
	}

	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Title = req.Title
	c.Description = req.Description
	c.Category = req.Category
	c.Difficulty = req.Difficulty
	c.Points = req.Points

	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteByID(ctx, id)
}

package user

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

// Service is the user directory. Other modules consume it to validate user
// references and denormalize usernames.
type Service struct {
	store Store
}

func NewService(c Config) *Service {
	return &Service{store: c.Store}
}

type CreateUserRequest struct {
	Username string
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if req.Username == "" {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("username is required"))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	u := domain.User{
		ID:       id.String(),
		Username: req.Username,
	}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.store.GetAll(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteByID(ctx, id)
}

// Resolve returns the user for the given id, failing with NotFound when the
// id does not resolve.
func (s *Service) Resolve(ctx context.Context, id string) (domain.User, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.store.ExistsByID(ctx, id)
}

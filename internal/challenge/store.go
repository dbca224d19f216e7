package challenge

import (
	"context"
	"sync"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
)

// Store persists catalog challenges. Implementations must be safe for
// concurrent use.
type Store interface {
	Insert(ctx context.Context, c domain.Challenge) error
	GetByID(ctx context.Context, id string) (domain.Challenge, error)
	GetAll(ctx context.Context) ([]domain.Challenge, error)
	Update(ctx context.Context, c domain.Challenge) error
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[string]domain.Challenge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]domain.Challenge)}
}

func (s *MemoryStore) Insert(_ context.Context, c domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.challenges[c.ID]; ok {
		return errors.New(errors.CodeAlreadyExists, errors.WithMessagef("challenge already exists: id=%s", c.ID))
	}
	s.challenges[c.ID] = c
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (domain.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.challenges[id]
	if !ok {
		return domain.Challenge{}, errors.New(errors.CodeNotFound, errors.WithMessagef("challenge not found: id=%s", id))
	}
	return c, nil
}

func (s *MemoryStore) GetAll(_ context.Context) ([]domain.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	challenges := make([]domain.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		challenges = append(challenges, c)
	}
	return challenges, nil
}

func (s *MemoryStore) Update(_ context.Context, c domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.challenges[c.ID]; !ok {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("challenge not found: id=%s", c.ID))
	}
	s.challenges[c.ID] = c
	return nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.challenges[id]; !ok {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("challenge not found: id=%s", id))
	}
	delete(s.challenges, id)
	return nil
}

func (s *MemoryStore) ExistsByID(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.challenges[id]
	return ok, nil
}

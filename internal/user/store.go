package user

import (
	"context"
	"sync"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
)

// Store persists users. Implementations must be safe for concurrent use.
type Store interface {
	Insert(ctx context.Context, u domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]domain.User)}
}

func (s *MemoryStore) Insert(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; ok {
		return errors.New(errors.CodeAlreadyExists, errors.WithMessagef("user already exists: id=%s", u.ID))
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return domain.User{}, errors.New(errors.CodeNotFound, errors.WithMessagef("user not found: id=%s", id))
	}
	return u, nil
}

func (s *MemoryStore) GetAll(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("user not found: id=%s", id))
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) ExistsByID(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[id]
	return ok, nil
}

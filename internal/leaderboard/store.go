package leaderboard

import (
	"context"
	"sync"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
)

// EntryStore persists leaderboard entries. Implementations must be safe for
// concurrent use; the service additionally serializes every mutate+recompute
// sequence, so a store never observes a half-applied recompute pass.
type EntryStore interface {
	Insert(ctx context.Context, e domain.LeaderboardEntry) error
	GetByID(ctx context.Context, id string) (domain.LeaderboardEntry, error)
	GetByUserID(ctx context.Context, userID string) (domain.LeaderboardEntry, error)
	GetAll(ctx context.Context) ([]domain.LeaderboardEntry, error)
	Update(ctx context.Context, e domain.LeaderboardEntry) error
	// UpdateAll applies all updates or none, so a failed recompute pass never
	// leaves a partially-ranked board behind.
	UpdateAll(ctx context.Context, entries []domain.LeaderboardEntry) error
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.LeaderboardEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]domain.LeaderboardEntry)}
}

func (s *MemoryStore) Insert(_ context.Context, e domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID]; ok {
		return errors.New(errors.CodeAlreadyExists, errors.WithMessagef("entry already exists: id=%s", e.ID))
	}
	s.entries[e.ID] = e
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return domain.LeaderboardEntry{}, errors.New(errors.CodeNotFound, errors.WithMessagef("entry not found: id=%s", id))
	}
	return e, nil
}

func (s *MemoryStore) GetByUserID(_ context.Context, userID string) (domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.UserID == userID {
			return e, nil
		}
	}
	return domain.LeaderboardEntry{}, errors.New(errors.CodeNotFound, errors.WithMessagef("entry not found: user=%s", userID))
}

func (s *MemoryStore) GetAll(_ context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.LeaderboardEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *MemoryStore) Update(_ context.Context, e domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID]; !ok {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("entry not found: id=%s", e.ID))
	}
	s.entries[e.ID] = e
	return nil
}

func (s *MemoryStore) UpdateAll(_ context.Context, entries []domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if _, ok := s.entries[e.ID]; !ok {
			return errors.New(errors.CodeNotFound, errors.WithMessagef("entry not found: id=%s", e.ID))
		}
	}
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("entry not found: id=%s", id))
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) ExistsByID(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[id]
	return ok, nil
}

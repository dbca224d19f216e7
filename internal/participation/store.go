package participation

import (
	"context"
	"sync"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
)

// Store persists participation records. Implementations must be safe for
// concurrent use; the service serializes each logical operation on top.
type Store interface {
	Insert(ctx context.Context, p domain.Participation) error
	GetByID(ctx context.Context, id string) (domain.Participation, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Participation, error)
	GetAll(ctx context.Context) ([]domain.Participation, error)
	Update(ctx context.Context, p domain.Participation) error
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.Participation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.Participation)}
}

func (s *MemoryStore) Insert(_ context.Context, p domain.Participation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[p.ID]; ok {
		return errors.New(errors.CodeAlreadyExists, errors.WithMessagef("participation already exists: id=%s", p.ID))
	}
	s.records[p.ID] = p
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (domain.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[id]
	if !ok {
		return domain.Participation{}, errors.New(errors.CodeNotFound, errors.WithMessagef("participation not found: id=%s", id))
	}
	return p, nil
}

func (s *MemoryStore) GetByUserID(_ context.Context, userID string) ([]domain.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.Participation
	for _, p := range s.records {
		if p.UserID == userID {
			records = append(records, p)
		}
	}
	return records, nil
}

func (s *MemoryStore) GetAll(_ context.Context) ([]domain.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.Participation, 0, len(s.records))
	for _, p := range s.records {
		records = append(records, p)
	}
	return records, nil
}

func (s *MemoryStore) Update(_ context.Context, p domain.Participation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[p.ID]; !ok {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("participation not found: id=%s", p.ID))
	}
	s.records[p.ID] = p
	return nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("participation not found: id=%s", id))
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) ExistsByID(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[id]
	return ok, nil
}

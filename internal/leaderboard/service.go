package leaderboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
	"github.com/challengeme/backend/internal/event"
)

type Config struct {
	EventBus    *event.Bus
	Store       EntryStore
	Users       UserDirectory
	Completions CompletionSource
	NowFunc     func() time.Time
}

// UserDirectory resolves user references and denormalized usernames.
type UserDirectory interface {
	Resolve(ctx context.Context, userID string) (domain.User, error)
}

// CompletionSource aggregates challenge completion points per user for
// ranged leaderboards.
type CompletionSource interface {
	AggregatePointsSince(ctx context.Context, since time.Time) (map[string]int, error)
}

// Service owns the global leaderboard. Every mutation runs as one atomic
// unit: the write and the following recompute pass happen under a single
// lock, so readers never observe a half-ranked state.
type Service struct {
	mu          sync.RWMutex
	store       EntryStore
	users       UserDirectory
	completions CompletionSource
	now         func() time.Time
}

func NewService(c Config) *Service {
	s := &Service{
		store:       c.Store,
		users:       c.Users,
		completions: c.Completions,
		now:         c.NowFunc,
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.eventBus(c.EventBus)

	return s
}

func (s *Service) eventBus(eb *event.Bus) {
	if eb == nil {
		return
	}

	eb.Subscribe(domain.EventNameParticipationCompleted, func(ctx context.Context, e event.Event) error {
		ev := e.(domain.EventParticipationCompleted)
		return s.AwardPoints(ctx, ev.Participation.UserID, ev.Points)
	})
}

type CreateEntryRequest struct {
	UserID        string
	InitialPoints int
}

// Create inserts a leaderboard entry for the user and recomputes all ranks.
// The user must resolve in the user directory.
func (s *Service) Create(ctx context.Context, req CreateEntryRequest) (*domain.LeaderboardEntry, error) {
	if req.UserID == "" {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("user ID is required"))
	}
	if req.InitialPoints < 0 {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("points must not be negative: points=%d", req.InitialPoints))
	}

	u, err := s.users.Resolve(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(ctx, u, req.InitialPoints)
}

func (s *Service) createLocked(ctx context.Context, u domain.User, points int) (*domain.LeaderboardEntry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}

	e := domain.LeaderboardEntry{
		ID:          id.String(),
		UserID:      u.ID,
		Username:    u.Username,
		TotalPoints: points,
	}
	if err := s.store.Insert(ctx, e); err != nil {
		return nil, err
	}

	if err := s.recomputeLocked(ctx); err != nil {
		return nil, err
	}

	created, err := s.store.GetByID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) GetAll(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.GetAll(ctx)
}

// GetSorted returns all entries in ranking order. Because every mutation
// ends with a recompute pass, this order always agrees with the stored Rank
// fields.
func (s *Service) GetSorted(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Recalculate(entries), nil
}

// Update replaces the entry's total points and recomputes all ranks.
func (s *Service) Update(ctx context.Context, id string, points int) (*domain.LeaderboardEntry, error) {
	if points < 0 {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("points must not be negative: points=%d", points))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e.TotalPoints = points
	if err := s.store.Update(ctx, e); err != nil {
		return nil, err
	}

	if err := s.recomputeLocked(ctx); err != nil {
		return nil, err
	}

	updated, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	return s.recomputeLocked(ctx)
}

// AwardPoints adds points to the user's entry, creating the entry when the
// user has none yet. Invoked by the participation.completed subscription.
func (s *Service) AwardPoints(ctx context.Context, userID string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.store.GetByUserID(ctx, userID)
	if errors.IsCode(err, errors.CodeNotFound) {
		u, err := s.users.Resolve(ctx, userID)
		if err != nil {
			return err
		}

		_, err = s.createLocked(ctx, u, points)
		return err
	}
	if err != nil {
		return err
	}

	e.TotalPoints += points
	if err := s.store.Update(ctx, e); err != nil {
		return err
	}

	return s.recomputeLocked(ctx)
}

// GetFiltered returns a ranked listing for the given range. ALL_TIME reads
// the ranked entries; WEEKLY and MONTHLY aggregate points from challenge
// completions inside the window.
func (s *Service) GetFiltered(ctx context.Context, rng domain.LeaderboardRange) ([]domain.RankedRow, error) {
	if !rng.Valid() {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("unknown leaderboard range: %q", rng))
	}

	if rng == domain.RangeAllTime {
		sorted, err := s.GetSorted(ctx)
		if err != nil {
			return nil, err
		}

		rows := make([]domain.RankedRow, 0, len(sorted))
		for _, e := range sorted {
			rows = append(rows, domain.RankedRow{
				Rank:     e.Rank,
				UserID:   e.UserID,
				Username: e.Username,
				Points:   e.TotalPoints,
			})
		}
		return rows, nil
	}

	since := s.now().AddDate(0, 0, -7)
	if rng == domain.RangeMonthly {
		since = s.now().AddDate(0, -1, 0)
	}

	totals, err := s.completions.AggregatePointsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("aggregate completions: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(totals))
	for userID, points := range totals {
		u, err := s.users.Resolve(ctx, userID)
		if errors.IsCode(err, errors.CodeNotFound) {
			// User removed since completing; leave them off the listing.
			continue
		}
		if err != nil {
			return nil, err
		}

		entries = append(entries, domain.LeaderboardEntry{
			UserID:      userID,
			Username:    u.Username,
			TotalPoints: points,
		})
	}

	rows := make([]domain.RankedRow, 0, len(entries))
	for _, e := range Recalculate(entries) {
		rows = append(rows, domain.RankedRow{
			Rank:     e.Rank,
			UserID:   e.UserID,
			Username: e.Username,
			Points:   e.TotalPoints,
		})
	}
	return rows, nil
}

// recomputeLocked re-sorts all entries and rewrites every Rank so ranks form
// the contiguous sequence 1..N. Callers must hold the write lock.
func (s *Service) recomputeLocked(ctx context.Context) error {
	entries, err := s.store.GetAll(ctx)
	if err != nil {
		return err
	}

	if err := s.store.UpdateAll(ctx, Recalculate(entries)); err != nil {
		return fmt.Errorf("persist ranks: %w", err)
	}
	return nil
}

package participation

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
	EventBus   *event.Bus
	Store      Store
	Challenges ChallengeDirectory
	NowFunc    func() time.Time
}

// ChallengeDirectory resolves challenge references and their point values.
type ChallengeDirectory interface {
	Get(ctx context.Context, id string) (*domain.Challenge, error)
}

// Service enforces the participation state machine:
//
//	PENDING -> ACCEPTED -> COMPLETED
//
// A record may also go straight from PENDING to COMPLETED, in which case the
// acceptance date is backfilled. Each logical operation runs under a single
// lock so concurrent status updates never interleave.
type Service struct {
	mu         sync.RWMutex
	eb         *event.Bus
	store      Store
	challenges ChallengeDirectory
	now        func() time.Time
}

func NewService(c Config) *Service {
	s := &Service{
		eb:         c.EventBus,
		store:      c.Store,
		challenges: c.Challenges,
		now:        c.NowFunc,
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

type CreateParticipationRequest struct {
	UserID      string
	ChallengeID string
}

// Create links a user to a challenge in PENDING state.
func (s *Service) Create(ctx context.Context, req CreateParticipationRequest) (*domain.Participation, error) {
	if req.UserID == "" {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("user ID is required"))
	}
	if req.ChallengeID == "" {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("challenge ID is required"))
	}

	if _, err := s.challenges.Get(ctx, req.ChallengeID); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate participation ID: %w", err)
	}

	p := domain.Participation{
		ID:          id.String(),
		UserID:      req.UserID,
		ChallengeID: req.ChallengeID,
		Status:      domain.StatusPending,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) GetAll(ctx context.Context) ([]domain.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.GetAll(ctx)
}

func (s *Service) GetByUser(ctx context.Context, userID string) ([]domain.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.GetByUserID(ctx, userID)
}

func (s *Service) GetByUserAndStatus(ctx context.Context, userID string, status domain.ParticipationStatus) ([]domain.Participation, error) {
	if !status.Valid() {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("unknown status: %q", status))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var records []domain.Participation
	for _, p := range all {
		if p.Status == status {
			records = append(records, p)
		}
	}
	return records, nil
}

// UpdateStatus applies a status transition. Only the closed set of known
// statuses is accepted; anything else fails with InvalidArgument before any
// state is touched.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.ParticipationStatus) (*domain.Participation, error) {
	if !status.Valid() {
		return nil, errors.New(errors.CodeInvalidArgument, errors.WithMessagef("unknown status: %q", status))
	}

	s.mu.Lock()
	p, err := s.updateStatusLocked(ctx, id, status)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if p.completedFirstTime && s.eb != nil {
		s.eb.Publish(ctx, domain.EventParticipationCompleted{
			Participation: p.record,
			Points:        p.reward,
		})
	}

	return &p.record, nil
}

type statusUpdate struct {
	record             domain.Participation
	completedFirstTime bool
	reward             int
}

func (s *Service) updateStatusLocked(ctx context.Context, id string, status domain.ParticipationStatus) (statusUpdate, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return statusUpdate{}, err
	}

	var up statusUpdate
	now := s.now()

	switch status {
	case domain.StatusAccepted:
		p.Status = domain.StatusAccepted
		// Re-accepting refreshes the acceptance date. Kept as observed in the
		// legacy system; see the service tests.
		p.DateAccepted = &now

	case domain.StatusCompleted:
		up.completedFirstTime = p.Status != domain.StatusCompleted
		if up.completedFirstTime {
			// Resolve the reward before writing anything, so a failed lookup
			// leaves the record untouched.
			c, err := s.challenges.Get(ctx, p.ChallengeID)
			if err != nil {
				return statusUpdate{}, err
			}
			up.reward = c.Points
			p.TimesCompleted++
		}

		p.Status = domain.StatusCompleted
		if p.DateAccepted == nil {
			p.DateAccepted = &now
		}
		p.DateCompleted = &now

	case domain.StatusPending:
		p.Status = domain.StatusPending
	}

	if err := s.store.Update(ctx, p); err != nil {
		return statusUpdate{}, err
	}

	up.record = p
	return up, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.DeleteByID(ctx, id)
}

// AggregatePointsSince sums challenge reward points per user over records
// completed at or after since. Backs the WEEKLY and MONTHLY leaderboards.
func (s *Service) AggregatePointsSince(ctx context.Context, since time.Time) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	points := make(map[string]int)
	rewards := make(map[string]int)

	for _, p := range all {
		if p.Status != domain.StatusCompleted || p.DateCompleted == nil || p.DateCompleted.Before(since) {
			continue
		}

		reward, ok := rewards[p.ChallengeID]
		if !ok {
			c, err := s.challenges.Get(ctx, p.ChallengeID)
			switch {
			case errors.IsCode(err, errors.CodeNotFound):
				// Challenge removed from the catalog; it no longer scores.
				reward = 0
			case err != nil:
				return nil, err
			default:
				reward = c.Points
			}
			rewards[p.ChallengeID] = reward
		}

		points[p.UserID] += reward
	}

	return points, nil
}

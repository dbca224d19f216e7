package participation

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
)

// RedisStore keeps participation records as JSON values in a single hash,
// keyed by record id.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisStore(r redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{redis: r, prefix: prefix}
}

type redisRecord struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	ChallengeID    string     `json:"challenge_id"`
	Status         string     `json:"status"`
	DateAccepted   *time.Time `json:"date_accepted,omitempty"`
	DateCompleted  *time.Time `json:"date_completed,omitempty"`
	TimesCompleted int        `json:"times_completed"`
}

func toRedisRecord(p domain.Participation) redisRecord {
	return redisRecord{
		ID:             p.ID,
		UserID:         p.UserID,
		ChallengeID:    p.ChallengeID,
		Status:         string(p.Status),
		DateAccepted:   p.DateAccepted,
		DateCompleted:  p.DateCompleted,
		TimesCompleted: p.TimesCompleted,
	}
}

func (r redisRecord) toDomain() domain.Participation {
	return domain.Participation{
		ID:             r.ID,
		UserID:         r.UserID,
		ChallengeID:    r.ChallengeID,
		Status:         domain.ParticipationStatus(r.Status),
		DateAccepted:   r.DateAccepted,
		DateCompleted:  r.DateCompleted,
		TimesCompleted: r.TimesCompleted,
	}
}

func (s *RedisStore) key() string {
	return fmt.Sprintf("%s:participations", s.prefix)
}

func (s *RedisStore) set(ctx context.Context, p domain.Participation) error {
	b, err := json.Marshal(toRedisRecord(p))
	if err != nil {
		return fmt.Errorf("marshal participation: %w", err)
	}

	return s.redis.HSet(ctx, s.key(), p.ID, b).Err()
}

func (s *RedisStore) Insert(ctx context.Context, p domain.Participation) error {
	exists, err := s.redis.HExists(ctx, s.key(), p.ID).Result()
	if err != nil {
		return err
	}
	if exists {
		return errors.New(errors.CodeAlreadyExists, errors.WithMessagef("participation already exists: id=%s", p.ID))
	}

	return s.set(ctx, p)
}

func (s *RedisStore) GetByID(ctx context.Context, id string) (domain.Participation, error) {
	b, err := s.redis.HGet(ctx, s.key(), id).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return domain.Participation{}, errors.New(errors.CodeNotFound, errors.WithMessagef("participation not found: id=%s", id))
	}
	if err != nil {
		return domain.Participation{}, err
	}

	var rec redisRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.Participation{}, fmt.Errorf("unmarshal participation: %w", err)
	}

	return rec.toDomain(), nil
}

func (s *RedisStore) GetByUserID(ctx context.Context, userID string) ([]domain.Participation, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var records []domain.Participation
	for _, p := range all {
		if p.UserID == userID {
			records = append(records, p)
		}
	}
	return records, nil
}

func (s *RedisStore) GetAll(ctx context.Context) ([]domain.Participation, error) {
	m, err := s.redis.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, err
	}

	records := make([]domain.Participation, 0, len(m))
	for id, v := range m {
		var rec redisRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal participation %s: %w", id, err)
		}
		records = append(records, rec.toDomain())
	}
	return records, nil
}

func (s *RedisStore) Update(ctx context.Context, p domain.Participation) error {
	exists, err := s.redis.HExists(ctx, s.key(), p.ID).Result()
	if err != nil {
		return err
	}
	if !exists {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("participation not found: id=%s", p.ID))
	}

	return s.set(ctx, p)
}

func (s *RedisStore) DeleteByID(ctx context.Context, id string) error {
	n, err := s.redis.HDel(ctx, s.key(), id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("participation not found: id=%s", id))
	}

	return nil
}

func (s *RedisStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	return s.redis.HExists(ctx, s.key(), id).Result()
}

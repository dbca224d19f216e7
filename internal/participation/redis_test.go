package participation_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
	"github.com/challengeme/backend/internal/participation"
)

func TestRedisStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	s := makeRedisStore(t)

	accepted := date(2025, 3, 10)
	p := domain.Participation{
		ID:           "p1",
		UserID:       "u1",
		ChallengeID:  "c1",
		Status:       domain.StatusAccepted,
		DateAccepted: &accepted,
	}

	require.NoError(t, s.Insert(ctx, p))

	err := s.Insert(ctx, p)
	require.True(t, errors.IsCode(err, errors.CodeAlreadyExists))

	got, err := s.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, p, got)

	exists, err := s.ExistsByID(ctx, "p1")
	require.NoError(t, err)
	require.True(t, exists)

	completed := date(2025, 3, 12)
	p.Status = domain.StatusCompleted
	p.DateCompleted = &completed
	p.TimesCompleted = 1
	require.NoError(t, s.Update(ctx, p))

	got, err = s.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, p, got)

	require.NoError(t, s.Insert(ctx, domain.Participation{
		ID:          "p2",
		UserID:      "u2",
		ChallengeID: "c1",
		Status:      domain.StatusPending,
	}))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := s.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "p1", mine[0].ID)

	require.NoError(t, s.DeleteByID(ctx, "p1"))

	_, err = s.GetByID(ctx, "p1")
	require.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestRedisStore_NotFound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	s := makeRedisStore(t)

	_, err := s.GetByID(ctx, "missing")
	require.True(t, errors.IsCode(err, errors.CodeNotFound))

	err = s.Update(ctx, domain.Participation{ID: "missing"})
	require.True(t, errors.IsCode(err, errors.CodeNotFound))

	err = s.DeleteByID(ctx, "missing")
	require.True(t, errors.IsCode(err, errors.CodeNotFound))

	exists, err := s.ExistsByID(ctx, "missing")
	require.NoError(t, err)
	require.False(t, exists)
}

func makeRedisStore(t *testing.T) *participation.RedisStore {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rs := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{rs.Addr()},
	})
	require.NoError(t, rc.Ping(ctx).Err(), "should be able to ping redis")

	return participation.NewRedisStore(rc, "challengeme")
}

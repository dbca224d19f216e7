package leaderboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
	"github.com/challengeme/backend/internal/leaderboard"
)

func TestMemoryStore_UpdateAll(t *testing.T) {
	s := leaderboard.NewMemoryStore()

	require.NoError(t, s.Insert(context.Background(), domain.LeaderboardEntry{ID: "e1", UserID: "u1", TotalPoints: 10}))
	require.NoError(t, s.Insert(context.Background(), domain.LeaderboardEntry{ID: "e2", UserID: "u2", TotalPoints: 20}))

	err := s.UpdateAll(context.Background(), []domain.LeaderboardEntry{
		{ID: "e1", UserID: "u1", TotalPoints: 10, Rank: 2},
		{ID: "e2", UserID: "u2", TotalPoints: 20, Rank: 1},
	})
	require.NoError(t, err)

	e, err := s.GetByID(context.Background(), "e2")
	require.NoError(t, err)
	require.Equal(t, 1, e.Rank)
}

func TestMemoryStore_UpdateAllIsAllOrNothing(t *testing.T) {
	s := leaderboard.NewMemoryStore()

	require.NoError(t, s.Insert(context.Background(), domain.LeaderboardEntry{ID: "e1", UserID: "u1", TotalPoints: 10}))

	err := s.UpdateAll(context.Background(), []domain.LeaderboardEntry{
		{ID: "e1", UserID: "u1", TotalPoints: 99, Rank: 1},
		{ID: "ghost", TotalPoints: 1, Rank: 2},
	})
	require.True(t, errors.IsCode(err, errors.CodeNotFound))

	e, err := s.GetByID(context.Background(), "e1")
	require.NoError(t, err)
	require.Equal(t, 10, e.TotalPoints, "a failed batch must not apply partial updates")
	require.Zero(t, e.Rank)
}

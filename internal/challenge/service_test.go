package challenge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/challengeme/backend/internal/challenge"
	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
)

func TestService_Create(t *testing.T) {
	tests := map[string]struct {
		req      challenge.CreateChallengeRequest
		wantCode errors.Code
	}{
		"creates a challenge": {
			req: challenge.CreateChallengeRequest{
				Title:      "morning run",
				Category:   "fitness",
				Difficulty: domain.DifficultyEasy,
				Points:     25,
			},
		},

		"title is required": {
			req:      challenge.CreateChallengeRequest{Points: 25},
			wantCode: errors.CodeInvalidArgument,
		},

		"points must be positive": {
			req:      challenge.CreateChallengeRequest{Title: "morning run"},
			wantCode: errors.CodeInvalidArgument,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := makeService()

			c, err := s.Create(context.Background(), tt.req)
			if tt.wantCode != 0 {
				require.True(t, errors.IsCode(err, tt.wantCode), "got err: %v", err)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, c.ID)
			require.Equal(t, tt.req.Title, c.Title)
			require.Equal(t, tt.req.Points, c.Points)
		})
	}
}

func TestService_UpdateAndDelete(t *testing.T) {
	s := makeService()

	c, err := s.Create(context.Background(), challenge.CreateChallengeRequest{
		Title:  "morning run",
		Points: 25,
	})
	require.NoError(t, err)

	updated, err := s.Update(context.Background(), c.ID, challenge.UpdateChallengeRequest{
		Title:  "evening run",
		Points: 40,
	})
	require.NoError(t, err)
	require.Equal(t, "evening run", updated.Title)
	require.Equal(t, 40, updated.Points)

	_, err = s.Update(context.Background(), "missing", challenge.UpdateChallengeRequest{Title: "x", Points: 1})
	require.True(t, errors.IsCode(err, errors.CodeNotFound))

	require.NoError(t, s.Delete(context.Background(), c.ID))

	_, err = s.Get(context.Background(), c.ID)
	require.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func makeService() *challenge.Service {
	return challenge.NewService(challenge.Config{
		Store: challenge.NewMemoryStore(),
	})
}

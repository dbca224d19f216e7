package demo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/challengeme/backend/internal/api"
	"github.com/challengeme/backend/internal/challenge"
	"github.com/challengeme/backend/internal/event"
	"github.com/challengeme/backend/internal/leaderboard"
	"github.com/challengeme/backend/internal/participation"
	"github.com/challengeme/backend/internal/user"
)

type (
	userResp struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}

	entryResp struct {
		ID          string `json:"id"`
		UserID      string `json:"user_id"`
		Username    string `json:"username"`
		TotalPoints int    `json:"total_points"`
		Rank        int    `json:"rank"`
	}

	challengeResp struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Points int    `json:"points"`
	}

	participationResp struct {
		ID            string  `json:"id"`
		Status        string  `json:"status"`
		DateAccepted  *string `json:"date_accepted"`
		DateCompleted *string `json:"date_completed"`
	}
)

func TestChallengePlatform(t *testing.T) {
	eb, ts := startServer(t)
	defer ts.Close()

	// Register users.
	var alice, bob, carol userResp
	do(t, ts, http.MethodPost, "/v1/users", map[string]any{"username": "alice"}, http.StatusCreated, &alice)
	do(t, ts, http.MethodPost, "/v1/users", map[string]any{"username": "bob"}, http.StatusCreated, &bob)
	do(t, ts, http.MethodPost, "/v1/users", map[string]any{"username": "carol"}, http.StatusCreated, &carol)

	// Seed the leaderboard: alice 100, bob 150.
	var aliceEntry, bobEntry entryResp
	do(t, ts, http.MethodPost, "/v1/leaderboard", map[string]any{"user_id": alice.ID, "initial_points": 100}, http.StatusCreated, &aliceEntry)
	do(t, ts, http.MethodPost, "/v1/leaderboard", map[string]any{"user_id": bob.ID, "initial_points": 150}, http.StatusCreated, &bobEntry)

	var sorted []entryResp
	do(t, ts, http.MethodGet, "/v1/leaderboard/sorted", nil, http.StatusOK, &sorted)
	require.Equal(t, []string{bobEntry.ID, aliceEntry.ID}, entryIDs(sorted))
	require.Equal(t, 1, sorted[0].Rank)
	require.Equal(t, 2, sorted[1].Rank)

	// Alice pulls ahead.
	do(t, ts, http.MethodPut, "/v1/leaderboard/"+aliceEntry.ID, map[string]any{"total_points": 200}, http.StatusOK, nil)
	do(t, ts, http.MethodGet, "/v1/leaderboard/sorted", nil, http.StatusOK, &sorted)
	require.Equal(t, []string{aliceEntry.ID, bobEntry.ID}, entryIDs(sorted))

	// Publish a challenge worth 40 points.
	var ch challengeResp
	do(t, ts, http.MethodPost, "/v1/challenges", map[string]any{
		"title":      "no sugar for a week",
		"category":   "health",
		"difficulty": "HARD",
		"points":     40,
	}, http.StatusCreated, &ch)

	// Carol takes the challenge and completes it without a formal accept.
	var p participationResp
	do(t, ts, http.MethodPost, "/v1/participations", map[string]any{"user_id": carol.ID, "challenge_id": ch.ID}, http.StatusCreated, &p)
	require.Equal(t, "PENDING", p.Status)
	require.Nil(t, p.DateAccepted)
	require.Nil(t, p.DateCompleted)

	do(t, ts, http.MethodPut, "/v1/participations/"+p.ID+"/status", map[string]any{"status": "COMPLETED"}, http.StatusOK, &p)
	require.Equal(t, "COMPLETED", p.Status)
	require.NotNil(t, p.DateAccepted, "acceptance date is backfilled on direct completion")
	require.NotNil(t, p.DateCompleted)
	require.Equal(t, *p.DateAccepted, *p.DateCompleted)

	// Wait for the completion reward to land, then carol appears on the board.
	eb.Stop()

	do(t, ts, http.MethodGet, "/v1/leaderboard/sorted", nil, http.StatusOK, &sorted)
	require.Len(t, sorted, 3)
	require.Equal(t, carol.ID, sorted[2].UserID)
	require.Equal(t, 40, sorted[2].TotalPoints)
	require.Equal(t, 3, sorted[2].Rank)

	// Unknown ids surface as 404s.
	do(t, ts, http.MethodGet, "/v1/leaderboard/nope", nil, http.StatusNotFound, nil)
	do(t, ts, http.MethodDelete, "/v1/participations/nope", nil, http.StatusNotFound, nil)
}

func startServer(t *testing.T) (*event.Bus, *httptest.Server) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	eb := event.NewBus()

	us := user.NewService(user.Config{Store: user.NewMemoryStore()})
	cs := challenge.NewService(challenge.Config{Store: challenge.NewMemoryStore()})

	ps := participation.NewService(participation.Config{
		EventBus:   eb,
		Store:      participation.NewMemoryStore(),
		Challenges: cs,
	})

	ls := leaderboard.NewService(leaderboard.Config{
		EventBus:    eb,
		Store:       leaderboard.NewMemoryStore(),
		Users:       us,
		Completions: ps,
	})

	e := gin.New()
	api.New(api.Config{
		Router:        e,
		Leaderboard:   ls,
		Participation: ps,
		Challenge:     cs,
		User:          us,
	})

	return eb, httptest.NewServer(e)
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any, wantStatus int, out any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equalf(t, wantStatus, resp.StatusCode, "%s %s", method, path)

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func entryIDs(entries []entryResp) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprint(e.ID))
	}
	return out
}

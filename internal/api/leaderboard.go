package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/leaderboard"
)

type LeaderboardEntry struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username,omitempty"`
	TotalPoints int    `json:"total_points"`
	Rank        int    `json:"rank"`
}

func toLeaderboardEntry(e domain.LeaderboardEntry) LeaderboardEntry {
	return LeaderboardEntry{
		ID:          e.ID,
		UserID:      e.UserID,
		Username:    e.Username,
		TotalPoints: e.TotalPoints,
		Rank:        e.Rank,
	}
}

func toLeaderboardEntries(entries []domain.LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLeaderboardEntry(e))
	}
	return out
}

type createEntryRequest struct {
	UserID        string `json:"user_id"`
	InitialPoints int    `json:"initial_points"`
}

func (a *API) createEntry(c *gin.Context) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalid(c, err)
		return
	}

	e, err := a.ls.Create(c.Request.Context(), leaderboard.CreateEntryRequest{
		UserID:        req.UserID,
		InitialPoints: req.InitialPoints,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toLeaderboardEntry(*e))
}

func (a *API) getEntry(c *gin.Context) {
	e, err := a.ls.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLeaderboardEntry(*e))
}

func (a *API) getAllEntries(c *gin.Context) {
	entries, err := a.ls.GetAll(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLeaderboardEntries(entries))
}

func (a *API) getSortedEntries(c *gin.Context) {
	entries, err := a.ls.GetSorted(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLeaderboardEntries(entries))
}

type rankedRow struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Points   int    `json:"points"`
}

func (a *API) getFilteredLeaderboard(c *gin.Context) {
	rng := domain.LeaderboardRange(c.DefaultQuery("range", string(domain.RangeAllTime)))

	rows, err := a.ls.GetFiltered(c.Request.Context(), rng)
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]rankedRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, rankedRow{
			Rank:     r.Rank,
			UserID:   r.UserID,
			Username: r.Username,
			Points:   r.Points,
		})
	}

	c.JSON(http.StatusOK, out)
}

type updateEntryRequest struct {
	TotalPoints int `json:"total_points"`
}

func (a *API) updateEntry(c *gin.Context) {
	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalid(c, err)
		return
	}

	e, err := a.ls.Update(c.Request.Context(), c.Param("id"), req.TotalPoints)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLeaderboardEntry(*e))
}

func (a *API) deleteEntry(c *gin.Context) {
	if err := a.ls.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/participation"
)

type Participation struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	ChallengeID    string     `json:"challenge_id"`
	Status         string     `json:"status"`
	DateAccepted   *time.Time `json:"date_accepted,omitempty"`
	DateCompleted  *time.Time `json:"date_completed,omitempty"`
	TimesCompleted int        `json:"times_completed"`
}

func toParticipation(p domain.Participation) Participation {
	return Participation{
		ID:             p.ID,
		UserID:         p.UserID,
		ChallengeID:    p.ChallengeID,
		Status:         string(p.Status),
		DateAccepted:   p.DateAccepted,
		DateCompleted:  p.DateCompleted,
		TimesCompleted: p.TimesCompleted,
	}
}

func toParticipations(records []domain.Participation) []Participation {
	out := make([]Participation, 0, len(records))
	for _, p := range records {
		out = append(out, toParticipation(p))
	}
	return out
}

type createParticipationRequest struct {
	UserID      string `json:"user_id"`
	ChallengeID string `json:"challenge_id"`
}

func (a *API) createParticipation(c *gin.Context) {
	var req createParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalid(c, err)
		return
	}

	p, err := a.ps.Create(c.Request.Context(), participation.CreateParticipationRequest{
		UserID:      req.UserID,
		ChallengeID: req.ChallengeID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toParticipation(*p))
}

func (a *API) getParticipation(c *gin.Context) {
	p, err := a.ps.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toParticipation(*p))
}

func (a *API) getAllParticipations(c *gin.Context) {
	records, err := a.ps.GetAll(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toParticipations(records))
}

func (a *API) getParticipationsByUser(c *gin.Context) {
	var (
		ctx    = c.Request.Context()
		userID = c.Param("id")
	)

	var (
		records []domain.Participation
		err     error
	)
	if status := c.Query("status"); status != "" {
		records, err = a.ps.GetByUserAndStatus(ctx, userID, domain.ParticipationStatus(status))
	} else {
		records, err = a.ps.GetByUser(ctx, userID)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toParticipations(records))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) updateParticipationStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalid(c, err)
		return
	}

	p, err := a.ps.UpdateStatus(c.Request.Context(), c.Param("id"), domain.ParticipationStatus(req.Status))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toParticipation(*p))
}

func (a *API) deleteParticipation(c *gin.Context) {
	if err := a.ps.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

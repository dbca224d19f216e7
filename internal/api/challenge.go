package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challengeme/backend/internal/challenge"
	"github.com/challengeme/backend/internal/domain"
)

type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Points      int    `json:"points"`
	CreatedBy   string `json:"created_by,omitempty"`
}

func toChallenge(c domain.Challenge) Challenge {
	return Challenge{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Difficulty:  string(c.Difficulty),
		Points:      c.Points,
		CreatedBy:   c.CreatedBy,
	}
}

type challengeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	Points      int    `json:"points"`
	CreatedBy   string `json:"created_by"`
}

func (a *API) createChallenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalid(c, err)
		return
	}

	ch, err := a.cs.Create(c.Request.Context(), challenge.CreateChallengeRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  domain.ChallengeDifficulty(req.Difficulty),
		Points:      req.Points,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toChallenge(*ch))
}

func (a *API) getChallenge(c *gin.Context) {
	ch, err := a.cs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallenge(*ch))
}

func (a *API) getAllChallenges(c *gin.Context) {
	challenges, err := a.cs.GetAll(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]Challenge, 0, len(challenges))
	for _, ch := range challenges {
		out = append(out, toChallenge(ch))
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) updateChallenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalid(c, err)
		return
	}

	ch, err := a.cs.Update(c.Request.Context(), c.Param("id"), challenge.UpdateChallengeRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  domain.ChallengeDifficulty(req.Difficulty),
		Points:      req.Points,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallenge(*ch))
}

func (a *API) deleteChallenge(c *gin.Context) {
	if err := a.cs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

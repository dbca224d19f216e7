package api

import (
	"github.com/gin-gonic/gin"

	"github.com/challengeme/backend/internal/challenge"
	"github.com/challengeme/backend/internal/errors"
	"github.com/challengeme/backend/internal/leaderboard"
	"github.com/challengeme/backend/internal/participation"
	"github.com/challengeme/backend/internal/user"
)

type Config struct {
	Router        gin.IRouter
	Leaderboard   *leaderboard.Service
	Participation *participation.Service
	Challenge     *challenge.Service
	User          *user.Service
}

// API is the HTTP surface over the services. It owns no business rules: it
// binds requests, delegates, and maps the error taxonomy to status codes.
type API struct {
	ls *leaderboard.Service
	ps *participation.Service
	cs *challenge.Service
	us *user.Service
}

func New(c Config) *API {
	a := &API{
		ls: c.Leaderboard,
		ps: c.Participation,
		cs: c.Challenge,
		us: c.User,
	}

	a.register(c.Router)

	return a
}

func (a *API) register(r gin.IRouter) {
	v1 := r.Group("/v1")

	lb := v1.Group("/leaderboard")
	lb.POST("", a.createEntry)
	lb.GET("", a.getAllEntries)
	lb.GET("/sorted", a.getSortedEntries)
	lb.GET("/ranked", a.getFilteredLeaderboard)
	lb.GET("/:id", a.getEntry)
	lb.PUT("/:id", a.updateEntry)
	lb.DELETE("/:id", a.deleteEntry)

	ps := v1.Group("/participations")
	ps.POST("", a.createParticipation)
	ps.GET("", a.getAllParticipations)
	ps.GET("/:id", a.getParticipation)
	ps.PUT("/:id/status", a.updateParticipationStatus)
	ps.DELETE("/:id", a.deleteParticipation)

	cs := v1.Group("/challenges")
	cs.POST("", a.createChallenge)
	cs.GET("", a.getAllChallenges)
	cs.GET("/:id", a.getChallenge)
	cs.PUT("/:id", a.updateChallenge)
	cs.DELETE("/:id", a.deleteChallenge)

	us := v1.Group("/users")
	us.POST("", a.createUser)
	us.GET("", a.getAllUsers)
	us.GET("/:id", a.getUser)
	us.DELETE("/:id", a.deleteUser)
	us.GET("/:id/participations", a.getParticipationsByUser)
}

func abortWithError(c *gin.Context, err error) {
	e := errors.Convert(err)
	c.AbortWithStatusJSON(e.HTTPStatusCode(), e)
}

func abortInvalid(c *gin.Context, err error) {
	abortWithError(c, errors.New(errors.CodeInvalidArgument, errors.WithCause(err), errors.WithMessagef("invalid request: %v", err)))
}

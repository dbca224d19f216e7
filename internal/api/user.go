package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/user"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func toUser(u domain.User) User {
	return User{ID: u.ID, Username: u.Username}
}

type createUserRequest struct {
	Username string `json:"username"`
}

func (a *API) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalid(c, err)
		return
	}

	u, err := a.us.Create(c.Request.Context(), user.CreateUserRequest{
		Username: req.Username,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUser(*u))
}

func (a *API) getUser(c *gin.Context) {
	u, err := a.us.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUser(*u))
}

func (a *API) getAllUsers(c *gin.Context) {
	users, err := a.us.GetAll(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, toUser(u))
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) deleteUser(c *gin.Context) {
	if err := a.us.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

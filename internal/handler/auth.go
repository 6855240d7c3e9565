package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/middleware"
	"github.com/nexuslab/capture/internal/session"
)

// sessionMaxAge keeps the marker cookie for thirty days.
const sessionMaxAge = 30 * 24 * 60 * 60

type loginRequest struct {
	Username string `json:"username" binding:"required"`
}

// Login resolves a username against the identity table and sets the session
// marker cookie.
// POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	user, ok := h.sessions.Resolve(req.Username)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
		return
	}

	c.SetCookie(session.CookieName, user.Username, sessionMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, user)
}

// Logout clears the session marker cookie.
// POST /api/v1/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// Users lists the known identities for the login screen.
// GET /api/v1/auth/users
func (h *Handlers) Users(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.sessions.Users()})
}

// Me returns the identity resolved from the current session.
// GET /api/v1/auth/me
func (h *Handlers) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, user)
}

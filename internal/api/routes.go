package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nexuslab/capture/internal/handler"
	"github.com/nexuslab/capture/internal/middleware"
	"github.com/nexuslab/capture/internal/session"
)

// setupRoutes registers all API routes.
func setupRoutes(
	router *gin.Engine,
	h *handler.Handlers,
	health *handler.HealthHandler,
	sessions *session.Resolver,
) {
	router.GET("/health", health.HealthCheck)

	v1 := router.Group("/api/v1")

	// Public routes: login screen and session management.
	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/users", h.Users)

	// Everything else requires a resolved session.
	protected := v1.Group("")
	protected.Use(middleware.RequireSession(sessions))

	protected.GET("/auth/me", h.Me)

	protected.POST("/inspirations", h.CreateInspiration)
	protected.GET("/inspirations", h.ListInspirations)
	protected.PATCH("/inspirations/:id", h.UpdateInspiration)
	protected.DELETE("/inspirations/:id", h.DeleteInspiration)

	protected.POST("/suggest", h.Suggest)
	protected.GET("/link-preview", h.LinkPreview)

	protected.GET("/settings/tags", h.GetTags)
	protected.PUT("/settings/tags", h.PutTags)
}

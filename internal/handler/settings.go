package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/middleware"
)

type tagsRequest struct {
	Tags []string `json:"tags"`
}

// GetTags returns the caller's tag vocabulary, seeding the defaults on
// first read.
// GET /api/v1/settings/tags
func (h *Handlers) GetTags(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	tags, err := h.settings.Tags(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// PutTags replaces the caller's tag vocabulary.
// PUT /api/v1/settings/tags
func (h *Handlers) PutTags(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	var req tagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error()))
		return
	}

	if err := h.settings.SetTags(c.Request.Context(), user.ID, req.Tags); err != nil {
		respondError(c, err)
		return
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

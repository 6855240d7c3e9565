package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
	"github.com/nexuslab/capture/internal/middleware"
	"github.com/nexuslab/capture/internal/suggest"
)

type suggestRequest struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type suggestResponse struct {
	Title        string   `json:"title"`
	PrimaryTag   string   `json:"primary_tag"`
	SecondaryTag string   `json:"secondary_tag"`
	Tags         []string `json:"tags"`
}

// Suggest asks the AI service for a title and tags. The suggestion is biased
// toward the caller's tag vocabulary; when the service fails or returns
// nothing the handler responds 204 and the client keeps manual entry.
// POST /api/v1/suggest
func (h *Handlers) Suggest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error()))
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		respondError(c, fmt.Errorf("%w: description is required", domain.ErrValidation))
		return
	}

	ctx := c.Request.Context()

	vocabulary, err := h.settings.Tags(ctx, user.ID)
	if err != nil {
		// The vocabulary only biases the suggestion; proceed without it.
		h.log.Warn("Failed to load tag vocabulary", logger.Error(err), logger.String("user_id", user.ID))
		vocabulary = nil
	}

	suggestion, err := h.suggester.Suggest(ctx, req.Description, vocabulary)
	if err != nil {
		if errors.Is(err, domain.ErrSuggestionUnavailable) {
			c.Status(http.StatusNoContent)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestResponse{
		Title:        suggestion.Title,
		PrimaryTag:   suggestion.PrimaryTag,
		SecondaryTag: suggestion.SecondaryTag,
		Tags:         suggest.MergeTags(req.Tags, suggestion.PrimaryTag, suggestion.SecondaryTag),
	})
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
	"github.com/nexuslab/capture/internal/preview"
)

// LinkPreview resolves a screenshot URL and page title for a website link.
// When the page title cannot be fetched the URL itself is returned so the
// client always has something to display.
// GET /api/v1/link-preview?url=...
func (h *Handlers) LinkPreview(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		respondError(c, fmt.Errorf("%w: url query parameter is required", domain.ErrValidation))
		return
	}

	ctx := c.Request.Context()

	image, err := h.previews.PreviewImage(ctx, rawURL)
	if err != nil {
		if errors.Is(err, preview.ErrUnresolvable) {
			respondError(c, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error()))
			return
		}
		respondError(c, err)
		return
	}

	title, err := h.previews.PageTitle(ctx, rawURL)
	if err != nil || title == "" {
		if err != nil {
			h.log.Debug("Page title probe failed", logger.String("url", rawURL), logger.Error(err))
		}
		title = rawURL
	}

	c.JSON(http.StatusOK, gin.H{
		"url":   rawURL,
		"image": image,
		"title": title,
	})
}

// Package handler provides the HTTP handlers of the capture API.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
	"github.com/nexuslab/capture/internal/media"
	"github.com/nexuslab/capture/internal/session"
	"github.com/nexuslab/capture/internal/suggest"
)

// InspirationRepo is the repository surface the handlers depend on.
type InspirationRepo interface {
	Create(ctx context.Context, user domain.User, in domain.InspirationCreate) (*domain.Inspiration, error)
	List(ctx context.Context, user domain.User) ([]domain.Inspiration, error)
	Update(ctx context.Context, user domain.User, id uuid.UUID, upd domain.InspirationUpdate) (*domain.Inspiration, error)
	Delete(ctx context.Context, user domain.User, id uuid.UUID) error
}

// Suggester produces AI title/tag suggestions.
type Suggester interface {
	Suggest(ctx context.Context, description string, knownTags []string) (suggest.Suggestion, error)
}

// SettingsStore holds per-user tag vocabularies.
type SettingsStore interface {
	Tags(ctx context.Context, userID string) ([]string, error)
	SetTags(ctx context.Context, userID string, tags []string) error
}

// PreviewResolver resolves preview-image URLs and page titles for website
// links.
type PreviewResolver interface {
	PreviewImage(ctx context.Context, rawURL string) (string, error)
	PageTitle(ctx context.Context, rawURL string) (string, error)
}

// Handlers bundles the HTTP handlers and their dependencies.
type Handlers struct {
	repo       InspirationRepo
	normalizer *media.Normalizer
	suggester  Suggester
	settings   SettingsStore
	previews   PreviewResolver
	sessions   *session.Resolver
	log        logger.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(
	repo InspirationRepo,
	normalizer *media.Normalizer,
	suggester Suggester,
	settings SettingsStore,
	previews PreviewResolver,
	sessions *session.Resolver,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		repo:       repo,
		normalizer: normalizer,
		suggester:  suggester,
		settings:   settings,
		previews:   previews,
		sessions:   sessions,
		log:        log,
	}
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	var tooLarge *domain.PayloadTooLargeError

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLarge.Error(), "size": tooLarge.Size})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": domain.ErrStorageUnavailable.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

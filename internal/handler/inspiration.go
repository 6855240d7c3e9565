package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
	"github.com/nexuslab/capture/internal/media"
	"github.com/nexuslab/capture/internal/middleware"
)

type assetRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

type createRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Assets      []assetRequest `json:"assets"`
}

// CreateInspiration captures a new inspiration record. Accepts JSON with
// asset contents as URLs or data URIs, or multipart form data with file
// parts under "assets" and link values under "links".
// POST /api/v1/inspirations
func (h *Handlers) CreateInspiration(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	var in domain.InspirationCreate
	var err error

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		in, err = h.createFromMultipart(c)
	} else {
		in, err = h.createFromJSON(c)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		respondError(c, fmt.Errorf("%w: title and description are required", domain.ErrValidation))
		return
	}

	insp, err := h.repo.Create(c.Request.Context(), user, in)
	if err != nil {
		h.log.Error("Failed to create inspiration",
			logger.Error(err),
			logger.String("user_id", user.ID),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, insp)
}

func (h *Handlers) createFromJSON(c *gin.Context) (domain.InspirationCreate, error) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return domain.InspirationCreate{}, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	ctx := c.Request.Context()
	assets := make([]domain.AssetInput, 0, len(req.Assets))
	for _, a := range req.Assets {
		input := h.normalizer.NormalizeString(ctx, a.Content)
		input.Filename = a.Filename
		assets = append(assets, input)
	}

	return domain.InspirationCreate{
		Title:       req.Title,
		Description: req.Description,
		Assets:      assets,
		Tags:        req.Tags,
	}, nil
}

func (h *Handlers) createFromMultipart(c *gin.Context) (domain.InspirationCreate, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return domain.InspirationCreate{}, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	ctx := c.Request.Context()
	assets := make([]domain.AssetInput, 0, len(form.File["assets"])+len(form.Value["links"]))
	previews := make([]*media.Preview, 0, len(form.File["assets"]))

	// Previews exist only for immediate feedback; they are released as soon
	// as the request ends, never uploaded.
	defer func() {
		for _, p := range previews {
			if relErr := p.Release(); relErr != nil {
				h.log.Warn("Failed to release preview", logger.Error(relErr))
			}
		}
	}()

	for _, fh := range form.File["assets"] {
		input, prev, fileErr := h.normalizer.NormalizeFile(ctx, fh)
		if fileErr != nil {
			return domain.InspirationCreate{}, fmt.Errorf("%w: read file %q: %s", domain.ErrValidation, fh.Filename, fileErr.Error())
		}
		previews = append(previews, prev)
		assets = append(assets, input)
	}

	for _, link := range form.Value["links"] {
		assets = append(assets, h.normalizer.NormalizeString(ctx, link))
	}

	return domain.InspirationCreate{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Assets:      assets,
		Tags:        form.Value["tags"],
	}, nil
}

// ListInspirations returns the caller's records, newest first. An optional
// "q" parameter filters by title, description or tag substring.
// GET /api/v1/inspirations
func (h *Handlers) ListInspirations(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	records, err := h.repo.List(c.Request.Context(), user)
	if err != nil {
		h.log.Error("Failed to list inspirations", logger.Error(err), logger.String("user_id", user.ID))
		respondError(c, err)
		return
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		records = filterRecords(records, q)
	}

	c.JSON(http.StatusOK, gin.H{
		"inspirations": records,
		"count":        len(records),
	})
}

// filterRecords keeps records whose title, description or any tag contains q,
// case-insensitive.
func filterRecords(records []domain.Inspiration, q string) []domain.Inspiration {
	q = strings.ToLower(q)
	out := make([]domain.Inspiration, 0, len(records))

	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Title), q) ||
			strings.Contains(strings.ToLower(rec.Description), q) ||
			anyTagContains(rec.Tags, q) {
			out = append(out, rec)
		}
	}

	return out
}

func anyTagContains(tags []string, q string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// UpdateInspiration mutates title, description and/or tags of a record the
// caller owns. Assets are immutable through this path.
// PATCH /api/v1/inspirations/:id
func (h *Handlers) UpdateInspiration(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: invalid inspiration id", domain.ErrValidation))
		return
	}

	var upd domain.InspirationUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondError(c, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error()))
		return
	}

	insp, err := h.repo.Update(c.Request.Context(), user, id, upd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, insp)
}

// DeleteInspiration permanently deletes a record the caller owns, including
// best-effort cleanup of its stored objects.
// DELETE /api/v1/inspirations/:id
func (h *Handlers) DeleteInspiration(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("%w: invalid inspiration id", domain.ErrValidation))
		return
	}

	if err := h.repo.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

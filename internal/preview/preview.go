// Package preview resolves preview images and titles for website links.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/nexuslab/capture/internal/logger"
)

// fetchTimeout bounds the page fetch for title extraction.
const fetchTimeout = 10 * time.Second

// ErrUnresolvable is returned when no preview image can be derived for a URL.
var ErrUnresolvable = errors.New("preview image unresolvable")

// Service constructs screenshot-service URLs for arbitrary website links and
// probes pages for a usable title. Both operations are best-effort; callers
// fall back to the raw URL or an empty title on failure.
type Service struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

// NewService creates a preview service. baseURL is the screenshot service
// prefix the target URL is appended to.
func NewService(baseURL string, log logger.Logger) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: fetchTimeout},
		log:     log,
	}
}

// PreviewImage returns the preview-image URL for a website link. It fails if
// the service is unconfigured or the link is not an absolute http(s) URL.
func (s *Service) PreviewImage(_ context.Context, rawURL string) (string, error) {
	if s.baseURL == "" {
		return "", ErrUnresolvable
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("%w: invalid url %q", ErrUnresolvable, rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrUnresolvable, parsed.Scheme)
	}

	// The screenshot service takes the full target URL as a path suffix.
	return s.baseURL + "/" + rawURL, nil
}

// PageTitle fetches a page and extracts its title with a readability pass.
// Failures return an empty title and the error; callers treat both as
// "no title available".
func (s *Service) PageTitle(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("extract title: %w", err)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		return "", errors.New("extract title: empty")
	}

	s.log.Debug("Resolved page title",
		logger.String("url", rawURL),
		logger.String("title", title),
	)

	return title, nil
}

// Package objectstore persists asset payloads to MinIO-compatible object
// storage and maps between storage keys and public URLs.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nexuslab/capture/internal/config"
	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
	"github.com/nexuslab/capture/internal/media"
)

// anonymousOwner is the key segment used when no session owner is known.
const anonymousOwner = "anonymous"

// ObjectAPI is the subset of the MinIO client the store uses.
// *minio.Client satisfies it.
type ObjectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader,
		objectSize int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts miniogo.RemoveObjectOptions) error
}

// RemoveResult is the per-key outcome of a batch removal.
type RemoveResult struct {
	Key string
	Err error
}

// Store uploads asset payloads and removes stored objects.
type Store struct {
	client    ObjectAPI
	bucket    string
	publicURL string
	log       logger.Logger
}

// New creates a store backed by a MinIO client built from cfg.
func New(cfg config.StorageConfig, log logger.Logger) (*Store, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return NewWithClient(client, cfg.Bucket, cfg.PublicURL, log), nil
}

// NewWithClient creates a store over an existing client. publicURL is the
// externally reachable base for stored objects, including the bucket segment.
func NewWithClient(client ObjectAPI, bucket, publicURL string, log logger.Logger) *Store {
	return &Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

// Upload persists one asset's payload and returns the asset in durable form.
// Content that is not a well-formed transient data URI passes through
// unchanged. Payloads above the size limit fail with a PayloadTooLargeError
// carrying the measured size; backend failures wrap ErrStorageUnavailable.
func (s *Store) Upload(ctx context.Context, userID string, in domain.AssetInput) (domain.MediaAsset, error) {
	if !media.IsDataURI(in.Content) {
		// Already durable (or an external pass-through link): idempotent no-op.
		return domain.MediaAsset{Type: in.Type, Content: in.Content}, nil
	}

	mimeType, data, err := media.ParseDataURI(in.Content)
	if err != nil {
		// Matches the normalizer's degrade path: malformed transient
		// content is kept verbatim, never fatal to the capture.
		s.log.Warn("Unparseable data URI stored as-is", logger.Error(err))
		return domain.MediaAsset{Type: in.Type, Content: in.Content}, nil
	}

	if int64(len(data)) > domain.MaxPayloadBytes {
		return domain.MediaAsset{}, &domain.PayloadTooLargeError{Size: int64(len(data))}
	}

	key := s.objectKey(userID, in.Filename, mimeType)

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		miniogo.PutObjectOptions{ContentType: mimeType},
	)
	if err != nil {
		return domain.MediaAsset{}, fmt.Errorf("%w: put %s: %w", domain.ErrStorageUnavailable, key, err)
	}

	s.log.Debug("Uploaded asset",
		logger.String("key", key),
		logger.Int("size", len(data)),
		logger.String("content_type", mimeType),
	)

	return domain.MediaAsset{Type: in.Type, Content: s.PublicURLFor(key)}, nil
}

// RemoveMany deletes stored objects by key, best effort. Each key gets its
// own outcome; failures are logged and never abort the batch.
func (s *Store) RemoveMany(ctx context.Context, keys []string) []RemoveResult {
	results := make([]RemoveResult, 0, len(keys))
	for _, key := range keys {
		err := s.client.RemoveObject(ctx, s.bucket, key, miniogo.RemoveObjectOptions{})
		if err != nil {
			s.log.Warn("Failed to remove stored object",
				logger.String("key", key),
				logger.Error(err),
			)
		}
		results = append(results, RemoveResult{Key: key, Err: err})
	}
	return results
}

// PublicURLFor returns the public URL for a storage key.
func (s *Store) PublicURLFor(key string) string {
	return s.publicURL + "/" + key
}

// KeyFromURL extracts the storage key from a durable URL: everything after
// the public-object path prefix, percent-decoded. URLs outside this store's
// prefix are not owned here and yield no key.
func (s *Store) KeyFromURL(rawURL string) (string, bool) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}

	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, prefix))
	if err != nil || key == "" {
		return "", false
	}

	return key, true
}

// objectKey derives a collision-free storage key for a new object:
// media/{owner}/{random}.{ext}. The random id (not a content hash) keeps
// concurrent uploads of identical bytes distinct; no deduplication happens.
func (s *Store) objectKey(userID, filename, mimeType string) string {
	owner := userID
	if owner == "" {
		owner = anonymousOwner
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = extFromMIME(mimeType)
	}

	return fmt.Sprintf("media/%s/%s.%s", owner, uuid.NewString(), ext)
}

// extFromMIME falls back to the MIME subtype when no filename extension is
// declared.
func extFromMIME(mimeType string) string {
	_, subtype, found := strings.Cut(mimeType, "/")
	if !found || subtype == "" {
		return "bin"
	}
	// Strip structured-syntax suffixes like svg+xml.
	if base, _, hasSuffix := strings.Cut(subtype, "+"); hasSuffix {
		return base
	}
	return subtype
}

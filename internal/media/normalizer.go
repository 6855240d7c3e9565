// Package media classifies raw client inputs into typed asset descriptors.
package media

import (
	"context"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
)

// imageExtensions are the recognized static-image extensions, matched
// case-insensitively against the end of a URL string.
var imageExtensions = []string{".jpg", ".jpeg", ".gif", ".png", ".webp"}

// ImageResolver resolves a preview-image URL for an arbitrary website link.
type ImageResolver interface {
	PreviewImage(ctx context.Context, rawURL string) (string, error)
}

// VideoTranscoder runs a single compression pass over a video payload.
type VideoTranscoder interface {
	Compress(ctx context.Context, data []byte) ([]byte, error)
}

// Normalizer classifies raw inputs (files, URLs, data URIs) into typed asset
// descriptors. No input is fatal: anything unrecognized degrades to a website
// reference with the raw string as content.
type Normalizer struct {
	previews ImageResolver
	videos   VideoTranscoder
	log      logger.Logger
}

// NewNormalizer creates a normalizer using the given preview-image resolver
// and video transcoder. videos may be nil; video payloads then stay as
// received.
func NewNormalizer(previews ImageResolver, videos VideoTranscoder, log logger.Logger) *Normalizer {
	return &Normalizer{previews: previews, videos: videos, log: log}
}

// NormalizeString classifies a string input: a recognized static-image URL
// stays an image with content verbatim; a data URI is classified by its MIME
// type and kept transient for upload; anything else is a website link whose
// content becomes the preview-image URL when one resolves, or the raw string
// unchanged when it does not.
func (n *Normalizer) NormalizeString(ctx context.Context, raw string) domain.AssetInput {
	raw = strings.TrimSpace(raw)

	if IsDataURI(raw) {
		mimeType, _, err := ParseDataURI(raw)
		if err != nil {
			n.log.Warn("Unparseable data URI treated as website link", logger.Error(err))
			return domain.AssetInput{Type: domain.MediaWebsite, Content: raw}
		}
		return domain.AssetInput{Type: typeForMIME(mimeType), Content: raw}
	}

	if hasImageExtension(raw) {
		return domain.AssetInput{Type: domain.MediaImage, Content: raw}
	}

	previewURL, err := n.previews.PreviewImage(ctx, raw)
	if err != nil {
		n.log.Debug("Preview image unresolved, falling back to raw URL",
			logger.String("url", raw),
			logger.Error(err),
		)
		return domain.AssetInput{Type: domain.MediaWebsite, Content: raw}
	}

	return domain.AssetInput{Type: domain.MediaWebsite, Content: previewURL}
}

// NormalizeFile classifies an uploaded file by its declared MIME type and
// returns its transient data-URI form alongside a local preview handle. Video
// payloads get one compression pass; a failed pass keeps the original bytes.
// The preview is the caller's to release; it is never uploaded.
func (n *Normalizer) NormalizeFile(ctx context.Context, header *multipart.FileHeader) (domain.AssetInput, *Preview, error) {
	f, err := header.Open()
	if err != nil {
		return domain.AssetInput{}, nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.AssetInput{}, nil, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	mediaType := typeForMIME(mimeType)
	filename := header.Filename

	if mediaType == domain.MediaVideo && n.videos != nil {
		compressed, compErr := n.videos.Compress(ctx, data)
		if compErr != nil {
			n.log.Warn("Video compression failed, keeping original payload",
				logger.String("filename", filename),
				logger.Error(compErr),
			)
		} else {
			data = compressed
			mimeType = compressedMIME
			filename = mp4Filename(filename)
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	prev, err := NewPreview(data, ext)
	if err != nil {
		return domain.AssetInput{}, nil, err
	}

	input := domain.AssetInput{
		Type:     mediaType,
		Content:  EncodeDataURI(mimeType, data),
		Filename: filename,
	}

	return input, prev, nil
}

// mp4Filename swaps a filename's extension for the compressed container's.
func mp4Filename(name string) string {
	if name == "" {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".mp4"
}

// typeForMIME maps a MIME type to a media type: video/* is video, everything
// else is an image.
func typeForMIME(mimeType string) domain.MediaType {
	if strings.HasPrefix(mimeType, "video/") {
		return domain.MediaVideo
	}
	return domain.MediaImage
}

func hasImageExtension(s string) bool {
	lower := strings.ToLower(s)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

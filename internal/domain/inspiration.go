// Package domain defines the core types of the capture service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MediaType classifies an attached media asset.
type MediaType string

const (
	// MediaImage is a static image asset.
	MediaImage MediaType = "image"
	// MediaVideo is a video asset.
	MediaVideo MediaType = "video"
	// MediaWebsite is an external website reference.
	MediaWebsite MediaType = "website"
)

// MediaAsset is one media item attached to an Inspiration. Once persisted,
// Content is always a durable absolute URL; transient forms (file handles,
// data URIs) never reach stored state.
type MediaAsset struct {
	Type    MediaType `json:"type"`
	Content string    `json:"content"`
}

// AssetInput is the pre-upload form of an asset as received from a client.
// Content may be a durable URL or a transient base64 data URI; Filename, when
// present, carries the client's declared filename for extension derivation.
type AssetInput struct {
	Type     MediaType `json:"type"`
	Content  string    `json:"content"`
	Filename string    `json:"filename,omitempty"`
}

// Inspiration is one user-captured idea record. The first asset is the
// primary asset shown in list views.
type Inspiration struct {
	ID          uuid.UUID    `db:"id"          json:"id"`
	UserID      string       `db:"user_id"     json:"user_id"`
	Title       string       `db:"title"       json:"title"`
	Description string       `db:"description" json:"description"`
	Assets      []MediaAsset `db:"-"           json:"assets"`
	Tags        []string     `db:"-"           json:"tags"`
	CreatedAt   time.Time    `db:"created_at"  json:"created_at"`
}

// InspirationCreate carries the caller-supplied fields for a new record.
// ID, owner and timestamp are assigned by the repository.
type InspirationCreate struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Assets      []AssetInput `json:"assets"`
	Tags        []string     `json:"tags"`
}

// InspirationUpdate carries a partial update. Nil fields are left unchanged.
// Assets are immutable through this path.
type InspirationUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u *InspirationUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Tags == nil
}

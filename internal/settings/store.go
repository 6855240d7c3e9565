// Package settings stores per-user preferences independent of any
// inspiration record, currently the tag vocabulary used to bias AI
// suggestions and populate quick-add UI.
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nexuslab/capture/internal/logger"
)

// DefaultTags seeds a user's vocabulary on first read.
var DefaultTags = []string{"Design", "Development", "Product", "Business", "Life"}

const tagsKeyPrefix = "capture:tags:"

// Store is a key-value settings store backed by Redis.
type Store struct {
	client *redis.Client
	log    logger.Logger
}

// NewStore creates a settings store over an existing Redis client.
func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{client: client, log: log}
}

// Tags returns a user's tag vocabulary, seeding the defaults on first read.
func (s *Store) Tags(ctx context.Context, userID string) ([]string, error) {
	raw, err := s.client.Get(ctx, tagsKeyPrefix+userID).Result()
	if err == redis.Nil {
		if seedErr := s.SetTags(ctx, userID, DefaultTags); seedErr != nil {
			return nil, seedErr
		}
		s.log.Debug("Seeded default tag vocabulary", logger.String("user_id", userID))
		return append([]string(nil), DefaultTags...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	return tags, nil
}

// SetTags replaces a user's tag vocabulary.
func (s *Store) SetTags(ctx context.Context, userID string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}

	data, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	if err := s.client.Set(ctx, tagsKeyPrefix+userID, data, 0).Err(); err != nil {
		return fmt.Errorf("set tags: %w", err)
	}

	return nil
}

// Package cache provides an optional Redis read-through cache for document
// word annotations. The annotation sequence is immutable after upload, so
// entries only ever need invalidation on document deletion.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"flowread-backend/internal/models"
)

const wordTTL = 24 * time.Hour

// WordCache is nil-safe: a nil receiver disables caching entirely, which is
// how the service runs when REDIS_URL is not configured.
type WordCache struct {
	client *redis.Client
}

func NewWordCache(client *redis.Client) *WordCache {
	if client == nil {
		return nil
	}
	return &WordCache{client: client}
}

func wordKey(documentID uuid.UUID) string {
	return "docwords:" + documentID.String()
}

// Get returns the cached annotations, or (nil, false) on miss, disabled
// cache, or any Redis error. Callers always fall through to the store.
func (c *WordCache) Get(ctx context.Context, documentID uuid.UUID) ([]models.WordAnnotation, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, wordKey(documentID)).Bytes()
	if err != nil {
		return nil, false
	}
	var words []models.WordAnnotation
	if err := json.Unmarshal(payload, &words); err != nil {
		log.Printf("cache: corrupt entry for document %s: %v", documentID, err)
		c.client.Del(ctx, wordKey(documentID))
		return nil, false
	}
	return words, true
}

// Set stores the annotations, failing soft on marshal or Redis errors.
func (c *WordCache) Set(ctx context.Context, documentID uuid.UUID, words []models.WordAnnotation) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(words)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, wordKey(documentID), payload, wordTTL).Err(); err != nil {
		log.Printf("cache: set for document %s failed: %v", documentID, err)
	}
}

// Delete drops the entry as part of document deletion.
func (c *WordCache) Delete(ctx context.Context, documentID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, wordKey(documentID)).Err(); err != nil {
		log.Printf("cache: delete for document %s failed: %v", documentID, err)
	}
}

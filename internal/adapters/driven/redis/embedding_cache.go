package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/docqa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.EmbeddingCache = (*EmbeddingCache)(nil)

const (
	// Key prefix for cached query embeddings
	embeddingKeyPrefix = "embedding:q:"

	// DefaultTTL bounds how long a cached query embedding lives
	DefaultTTL = 24 * time.Hour
)

// EmbeddingCache implements driven.EmbeddingCache using Redis.
// It is strictly an optimisation: queries behave identically when the cache
// is absent, misses, or errors.
type EmbeddingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEmbeddingCache creates a Redis-backed EmbeddingCache
func NewEmbeddingCache(client *redis.Client, ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &EmbeddingCache{client: client, ttl: ttl}
}

// key hashes model+text so arbitrary query text cannot produce unbounded or
// invalid Redis keys
func key(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return embeddingKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached embedding for text, or (nil, nil) on a miss
func (c *EmbeddingCache) Get(ctx context.Context, model, text string) ([]float32, error) {
	data, err := c.client.Get(ctx, key(model, text)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached embedding: %w", err)
	}
	return embedding, nil
}

// Set stores the embedding for text with the configured TTL
func (c *EmbeddingCache) Set(ctx context.Context, model, text string, embedding []float32) error {
	data, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	if err := c.client.Set(ctx, key(model, text), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *EmbeddingCache) Close() error {
	return c.client.Close()
}

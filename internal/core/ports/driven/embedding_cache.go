package driven

import (
	"context"
)

// EmbeddingCache is an optional cache of query-text embeddings.
// Implementations must be safe to skip entirely: callers treat a miss and a
// cache error identically, and correctness never depends on a hit.
type EmbeddingCache interface {
	// Get returns the cached embedding for text, or (nil, nil) on a miss
	Get(ctx context.Context, model, text string) ([]float32, error)

	// Set stores the embedding for text
	Set(ctx context.Context, model, text string, embedding []float32) error

	// Close releases the underlying connection
	Close() error
}

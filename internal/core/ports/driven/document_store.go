package driven

import (
	"context"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// DocumentStore handles document persistence (PostgreSQL)
type DocumentStore interface {
	// Ingest atomically creates a document together with all of its chunks.
	// Either everything is committed or nothing is.
	Ingest(ctx context.Context, doc *domain.Document, chunks []*domain.Chunk) error

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents in insertion order with their chunk counts
	List(ctx context.Context) ([]*domain.DocumentSummary, error)

	// Delete deletes a document and, via cascade, its chunks
	Delete(ctx context.Context, id string) error

	// Count returns total document count
	Count(ctx context.Context) (int, error)
}

// ChunkStore handles chunk persistence and similarity search (PostgreSQL)
type ChunkStore interface {
	// GetByDocument retrieves all chunks for a document ordered by position
	GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error)

	// CountByDocument returns the chunk count for a document
	CountByDocument(ctx context.Context, documentID string) (int, error)

	// Search returns at most topK chunks whose cosine similarity to the query
	// embedding is at least threshold, ordered by similarity descending with
	// ties broken by ascending chunk ID.
	Search(ctx context.Context, embedding []float32, topK int, threshold float64) ([]*domain.RetrievedChunk, error)
}

// QueryLogStore records served queries (PostgreSQL)
type QueryLogStore interface {
	// Save persists a query log entry
	Save(ctx context.Context, entry *domain.QueryLog) error

	// Recent returns the most recent entries, newest first
	Recent(ctx context.Context, limit int) ([]*domain.QueryLog, error)
}

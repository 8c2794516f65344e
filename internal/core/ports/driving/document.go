package driving

import (
	"context"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// DocumentService provides read access to ingested documents
type DocumentService interface {
	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetWithChunks retrieves a document with its chunks
	GetWithChunks(ctx context.Context, id string) (*domain.DocumentWithChunks, error)

	// List returns all documents with their chunk counts
	List(ctx context.Context) ([]*domain.DocumentSummary, error)

	// Count returns the total number of documents
	Count(ctx context.Context) (int, error)
}

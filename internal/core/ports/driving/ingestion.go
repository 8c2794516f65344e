package driving

import (
	"context"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// IngestionService turns uploaded files into embedded, searchable chunks
type IngestionService interface {
	// Ingest loads the file at path, chunks and embeds its text, and persists
	// the document with all chunks as one atomic unit. A document whose text
	// produces zero chunks is persisted with an empty chunk set.
	Ingest(ctx context.Context, path, filename string) (*domain.IngestResult, error)

	// Delete removes the document, its chunks, and the backing file
	Delete(ctx context.Context, documentID string) error
}

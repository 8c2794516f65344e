package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-core/internal/chunker"
	"github.com/custodia-labs/docqa-core/internal/core/domain"
	"github.com/custodia-labs/docqa-core/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-core/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-core/internal/loader"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

// IngestionConfig holds the collaborators for the ingestion pipeline
type IngestionConfig struct {
	Chunker       *chunker.Chunker
	Embedding     driven.EmbeddingService
	DocumentStore driven.DocumentStore
	Logger        *slog.Logger

	// EmbedBatchSize caps how many chunk texts go into one embedding call
	EmbedBatchSize int
}

// ingestionService loads, chunks, embeds and persists documents.
// A request moves through load, chunk, embed and persist stages; a failure
// at any stage leaves no partial state behind.
type ingestionService struct {
	chunker       *chunker.Chunker
	embedding     driven.EmbeddingService
	documentStore driven.DocumentStore
	logger        *slog.Logger
	batchSize     int
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(cfg IngestionConfig) driving.IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	batchSize := cfg.EmbedBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &ingestionService{
		chunker:       cfg.Chunker,
		embedding:     cfg.Embedding,
		documentStore: cfg.DocumentStore,
		logger:        logger,
		batchSize:     batchSize,
	}
}

// Ingest runs the full pipeline for the file at path. The document and all
// of its chunks are committed in one transaction; nothing is persisted if
// loading, chunking, embedding or the transaction itself fails.
func (s *ingestionService) Ingest(ctx context.Context, path, filename string) (*domain.IngestResult, error) {
	fileType, err := loader.FileType(filename)
	if err != nil {
		return nil, err
	}

	text, loadMeta, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	s.logger.Info("document loaded", "filename", filename, "chars", len(text))

	pieces := s.chunker.Split(text)
	s.logger.Info("document chunked", "filename", filename, "chunks", len(pieces))

	var embeddings [][]float32
	if len(pieces) > 0 {
		texts := make([]string, len(pieces))
		for i, piece := range pieces {
			texts[i] = piece.Text
		}

		embeddings, err = s.embedding.EmbedBatch(ctx, texts, s.batchSize)
		if err != nil {
			return nil, err
		}
		if len(embeddings) != len(pieces) {
			return nil, domain.NewEmbeddingError(
				fmt.Errorf("got %d embeddings for %d chunks", len(embeddings), len(pieces)))
		}
		for i, embedding := range embeddings {
			if len(embedding) != s.embedding.Dimensions() {
				return nil, fmt.Errorf("%w: chunk %d has %d dimensions, want %d",
					domain.ErrDimensionMismatch, i, len(embedding), s.embedding.Dimensions())
			}
		}
		s.logger.Info("document embedded", "filename", filename, "vectors", len(embeddings))
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:       uuid.NewString(),
		Filename: filename,
		FilePath: path,
		FileType: fileType,
		Content:  text,
		Metadata: map[string]string{
			"chunk_count": strconv.Itoa(len(pieces)),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	chunks := make([]*domain.Chunk, len(pieces))
	for i, piece := range pieces {
		metadata := map[string]string{
			"chunk_index": strconv.Itoa(piece.Index),
			"chunk_size":  strconv.Itoa(piece.Size),
		}
		for k, v := range loadMeta {
			metadata[k] = v
		}

		chunks[i] = &domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Content:    piece.Text,
			Position:   piece.Index,
			Size:       piece.Size,
			Embedding:  embeddings[i],
			Metadata:   metadata,
			CreatedAt:  now,
		}
	}

	if err := s.documentStore.Ingest(ctx, doc, chunks); err != nil {
		return nil, err
	}
	s.logger.Info("document persisted", "filename", filename, "document_id", doc.ID, "chunks", len(chunks))

	return &domain.IngestResult{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
	}, nil
}

// Delete removes the document row (chunks cascade) and then the backing file.
// A failed file removal is logged but does not resurrect the rows.
func (s *ingestionService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.documentStore.Get(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.documentStore.Delete(ctx, documentID); err != nil {
		return err
	}

	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove backing file", "path", doc.FilePath, "error", err)
		}
	}

	s.logger.Info("document deleted", "document_id", documentID, "filename", doc.Filename)
	return nil
}

package postgres

import (
	"context"
	"encoding/json"

	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
	"github.com/custodia-labs/docqa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore implements driven.ChunkStore using PostgreSQL with pgvector.
// Chunk rows are written by DocumentStore.Ingest so that document and chunks
// commit atomically; this store reads and searches them.
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// GetByDocument retrieves all chunks for a document ordered by position
func (s *ChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error) {
	query := `
		SELECT id, document_id, content, position, size, embedding, metadata, created_at
		FROM chunks
		WHERE document_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, domain.NewStoreError("get chunks", err)
	}
	defer rows.Close()

	var chunks []*domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var embedding pgvector.Vector
		var metadata []byte
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Content,
			&chunk.Position,
			&chunk.Size,
			&embedding,
			&metadata,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, domain.NewStoreError("get chunks", err)
		}
		chunk.Embedding = embedding.Slice()
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &chunk.Metadata); err != nil {
				return nil, domain.NewStoreError("get chunks", err)
			}
		}
		chunks = append(chunks, &chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("get chunks", err)
	}

	return chunks, nil
}

// CountByDocument returns the chunk count for a document
func (s *ChunkStore) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chunks WHERE document_id = $1`, documentID).Scan(&count)
	if err != nil {
		return 0, domain.NewStoreError("count chunks", err)
	}
	return count, nil
}

// Search ranks chunks by cosine similarity to the query embedding.
// The <=> operator is pgvector's cosine distance, so similarity is
// 1 - distance, the same metric domain.CosineSimilarity computes.
// Ties break by ascending chunk id for a stable, deterministic order.
func (s *ChunkStore) Search(ctx context.Context, embedding []float32, topK int, threshold float64) ([]*domain.RetrievedChunk, error) {
	query := `
		SELECT c.id, c.document_id, d.filename, c.content, c.position,
		       1 - (c.embedding <=> $1) AS similarity
		FROM chunks c
		JOIN documents d ON c.document_id = d.id
		WHERE 1 - (c.embedding <=> $1) >= $2
		ORDER BY similarity DESC, c.id ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(embedding), threshold, topK)
	if err != nil {
		return nil, domain.NewStoreError("search", err)
	}
	defer rows.Close()

	var results []*domain.RetrievedChunk
	for rows.Next() {
		var rc domain.RetrievedChunk
		err := rows.Scan(
			&rc.ChunkID,
			&rc.DocumentID,
			&rc.Filename,
			&rc.Content,
			&rc.Position,
			&rc.Score,
		)
		if err != nil {
			return nil, domain.NewStoreError("search", err)
		}
		results = append(results, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("search", err)
	}

	return results, nil
}

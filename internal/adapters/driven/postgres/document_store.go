package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
	"github.com/custodia-labs/docqa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Ingest inserts the document row and all chunk rows in one transaction.
// On any failure the transaction is rolled back and nothing is visible.
func (s *DocumentStore) Ingest(ctx context.Context, doc *domain.Document, chunks []*domain.Chunk) error {
	docMetadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return domain.NewStoreError("ingest", err)
	}

	err = s.db.Transaction(ctx, func(tx *sql.Tx) error {
		docQuery := `
			INSERT INTO documents (id, filename, file_path, file_type, content, metadata, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		if _, err := tx.ExecContext(ctx, docQuery,
			doc.ID,
			doc.Filename,
			doc.FilePath,
			doc.FileType,
			doc.Content,
			docMetadata,
			doc.CreatedAt,
			doc.UpdatedAt,
		); err != nil {
			return err
		}

		if len(chunks) == 0 {
			return nil
		}

		chunkQuery := `
			INSERT INTO chunks (id, document_id, content, position, size, embedding, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		stmt, err := tx.PrepareContext(ctx, chunkQuery)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			chunkMetadata, err := json.Marshal(chunk.Metadata)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				chunk.ID,
				chunk.DocumentID,
				chunk.Content,
				chunk.Position,
				chunk.Size,
				pgvector.NewVector(chunk.Embedding),
				chunkMetadata,
				chunk.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.NewStoreError("ingest", err)
	}
	return nil
}

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	query := `
		SELECT id, filename, file_path, file_type, content, metadata, created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	var doc domain.Document
	var metadata []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.FilePath,
		&doc.FileType,
		&doc.Content,
		&metadata,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStoreError("get", err)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return nil, domain.NewStoreError("get", err)
		}
	}
	return &doc, nil
}

// List returns all documents in insertion order with their chunk counts
func (s *DocumentStore) List(ctx context.Context) ([]*domain.DocumentSummary, error) {
	query := `
		SELECT d.id, d.filename, d.file_type, d.created_at, COUNT(c.id)
		FROM documents d
		LEFT JOIN chunks c ON c.document_id = d.id
		GROUP BY d.id, d.filename, d.file_type, d.created_at
		ORDER BY d.created_at ASC, d.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	defer rows.Close()

	var summaries []*domain.DocumentSummary
	for rows.Next() {
		var sum domain.DocumentSummary
		if err := rows.Scan(&sum.ID, &sum.Filename, &sum.FileType, &sum.CreatedAt, &sum.ChunkCount); err != nil {
			return nil, domain.NewStoreError("list", err)
		}
		summaries = append(summaries, &sum)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list", err)
	}

	return summaries, nil
}

// Delete deletes a document; chunk rows cascade via the foreign key
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return domain.NewStoreError("delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError("delete", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Count returns total document count
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, domain.NewStoreError("count", err)
	}
	return count, nil
}

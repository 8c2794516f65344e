package postgres

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
	"github.com/custodia-labs/docqa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.QueryLogStore = (*QueryLogStore)(nil)

// QueryLogStore implements driven.QueryLogStore using PostgreSQL
type QueryLogStore struct {
	db *DB
}

// NewQueryLogStore creates a new QueryLogStore
func NewQueryLogStore(db *DB) *QueryLogStore {
	return &QueryLogStore{db: db}
}

// Save persists a query log entry
func (s *QueryLogStore) Save(ctx context.Context, entry *domain.QueryLog) error {
	chunkIDs, err := json.Marshal(entry.ChunkIDs)
	if err != nil {
		return domain.NewStoreError("save query log", err)
	}
	scores, err := json.Marshal(entry.Scores)
	if err != nil {
		return domain.NewStoreError("save query log", err)
	}

	query := `
		INSERT INTO query_logs (id, query, answer, chunk_ids, scores, response_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Query,
		entry.Answer,
		chunkIDs,
		scores,
		entry.ResponseTime,
		entry.CreatedAt,
	)
	if err != nil {
		return domain.NewStoreError("save query log", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first
func (s *QueryLogStore) Recent(ctx context.Context, limit int) ([]*domain.QueryLog, error) {
	query := `
		SELECT id, query, answer, chunk_ids, scores, response_time, created_at
		FROM query_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, domain.NewStoreError("recent query logs", err)
	}
	defer rows.Close()

	var entries []*domain.QueryLog
	for rows.Next() {
		var entry domain.QueryLog
		var chunkIDs, scores []byte
		err := rows.Scan(
			&entry.ID,
			&entry.Query,
			&entry.Answer,
			&chunkIDs,
			&scores,
			&entry.ResponseTime,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, domain.NewStoreError("recent query logs", err)
		}
		if len(chunkIDs) > 0 {
			if err := json.Unmarshal(chunkIDs, &entry.ChunkIDs); err != nil {
				return nil, domain.NewStoreError("recent query logs", err)
			}
		}
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &entry.Scores); err != nil {
				return nil, domain.NewStoreError("recent query logs", err)
			}
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("recent query logs", err)
	}

	return entries, nil
}

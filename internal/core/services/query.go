package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
	"github.com/custodia-labs/docqa-core/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-core/internal/core/ports/driving"
)

// Ensure queryService implements QueryService
var _ driving.QueryService = (*queryService)(nil)

// QueryConfig holds the collaborators for the query pipeline
type QueryConfig struct {
	Embedding  driven.EmbeddingService
	ChunkStore driven.ChunkStore
	LLM        driven.LLMService
	QueryLogs  driven.QueryLogStore

	// Cache is optional; nil disables query-embedding caching
	Cache driven.EmbeddingCache

	Logger *slog.Logger
}

// queryService answers questions by retrieving the most similar chunks and
// generating an answer from them
type queryService struct {
	embedding  driven.EmbeddingService
	chunkStore driven.ChunkStore
	llm        driven.LLMService
	queryLogs  driven.QueryLogStore
	cache      driven.EmbeddingCache
	logger     *slog.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(cfg QueryConfig) driving.QueryService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &queryService{
		embedding:  cfg.Embedding,
		chunkStore: cfg.ChunkStore,
		llm:        cfg.LLM,
		queryLogs:  cfg.QueryLogs,
		cache:      cfg.Cache,
		logger:     logger,
	}
}

// Query embeds the question, searches for relevant chunks, and generates an
// answer. Callers resolve option defaults; opts must already be complete.
func (s *queryService) Query(ctx context.Context, query string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}
	if len(query) > domain.MaxQueryLength {
		return nil, fmt.Errorf("%w: query exceeds %d characters", domain.ErrInvalidInput, domain.MaxQueryLength)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	queryEmbedding, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunkStore.Search(ctx, queryEmbedding, opts.TopK, opts.SimilarityThreshold)
	if err != nil {
		return nil, err
	}
	s.logger.Info("chunks retrieved", "count", len(chunks), "top_k", opts.TopK)

	var answer string
	if len(chunks) == 0 {
		answer = domain.NoResultsAnswer
		chunks = []*domain.RetrievedChunk{}
	} else {
		answer, err = s.llm.GenerateAnswer(ctx, query, buildContext(chunks))
		if err != nil {
			return nil, err
		}
	}

	result := &domain.QueryResult{
		Query:  query,
		Answer: answer,
		Chunks: chunks,
		Took:   time.Since(start),
	}

	s.recordQuery(ctx, result)
	return result, nil
}

// RecentQueries returns the most recently served queries, newest first
func (s *queryService) RecentQueries(ctx context.Context, limit int) ([]*domain.QueryLog, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.queryLogs.Recent(ctx, limit)
}

// embedQuery returns the query embedding, consulting the cache when one is
// configured. Cache failures degrade to a model call.
func (s *queryService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.embedding.Model(), query)
		if err != nil {
			s.logger.Warn("embedding cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	embedding, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.embedding.Model(), query, embedding); err != nil {
			s.logger.Warn("embedding cache write failed", "error", err)
		}
	}
	return embedding, nil
}

// buildContext concatenates chunks in rank order with their provenance
func buildContext(chunks []*domain.RetrievedChunk) string {
	var b strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Source: %s (Chunk %d)\n%s", chunk.Filename, chunk.Position, chunk.Content)
	}
	return b.String()
}

// recordQuery saves the query log entry. Logging is best-effort and never
// fails the query.
func (s *queryService) recordQuery(ctx context.Context, result *domain.QueryResult) {
	if s.queryLogs == nil {
		return
	}

	entry := &domain.QueryLog{
		ID:           uuid.NewString(),
		Query:        result.Query,
		Answer:       result.Answer,
		ResponseTime: result.Took.Seconds(),
		CreatedAt:    time.Now().UTC(),
	}
	for _, chunk := range result.Chunks {
		entry.ChunkIDs = append(entry.ChunkIDs, chunk.ChunkID)
		entry.Scores = append(entry.Scores, chunk.Score)
	}

	if err := s.queryLogs.Save(ctx, entry); err != nil {
		s.logger.Warn("failed to record query log", "error", err)
	}
}

package driving

import (
	"context"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// QueryService answers natural-language questions from the ingested corpus
type QueryService interface {
	// Query embeds the question, retrieves the most relevant chunks, and
	// generates an answer from them. An empty result set yields the canned
	// no-results answer, not an error.
	Query(ctx context.Context, query string, opts domain.QueryOptions) (*domain.QueryResult, error)

	// RecentQueries returns the most recently served queries, newest first
	RecentQueries(ctx context.Context, limit int) ([]*domain.QueryLog, error)
}

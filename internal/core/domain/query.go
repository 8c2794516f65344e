package domain

import (
	"fmt"
	"time"
)

// Bounds for caller-supplied query options
const (
	MaxTopK        = 10
	MaxQueryLength = 2000
)

// NoResultsAnswer is returned when no chunk clears the similarity threshold
const NoResultsAnswer = "I couldn't find any relevant information in the knowledge base " +
	"to answer your question. Please try rephrasing or ask about a different topic."

// QueryOptions configures a retrieval request
type QueryOptions struct {
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// DefaultQueryOptions returns the configured retrieval defaults
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		TopK:                5,
		SimilarityThreshold: 0.7,
	}
}

// Validate checks option bounds
func (o QueryOptions) Validate() error {
	if o.TopK < 1 || o.TopK > MaxTopK {
		return fmt.Errorf("%w: top_k must be between 1 and %d", ErrInvalidInput, MaxTopK)
	}
	if o.SimilarityThreshold < 0.0 || o.SimilarityThreshold > 1.0 {
		return fmt.Errorf("%w: similarity_threshold must be between 0.0 and 1.0", ErrInvalidInput)
	}
	return nil
}

// QueryResult is the outcome of a retrieval-augmented query
type QueryResult struct {
	Query  string            `json:"query"`
	Answer string            `json:"answer"`
	Chunks []*RetrievedChunk `json:"retrieved_chunks"`
	Took   time.Duration     `json:"response_time" swaggertype:"integer" example:"1500000"`
}

// QueryLog records a served query for later inspection
type QueryLog struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	Answer       string    `json:"answer"`
	ChunkIDs     []string  `json:"chunk_ids,omitempty"`
	Scores       []float64 `json:"scores,omitempty"`
	ResponseTime float64   `json:"response_time"` // Seconds
	CreatedAt    time.Time `json:"created_at"`
}

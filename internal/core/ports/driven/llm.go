package driven

import (
	"context"
)

// LLMService generates natural-language answers from retrieved context
type LLMService interface {
	// GenerateAnswer produces an answer to query grounded in contextBlock.
	// The model is instructed to answer only from the context, admit when
	// it is insufficient, and cite the source document.
	GenerateAnswer(ctx context.Context, query, contextBlock string) (string, error)

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the LLM service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the LLM service
	Close() error
}

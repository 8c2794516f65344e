package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// MockEmbedding is a deterministic in-process embedding service for testing.
// Vectors are derived from character statistics so that similar texts score
// closer than dissimilar ones, without any external call.
type MockEmbedding struct {
	mu        sync.Mutex
	dimension int

	// EmbedErr, when set, makes every call fail
	EmbedErr error

	// Calls counts how many model invocations were made (batch groups count
	// once each, as a real API call would)
	Calls int
}

// NewMockEmbedding creates a MockEmbedding with the given dimension
func NewMockEmbedding(dimension int) *MockEmbedding {
	if dimension <= 0 {
		dimension = 8
	}
	return &MockEmbedding{dimension: dimension}
}

func (m *MockEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if text == "" {
		return domain.ZeroVector(m.dimension), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EmbedErr != nil {
		return nil, domain.NewEmbeddingError(m.EmbedErr)
	}
	m.Calls++
	return m.vector(text), nil
}

func (m *MockEmbedding) EmbedBatch(ctx context.Context, texts []string, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		if m.EmbedErr != nil {
			return nil, domain.NewEmbeddingError(m.EmbedErr)
		}
		m.Calls++
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		for _, text := range texts[start:end] {
			cleaned := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
			if cleaned == "" {
				out = append(out, domain.ZeroVector(m.dimension))
				continue
			}
			out = append(out, m.vector(cleaned))
		}
	}
	return out, nil
}

func (m *MockEmbedding) Dimensions() int { return m.dimension }

func (m *MockEmbedding) Model() string { return "mock-embedding" }

func (m *MockEmbedding) HealthCheck(ctx context.Context) error {
	if m.EmbedErr != nil {
		return m.EmbedErr
	}
	return nil
}

func (m *MockEmbedding) Close() error { return nil }

// vector buckets runes by value so texts sharing vocabulary land near each
// other in the embedding space
func (m *MockEmbedding) vector(text string) []float32 {
	v := make([]float32, m.dimension)
	for i, r := range text {
		v[int(r)%m.dimension] += 1.0
		v[i%m.dimension] += 0.1
	}
	return v
}

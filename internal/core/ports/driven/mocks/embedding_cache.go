package mocks

import (
	"context"
	"sync"
)

// MockEmbeddingCache is an in-memory EmbeddingCache for testing
type MockEmbeddingCache struct {
	mu      sync.RWMutex
	entries map[string][]float32

	// Hits and Misses count Get outcomes
	Hits   int
	Misses int
}

// NewMockEmbeddingCache creates a MockEmbeddingCache
func NewMockEmbeddingCache() *MockEmbeddingCache {
	return &MockEmbeddingCache{entries: make(map[string][]float32)}
}

func (m *MockEmbeddingCache) Get(ctx context.Context, model, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.entries[model+"\x00"+text]; ok {
		m.Hits++
		return v, nil
	}
	m.Misses++
	return nil, nil
}

func (m *MockEmbeddingCache) Set(ctx context.Context, model, text string, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[model+"\x00"+text] = embedding
	return nil
}

func (m *MockEmbeddingCache) Close() error { return nil }

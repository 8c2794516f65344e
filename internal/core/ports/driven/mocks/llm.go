package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// MockLLM is a canned-answer LLM service for testing
type MockLLM struct {
	mu sync.Mutex

	// Answer is returned from GenerateAnswer (default "mock answer")
	Answer string

	// GenerateErr, when set, makes GenerateAnswer fail
	GenerateErr error

	// LastQuery and LastContext capture the most recent call
	LastQuery   string
	LastContext string

	// Calls counts GenerateAnswer invocations
	Calls int
}

// NewMockLLM creates a MockLLM
func NewMockLLM() *MockLLM {
	return &MockLLM{Answer: "mock answer"}
}

func (m *MockLLM) GenerateAnswer(ctx context.Context, query, contextBlock string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.LastQuery = query
	m.LastContext = contextBlock

	if m.GenerateErr != nil {
		return "", domain.NewGenerationError(m.GenerateErr)
	}
	return m.Answer, nil
}

func (m *MockLLM) Model() string { return "mock-llm" }

func (m *MockLLM) HealthCheck(ctx context.Context) error {
	if m.GenerateErr != nil {
		return m.GenerateErr
	}
	return nil
}

func (m *MockLLM) Close() error { return nil }

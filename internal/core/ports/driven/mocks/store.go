package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// MockStore is an in-memory implementation of DocumentStore, ChunkStore and
// QueryLogStore sharing one state, so that ingestion atomicity and cascade
// deletion behave like the real database in tests.
type MockStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	chunks    map[string]*domain.Chunk
	order     []string // document insertion order
	logs      []*domain.QueryLog

	// IngestErr, when set, makes Ingest fail without persisting anything
	IngestErr error
	// SearchErr, when set, makes Search fail
	SearchErr error
}

// NewMockStore creates a new MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		documents: make(map[string]*domain.Document),
		chunks:    make(map[string]*domain.Chunk),
	}
}

func (m *MockStore) Ingest(ctx context.Context, doc *domain.Document, chunks []*domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.IngestErr != nil {
		return m.IngestErr
	}

	m.documents[doc.ID] = doc
	m.order = append(m.order, doc.ID)
	for _, chunk := range chunks {
		m.chunks[chunk.ID] = chunk
	}
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *MockStore) List(ctx context.Context) ([]*domain.DocumentSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]*domain.DocumentSummary, 0, len(m.order))
	for _, id := range m.order {
		doc, ok := m.documents[id]
		if !ok {
			continue
		}
		count := 0
		for _, chunk := range m.chunks {
			if chunk.DocumentID == id {
				count++
			}
		}
		summaries = append(summaries, &domain.DocumentSummary{
			ID:         doc.ID,
			Filename:   doc.Filename,
			FileType:   doc.FileType,
			ChunkCount: count,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return summaries, nil
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.documents, id)
	for i, did := range m.order {
		if did == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	// Cascade
	for cid, chunk := range m.chunks {
		if chunk.DocumentID == id {
			delete(m.chunks, cid)
		}
	}
	return nil
}

func (m *MockStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents), nil
}

func (m *MockStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var chunks []*domain.Chunk
	for _, chunk := range m.chunks {
		if chunk.DocumentID == documentID {
			chunks = append(chunks, chunk)
		}
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Position < chunks[j].Position
	})
	return chunks, nil
}

func (m *MockStore) CountByDocument(ctx context.Context, documentID string) (int, error) {
	chunks, err := m.GetByDocument(ctx, documentID)
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

func (m *MockStore) Search(ctx context.Context, embedding []float32, topK int, threshold float64) ([]*domain.RetrievedChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}

	var results []*domain.RetrievedChunk
	for _, chunk := range m.chunks {
		score := domain.CosineSimilarity(embedding, chunk.Embedding)
		if score < threshold {
			continue
		}
		filename := ""
		if doc, ok := m.documents[chunk.DocumentID]; ok {
			filename = doc.Filename
		}
		results = append(results, &domain.RetrievedChunk{
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
			Filename:   filename,
			Content:    chunk.Content,
			Position:   chunk.Position,
			Score:      score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (m *MockStore) Save(ctx context.Context, entry *domain.QueryLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, entry)
	return nil
}

func (m *MockStore) Recent(ctx context.Context, limit int) ([]*domain.QueryLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.QueryLog
	for i := len(m.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.logs[i])
	}
	return out, nil
}

// ChunkCount reports how many chunks are stored in total
func (m *MockStore) ChunkCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// QueryLogCount reports how many query logs were saved
func (m *MockStore) QueryLogCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.logs)
}

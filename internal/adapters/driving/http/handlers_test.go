package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// Mock services for testing

type mockIngestionService struct {
	ingestFn func(ctx context.Context, path, filename string) (*domain.IngestResult, error)
	deleteFn func(ctx context.Context, documentID string) error
}

func (m *mockIngestionService) Ingest(ctx context.Context, path, filename string) (*domain.IngestResult, error) {
	if m.ingestFn != nil {
		return m.ingestFn(ctx, path, filename)
	}
	return nil, errors.New("not implemented")
}

func (m *mockIngestionService) Delete(ctx context.Context, documentID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, documentID)
	}
	return errors.New("not implemented")
}

type mockQueryService struct {
	queryFn  func(ctx context.Context, query string, opts domain.QueryOptions) (*domain.QueryResult, error)
	recentFn func(ctx context.Context, limit int) ([]*domain.QueryLog, error)
}

func (m *mockQueryService) Query(ctx context.Context, query string, opts domain.QueryOptions) (*domain.QueryResult, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, query, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockQueryService) RecentQueries(ctx context.Context, limit int) ([]*domain.QueryLog, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, errors.New("not implemented")
}

type mockDocService struct {
	getFn           func(ctx context.Context, id string) (*domain.Document, error)
	getWithChunksFn func(ctx context.Context, id string) (*domain.DocumentWithChunks, error)
	listFn          func(ctx context.Context) ([]*domain.DocumentSummary, error)
	countFn         func(ctx context.Context) (int, error)
}

func (m *mockDocService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocService) GetWithChunks(ctx context.Context, id string) (*domain.DocumentWithChunks, error) {
	if m.getWithChunksFn != nil {
		return m.getWithChunksFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocService) List(ctx context.Context) ([]*domain.DocumentSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocService) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, errors.New("not implemented")
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// multipartBody builds a multipart request body with a single file field
func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

// Health endpoints

func TestHealthHandler(t *testing.T) {
	server := &Server{version: "test", db: &mockPinger{}}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	server.handleHealth(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %s", response.Status)
	}
	if !response.DatabaseConnected {
		t.Error("expected database_connected true")
	}
	if response.Version != "test" {
		t.Errorf("expected version 'test', got %s", response.Version)
	}
	if response.CacheConnected != nil {
		t.Error("expected cache_connected omitted with no cache configured")
	}
}

func TestHealthHandler_WithCache(t *testing.T) {
	server := &Server{version: "test", db: &mockPinger{}, redisClient: &mockPinger{}}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	server.handleHealth(rr, req)

	var response HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.CacheConnected == nil || !*response.CacheConnected {
		t.Error("expected cache_connected true")
	}
	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %s", response.Status)
	}
}

func TestHealthHandler_CacheDown(t *testing.T) {
	server := &Server{
		version:     "test",
		db:          &mockPinger{},
		redisClient: &mockPinger{err: errors.New("connection refused")},
	}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	server.handleHealth(rr, req)

	var response HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.CacheConnected == nil || *response.CacheConnected {
		t.Error("expected cache_connected false")
	}
	// The cache is optional, so a down cache must not degrade the status
	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %s", response.Status)
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	server := &Server{version: "test", db: &mockPinger{err: errors.New("connection refused")}}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	server.handleHealth(rr, req)

	// Always returns 200 - service is up and can respond
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "unhealthy" {
		t.Errorf("expected status 'unhealthy', got %s", response.Status)
	}
	if response.DatabaseConnected {
		t.Error("expected database_connected false")
	}
}

func TestVersionHandler(t *testing.T) {
	server := &Server{version: "1.2.3"}

	req := httptest.NewRequest("GET", "/version", nil)
	rr := httptest.NewRecorder()

	server.handleVersion(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["version"] != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %s", response["version"])
	}
}

// Upload endpoint

func TestHandleUpload_Success(t *testing.T) {
	var gotPath, gotFilename string
	ingestion := &mockIngestionService{
		ingestFn: func(ctx context.Context, path, filename string) (*domain.IngestResult, error) {
			gotPath, gotFilename = path, filename
			return &domain.IngestResult{DocumentID: "doc-1", ChunkCount: 3}, nil
		},
	}
	server := &Server{
		dataDir:          t.TempDir(),
		maxUploadBytes:   10 << 20,
		ingestionService: ingestion,
	}

	body, contentType := multipartBody(t, "notes.txt", "some document text")
	req := httptest.NewRequest("POST", "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var response UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.DocumentID != "doc-1" {
		t.Errorf("expected document_id 'doc-1', got %s", response.DocumentID)
	}
	if response.ChunkCount != 3 {
		t.Errorf("expected chunk_count 3, got %d", response.ChunkCount)
	}
	if response.Filename != "notes.txt" {
		t.Errorf("expected filename 'notes.txt', got %s", response.Filename)
	}

	if gotFilename != "notes.txt" {
		t.Errorf("ingestion called with filename %s", gotFilename)
	}
	stored, err := os.ReadFile(gotPath)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(stored) != "some document text" {
		t.Errorf("stored file content %q", stored)
	}
}

func TestHandleUpload_UnsupportedType(t *testing.T) {
	ingestion := &mockIngestionService{
		ingestFn: func(ctx context.Context, path, filename string) (*domain.IngestResult, error) {
			t.Error("ingestion should not be called")
			return nil, nil
		},
	}
	server := &Server{
		dataDir:          t.TempDir(),
		maxUploadBytes:   10 << 20,
		ingestionService: ingestion,
	}

	body, contentType := multipartBody(t, "slides.pptx", "binary stuff")
	req := httptest.NewRequest("POST", "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleUpload_TooLarge(t *testing.T) {
	server := &Server{
		dataDir:          t.TempDir(),
		maxUploadBytes:   64,
		ingestionService: &mockIngestionService{},
	}

	body, contentType := multipartBody(t, "big.txt", strings.Repeat("x", 4096))
	req := httptest.NewRequest("POST", "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(response.Error, "file too large") {
		t.Errorf("expected error to mention the size limit, got %q", response.Error)
	}
}

func TestHandleUpload_MissingFile(t *testing.T) {
	server := &Server{
		dataDir:          t.TempDir(),
		maxUploadBytes:   10 << 20,
		ingestionService: &mockIngestionService{},
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("other", "value"); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleUpload_IngestFailureRemovesFile(t *testing.T) {
	var gotPath string
	ingestion := &mockIngestionService{
		ingestFn: func(ctx context.Context, path, filename string) (*domain.IngestResult, error) {
			gotPath = path
			return nil, domain.NewEmbeddingError(errors.New("model unavailable"))
		},
	}
	server := &Server{
		dataDir:          t.TempDir(),
		maxUploadBytes:   10 << 20,
		ingestionService: ingestion,
	}

	body, contentType := multipartBody(t, "doc.txt", "text")
	req := httptest.NewRequest("POST", "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", rr.Code)
	}
	if _, err := os.Stat(gotPath); !os.IsNotExist(err) {
		t.Error("expected stored file to be removed after failed ingestion")
	}
}

// Document endpoints

func TestHandleListDocuments(t *testing.T) {
	docs := &mockDocService{
		listFn: func(ctx context.Context) ([]*domain.DocumentSummary, error) {
			return []*domain.DocumentSummary{
				{ID: "doc-1", Filename: "a.txt", FileType: "txt", ChunkCount: 2},
			}, nil
		},
	}
	server := &Server{docService: docs}

	req := httptest.NewRequest("GET", "/api/v1/documents", nil)
	rr := httptest.NewRecorder()

	server.handleListDocuments(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response []*domain.DocumentSummary
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 || response[0].ID != "doc-1" {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestHandleListDocuments_Empty(t *testing.T) {
	docs := &mockDocService{
		listFn: func(ctx context.Context) ([]*domain.DocumentSummary, error) {
			return nil, nil
		},
	}
	server := &Server{docService: docs}

	req := httptest.NewRequest("GET", "/api/v1/documents", nil)
	rr := httptest.NewRecorder()

	server.handleListDocuments(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	// Empty list serialises as [] rather than null
	if !strings.HasPrefix(strings.TrimSpace(rr.Body.String()), "[") {
		t.Errorf("expected JSON array, got %s", rr.Body.String())
	}
}

func TestHandleGetDocument(t *testing.T) {
	docs := &mockDocService{
		getFn: func(ctx context.Context, id string) (*domain.Document, error) {
			if id != "doc-1" {
				return nil, domain.ErrNotFound
			}
			return &domain.Document{ID: "doc-1", Filename: "a.txt"}, nil
		},
	}
	server := &Server{docService: docs}

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1", nil)
	req.SetPathValue("id", "doc-1")
	rr := httptest.NewRecorder()

	server.handleGetDocument(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response domain.Document
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID != "doc-1" {
		t.Errorf("expected doc-1, got %s", response.ID)
	}
}

func TestHandleGetDocument_NotFound(t *testing.T) {
	docs := &mockDocService{
		getFn: func(ctx context.Context, id string) (*domain.Document, error) {
			return nil, domain.ErrNotFound
		},
	}
	server := &Server{docService: docs}

	req := httptest.NewRequest("GET", "/api/v1/documents/missing", nil)
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()

	server.handleGetDocument(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleGetDocumentChunks(t *testing.T) {
	docs := &mockDocService{
		getWithChunksFn: func(ctx context.Context, id string) (*domain.DocumentWithChunks, error) {
			return &domain.DocumentWithChunks{
				Document: &domain.Document{ID: id, Filename: "a.txt"},
				Chunks: []*domain.Chunk{
					{ID: "c-1", DocumentID: id, Position: 0, Content: "first"},
				},
			}, nil
		},
	}
	server := &Server{docService: docs}

	req := httptest.NewRequest("GET", "/api/v1/documents/doc-1/chunks", nil)
	req.SetPathValue("id", "doc-1")
	rr := httptest.NewRecorder()

	server.handleGetDocumentChunks(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response domain.DocumentWithChunks
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Chunks) != 1 {
		t.Errorf("expected 1 chunk, got %d", len(response.Chunks))
	}
}

func TestHandleDeleteDocument(t *testing.T) {
	var deletedID string
	ingestion := &mockIngestionService{
		deleteFn: func(ctx context.Context, documentID string) error {
			deletedID = documentID
			return nil
		},
	}
	server := &Server{ingestionService: ingestion}

	req := httptest.NewRequest("DELETE", "/api/v1/documents/doc-1", nil)
	req.SetPathValue("id", "doc-1")
	rr := httptest.NewRecorder()

	server.handleDeleteDocument(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if deletedID != "doc-1" {
		t.Errorf("expected doc-1 deleted, got %s", deletedID)
	}
}

func TestHandleDeleteDocument_NotFound(t *testing.T) {
	ingestion := &mockIngestionService{
		deleteFn: func(ctx context.Context, documentID string) error {
			return domain.ErrNotFound
		},
	}
	server := &Server{ingestionService: ingestion}

	req := httptest.NewRequest("DELETE", "/api/v1/documents/missing", nil)
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()

	server.handleDeleteDocument(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

// Query endpoints

func TestHandleQuery_DefaultOptions(t *testing.T) {
	var gotOpts domain.QueryOptions
	query := &mockQueryService{
		queryFn: func(ctx context.Context, q string, opts domain.QueryOptions) (*domain.QueryResult, error) {
			gotOpts = opts
			return &domain.QueryResult{
				Query:  q,
				Answer: "the answer",
				Chunks: []*domain.RetrievedChunk{},
			}, nil
		},
	}
	server := &Server{queryService: query, queryDefaults: domain.DefaultQueryOptions()}

	body := bytes.NewBufferString(`{"query": "what is this?"}`)
	req := httptest.NewRequest("POST", "/api/v1/query", body)
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotOpts.TopK != 5 {
		t.Errorf("expected default top_k 5, got %d", gotOpts.TopK)
	}
	if gotOpts.SimilarityThreshold != 0.7 {
		t.Errorf("expected default threshold 0.7, got %f", gotOpts.SimilarityThreshold)
	}

	var response QueryResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Answer != "the answer" {
		t.Errorf("expected answer, got %q", response.Answer)
	}
	if response.RetrievedChunks == nil {
		t.Error("expected retrieved_chunks to be present")
	}
}

func TestHandleQuery_ExplicitOptions(t *testing.T) {
	var gotOpts domain.QueryOptions
	query := &mockQueryService{
		queryFn: func(ctx context.Context, q string, opts domain.QueryOptions) (*domain.QueryResult, error) {
			gotOpts = opts
			return &domain.QueryResult{Query: q, Answer: "ok", Chunks: []*domain.RetrievedChunk{}}, nil
		},
	}
	server := &Server{queryService: query, queryDefaults: domain.DefaultQueryOptions()}

	body := bytes.NewBufferString(`{"query": "q", "top_k": 3, "similarity_threshold": 0.5}`)
	req := httptest.NewRequest("POST", "/api/v1/query", body)
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if gotOpts.TopK != 3 {
		t.Errorf("expected top_k 3, got %d", gotOpts.TopK)
	}
	if gotOpts.SimilarityThreshold != 0.5 {
		t.Errorf("expected threshold 0.5, got %f", gotOpts.SimilarityThreshold)
	}
}

func TestHandleQuery_InvalidJSON(t *testing.T) {
	server := &Server{queryService: &mockQueryService{}, queryDefaults: domain.DefaultQueryOptions()}

	req := httptest.NewRequest("POST", "/api/v1/query", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleQuery_InvalidInput(t *testing.T) {
	query := &mockQueryService{
		queryFn: func(ctx context.Context, q string, opts domain.QueryOptions) (*domain.QueryResult, error) {
			return nil, domain.ErrInvalidInput
		},
	}
	server := &Server{queryService: query, queryDefaults: domain.DefaultQueryOptions()}

	req := httptest.NewRequest("POST", "/api/v1/query", bytes.NewBufferString(`{"query": ""}`))
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleQuery_GenerationFailure(t *testing.T) {
	query := &mockQueryService{
		queryFn: func(ctx context.Context, q string, opts domain.QueryOptions) (*domain.QueryResult, error) {
			return nil, domain.NewGenerationError(errors.New("rate limited"))
		},
	}
	server := &Server{queryService: query, queryDefaults: domain.DefaultQueryOptions()}

	req := httptest.NewRequest("POST", "/api/v1/query", bytes.NewBufferString(`{"query": "q"}`))
	rr := httptest.NewRecorder()

	server.handleQuery(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", rr.Code)
	}
}

func TestHandleRecentQueries(t *testing.T) {
	var gotLimit int
	query := &mockQueryService{
		recentFn: func(ctx context.Context, limit int) ([]*domain.QueryLog, error) {
			gotLimit = limit
			return []*domain.QueryLog{{ID: "log-1", Query: "q", Answer: "a"}}, nil
		},
	}
	server := &Server{queryService: query}

	req := httptest.NewRequest("GET", "/api/v1/queries/recent?limit=5", nil)
	rr := httptest.NewRecorder()

	server.handleRecentQueries(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if gotLimit != 5 {
		t.Errorf("expected limit 5, got %d", gotLimit)
	}

	var response []*domain.QueryLog
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 || response[0].ID != "log-1" {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestHandleRecentQueries_BadLimit(t *testing.T) {
	server := &Server{queryService: &mockQueryService{}}

	req := httptest.NewRequest("GET", "/api/v1/queries/recent?limit=abc", nil)
	rr := httptest.NewRecorder()

	server.handleRecentQueries(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

// Routing

func TestServerRouting(t *testing.T) {
	query := &mockQueryService{
		recentFn: func(ctx context.Context, limit int) ([]*domain.QueryLog, error) {
			return nil, nil
		},
	}
	cfg := DefaultConfig()
	cfg.Version = "9.9.9"
	server := NewServer(cfg, &mockIngestionService{}, query, &mockDocService{}, &mockPinger{}, nil)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/version", http.StatusOK},
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/v1/queries/recent", http.StatusOK},
		{"POST", "/version", http.StatusMethodNotAllowed},
		{"GET", "/api/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rr := httptest.NewRecorder()

		server.Handler().ServeHTTP(rr, req)

		if rr.Code != tt.status {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, tt.status, rr.Code)
		}
	}
}

// Helpers

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	data := map[string]string{"foo": "bar"}
	writeJSON(rr, http.StatusCreated, data)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["foo"] != "bar" {
		t.Errorf("expected foo 'bar', got %s", response["foo"])
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "invalid input")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "invalid input" {
		t.Errorf("expected error 'invalid input', got %s", response["error"])
	}
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"unsupported type", domain.ErrUnsupportedFileType, http.StatusBadRequest},
		{"file too large", domain.ErrFileTooLarge, http.StatusBadRequest},
		{"embedding error", domain.NewEmbeddingError(errors.New("down")), http.StatusBadGateway},
		{"generation error", domain.NewGenerationError(errors.New("down")), http.StatusBadGateway},
		{"store error", domain.NewStoreError("ingest", errors.New("down")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeDomainError(rr, tt.err, "fallback")
			if rr.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rr.Code)
			}
		})
	}
}

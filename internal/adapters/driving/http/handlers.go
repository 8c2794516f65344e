package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
	"github.com/custodia-labs/docqa-core/internal/loader"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// HealthResponse represents the health check response
// @Description Service health response
type HealthResponse struct {
	Status            string `json:"status" example:"healthy"`
	Version           string `json:"version" example:"1.0.0"`
	DatabaseConnected bool   `json:"database_connected"`

	// CacheConnected is omitted when no cache is configured
	CacheConnected *bool `json:"cache_connected,omitempty"`

	Timestamp string `json:"timestamp" example:"2025-01-01T00:00:00Z"`
}

// UploadResponse is returned after a successful document ingestion
// @Description Document upload response
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	Message    string `json:"message" example:"document ingested successfully"`
}

type queryRequest struct {
	Query               string   `json:"query"`
	TopK                *int     `json:"top_k,omitempty"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty"`
}

// QueryResponse is the answer to a question together with its sources
// @Description Query response with retrieved chunks
type QueryResponse struct {
	Query           string                   `json:"query"`
	Answer          string                   `json:"answer"`
	RetrievedChunks []*domain.RetrievedChunk `json:"retrieved_chunks"`
	ResponseTime    float64                  `json:"response_time"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API including database connectivity
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if s.db != nil && s.db.Ping(r.Context()) == nil {
		resp.DatabaseConnected = true
	} else {
		resp.Status = "unhealthy"
	}

	// Cache is optional, so its state is informational and never degrades
	// the overall status
	if s.redisClient != nil {
		connected := s.redisClient.Ping(r.Context()) == nil
		resp.CacheConnected = &connected
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// Document endpoints

// handleUploadDocument godoc
// @Summary      Upload document
// @Description  Upload a .txt or .pdf file and ingest it into the knowledge base. The file is chunked, embedded and persisted atomically.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document file (.txt or .pdf, max 10 MiB)"
// @Success      201   {object}  UploadResponse
// @Failure      400   {object}  ErrorResponse  "Unsupported file type, file too large or malformed upload"
// @Failure      502   {object}  ErrorResponse  "Embedding service unavailable"
// @Failure      500   {object}  ErrorResponse  "Ingestion failed"
// @Router       /documents/upload [post]
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeDomainError(w, fmt.Errorf("%w: limit is %d bytes", domain.ErrFileTooLarge, s.maxUploadBytes), "upload failed")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if _, err := loader.FileType(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, "unsupported file type, only .txt and .pdf are accepted")
		return
	}
	if header.Size > s.maxUploadBytes {
		writeDomainError(w, fmt.Errorf("%w: limit is %d bytes", domain.ErrFileTooLarge, s.maxUploadBytes), "upload failed")
		return
	}

	storedPath, err := s.storeUpload(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store uploaded file")
		return
	}

	result, err := s.ingestionService.Ingest(r.Context(), storedPath, header.Filename)
	if err != nil {
		// Nothing was persisted, so the stored file must go too
		_ = os.Remove(storedPath)
		writeDomainError(w, err, "ingestion failed")
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{
		DocumentID: result.DocumentID,
		Filename:   header.Filename,
		ChunkCount: result.ChunkCount,
		Message:    "document ingested successfully",
	})
}

// storeUpload writes the uploaded file under the data directory with a
// uuid-prefixed name to avoid collisions between same-named uploads
func (s *Server) storeUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.dataDir, uuid.NewString()+"_"+filepath.Base(filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// handleListDocuments godoc
// @Summary      List documents
// @Description  List all ingested documents with their chunk counts, in insertion order
// @Tags         Documents
// @Produce      json
// @Success      200  {array}   domain.DocumentSummary
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.docService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if summaries == nil {
		summaries = []*domain.DocumentSummary{}
	}

	writeJSON(w, http.StatusOK, summaries)
}

// handleGetDocument godoc
// @Summary      Get document
// @Description  Get a document's metadata by ID
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      400  {object}  ErrorResponse  "Missing document ID"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	doc, err := s.docService.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocumentChunks godoc
// @Summary      Get document with chunks
// @Description  Get a document by ID together with all of its chunks in position order
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.DocumentWithChunks
// @Failure      400  {object}  ErrorResponse  "Missing document ID"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id}/chunks [get]
func (s *Server) handleGetDocumentChunks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	doc, err := s.docService.GetWithChunks(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete document
// @Description  Delete a document, its chunks and its stored file
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse  "Missing document ID"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document id")
		return
	}

	if err := s.ingestionService.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, "failed to delete document")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "document deleted successfully",
	})
}

// Query endpoints

// handleQuery godoc
// @Summary      Query the knowledge base
// @Description  Answer a question using the most similar document chunks. top_k and similarity_threshold are optional and fall back to server defaults.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      queryRequest  true  "Question and retrieval options"
// @Success      200      {object}  QueryResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      502      {object}  ErrorResponse  "Embedding or generation service unavailable"
// @Failure      500      {object}  ErrorResponse  "Query failed"
// @Router       /query [post]
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := s.queryDefaults
	if req.TopK != nil {
		opts.TopK = *req.TopK
	}
	if req.SimilarityThreshold != nil {
		opts.SimilarityThreshold = *req.SimilarityThreshold
	}

	result, err := s.queryService.Query(r.Context(), req.Query, opts)
	if err != nil {
		writeDomainError(w, err, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Query:           result.Query,
		Answer:          result.Answer,
		RetrievedChunks: result.Chunks,
		ResponseTime:    result.Took.Seconds(),
	})
}

// handleRecentQueries godoc
// @Summary      Recent queries
// @Description  List recently served queries, newest first
// @Tags         Query
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries to return (default 20, max 100)"
// @Success      200    {array}   domain.QueryLog
// @Failure      500    {object}  ErrorResponse  "Internal server error"
// @Router       /queries/recent [get]
func (s *Server) handleRecentQueries(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	logs, err := s.queryService.RecentQueries(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list recent queries")
		return
	}
	if logs == nil {
		logs = []*domain.QueryLog{}
	}

	writeJSON(w, http.StatusOK, logs)
}

// Helper functions

// writeDomainError maps domain errors to HTTP status codes
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	var embErr *domain.EmbeddingError
	var genErr *domain.GenerationError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnsupportedFileType):
		writeError(w, http.StatusBadRequest, "unsupported file type, only .txt and .pdf are accepted")
	case errors.Is(err, domain.ErrFileTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &embErr):
		writeError(w, http.StatusBadGateway, "embedding service unavailable")
	case errors.As(err, &genErr):
		writeError(w, http.StatusBadGateway, "answer generation failed")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

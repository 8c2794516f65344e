package domain

import "time"

// Document represents an ingested file and its extracted text
type Document struct {
	ID        string            `json:"id"`
	Filename  string            `json:"filename"`
	FilePath  string            `json:"file_path"` // Location of the raw upload on disk
	FileType  string            `json:"file_type"` // "pdf" or "txt"
	Content   string            `json:"content,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Chunk represents an embedded span of a document's text
type Chunk struct {
	ID         string            `json:"id"`
	DocumentID string            `json:"document_id"`
	Content    string            `json:"content"`
	Position   int               `json:"position"` // Zero-based index within the document
	Size       int               `json:"size"`     // Character length of Content
	Embedding  []float32         `json:"embedding,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// DocumentSummary is the listing projection of a document
type DocumentSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentWithChunks combines a document with its chunks
type DocumentWithChunks struct {
	Document *Document `json:"document"`
	Chunks   []*Chunk  `json:"chunks"`
}

// RetrievedChunk is a search hit with its relevance score
type RetrievedChunk struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Content    string  `json:"chunk_text"`
	Position   int     `json:"chunk_index"`
	Score      float64 `json:"similarity_score"`
}

// IngestResult reports the outcome of a successful ingestion
type IngestResult struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}

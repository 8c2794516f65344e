package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFileType indicates the file extension is not ingestible
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge indicates the upload exceeds the size cap
	ErrFileTooLarge = errors.New("file too large")

	// ErrDimensionMismatch indicates an embedding vector has the wrong length
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// EmbeddingError wraps a failure from the external embedding model
type EmbeddingError struct {
	Cause error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Cause)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Cause
}

// NewEmbeddingError wraps err as an EmbeddingError
func NewEmbeddingError(err error) *EmbeddingError {
	return &EmbeddingError{Cause: err}
}

// GenerationError wraps a failure from the answer-generation model
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError wraps err as a GenerationError
func NewGenerationError(err error) *GenerationError {
	return &GenerationError{Cause: err}
}

// StoreError wraps a persistence failure (transaction or connection)
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError wraps err as a StoreError for the given operation
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Cause: err}
}

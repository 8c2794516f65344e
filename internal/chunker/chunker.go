// Package chunker splits document text into overlapping windows sized for
// embedding. Splitting is recursive: it prefers paragraph breaks, then line
// breaks, then sentence ends, then spaces, and only falls back to cutting
// mid-word when a single run of text exceeds the chunk size.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// defaultSeparators in descending priority. The empty separator means
// character-level splitting and always applies.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Config holds chunking parameters. Sizes are in characters (runes).
type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

// DefaultConfig returns the standard chunking parameters
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
	}
}

// Piece is one produced chunk of text
type Piece struct {
	Text  string
	Index int // Zero-based position within the document
	Size  int // Character length of Text
}

// Chunker splits text deterministically according to its configuration
type Chunker struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// New creates a Chunker, validating the configuration
func New(cfg Config) (*Chunker, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
	}
	if cfg.ChunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative", domain.ErrInvalidInput)
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: chunk overlap must be smaller than chunk size", domain.ErrInvalidInput)
	}

	return &Chunker{
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		separators:   defaultSeparators,
	}, nil
}

// Split produces the ordered chunk sequence for text.
// Empty or whitespace-only text yields zero pieces.
func (c *Chunker) Split(text string) []Piece {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	atoms := c.divide(text, c.separators)
	merged := c.merge(atoms)

	pieces := make([]Piece, 0, len(merged))
	for _, chunk := range merged {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		pieces = append(pieces, Piece{
			Text:  trimmed,
			Index: len(pieces),
			Size:  utf8.RuneCountInString(trimmed),
		})
	}
	return pieces
}

// divide recursively splits text into spans no longer than chunkSize, cutting
// at the highest-priority separator present. Separators stay attached to the
// preceding span so merging is plain concatenation.
func (c *Chunker) divide(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= c.chunkSize {
		return []string{text}
	}

	for i, sep := range separators {
		if sep == "" {
			return c.hardSplit(text)
		}
		if !strings.Contains(text, sep) {
			continue
		}

		var atoms []string
		for _, part := range strings.SplitAfter(text, sep) {
			if part == "" {
				continue
			}
			atoms = append(atoms, c.divide(part, separators[i+1:])...)
		}
		return atoms
	}

	return c.hardSplit(text)
}

// hardSplit cuts text into chunkSize-rune windows
func (c *Chunker) hardSplit(text string) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// merge greedily joins atoms into chunks of at most chunkSize characters,
// carrying whole atoms totalling at most chunkOverlap into the next chunk.
func (c *Chunker) merge(atoms []string) []string {
	var chunks []string
	var current []string
	curLen := 0

	flush := func() {
		if curLen == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, ""))
	}

	for _, atom := range atoms {
		atomLen := utf8.RuneCountInString(atom)

		if curLen > 0 && curLen+atomLen > c.chunkSize {
			flush()
			// Drop atoms from the front until only the overlap tail remains
			// and the incoming atom fits
			for curLen > c.chunkOverlap || (curLen > 0 && curLen+atomLen > c.chunkSize) {
				curLen -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}

		current = append(current, atom)
		curLen += atomLen
	}
	flush()

	return chunks
}

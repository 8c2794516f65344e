// Package loader extracts plain text from uploaded files.
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docqa-core/internal/core/domain"
)

// FileType returns the canonical file type for a filename, or an error for
// extensions that cannot be ingested.
func FileType(filename string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt":
		return "txt", nil
	case ".pdf":
		return "pdf", nil
	default:
		return "", fmt.Errorf("%w: %q (allowed: .txt, .pdf)", domain.ErrUnsupportedFileType, ext)
	}
}

// Load reads the file at path and returns its extracted text together with
// loader metadata such as the PDF page count.
func Load(path string) (string, map[string]string, error) {
	fileType, err := FileType(path)
	if err != nil {
		return "", nil, err
	}

	switch fileType {
	case "pdf":
		return loadPDF(path)
	default:
		return loadText(path)
	}
}

func loadText(path string) (string, map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), map[string]string{"source": filepath.Base(path)}, nil
}

func loadPDF(path string) (string, map[string]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", nil, fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", nil, fmt.Errorf("failed to read pdf text: %w", err)
	}

	meta := map[string]string{
		"source": filepath.Base(path),
		"pages":  strconv.Itoa(reader.NumPage()),
	}
	return buf.String(), meta, nil
}

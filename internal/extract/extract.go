// Package extract reads textual content out of the supported input
// formats: plain text, Markdown, Word documents, and text-layer PDFs.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/echome/internal/apperr"
)

// SupportedExtensions lists the input formats the pipeline accepts.
var SupportedExtensions = []string{".txt", ".md", ".docx", ".pdf"}

// Supported reports whether ext (with leading dot, any case) is a
// recognized input format.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Text returns the textual content of the file at path, routing by
// extension.
func Text(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("extract: read %s: %w", path, err)
		}
		return string(data), nil
	case ".docx":
		return docxText(path)
	case ".pdf":
		return pdfText(path)
	default:
		return "", fmt.Errorf("extract: %s: %w", ext, apperr.ErrUnsupportedFormat)
	}
}

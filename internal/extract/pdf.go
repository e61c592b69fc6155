package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/starford/echome/internal/apperr"
)

// minPDFTextLen is the threshold below which an extraction result is
// treated as a scanned document without a usable text layer.
const minPDFTextLen = 10

// pdfText extracts the text layer of a PDF. Scanned documents with no
// (or next to no) text layer fail with ErrScannedPDF: the pipeline
// requires OCR to have happened upstream.
func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("extract: open pdf %s: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract: pdf text %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("extract: pdf read %s: %w", path, err)
	}

	text := strings.TrimSpace(buf.String())
	if len(text) < minPDFTextLen {
		return "", fmt.Errorf("extract: %s: %w", path, apperr.ErrScannedPDF)
	}
	return text, nil
}

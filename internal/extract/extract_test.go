package extract

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/echome/internal/apperr"
)

func TestText_PlainAndMarkdown(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.md"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("hello\nworld"), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := Text(path)
		if err != nil {
			t.Fatalf("Text(%s): %v", name, err)
		}
		if got != "hello\nworld" {
			t.Errorf("Text(%s) = %q", name, got)
		}
	}
}

func TestText_UnsupportedExtension(t *testing.T) {
	_, err := Text("input.xlsx")
	if !errors.Is(err, apperr.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestText_MissingFile(t *testing.T) {
	if _, err := Text(filepath.Join(t.TempDir(), "gone.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

// writeDocx builds a minimal .docx archive containing the given
// paragraphs of document text.
func writeDocx(t *testing.T, path string, paragraphs ...string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		b.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	b.WriteString(`</w:body></w:document>`)
	if _, err := w.Write([]byte(b.String())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestText_Docx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo_test.docx")
	writeDocx(t, path, "First paragraph", "Second paragraph")

	got, err := Text(path)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "First paragraph\nSecond paragraph\n" {
		t.Errorf("docx text = %q", got)
	}
}

func TestText_DocxWithoutDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("word/other.xml")
	_, _ = w.Write([]byte("<x/>"))
	_ = zw.Close()
	_ = f.Close()

	if _, err := Text(path); err == nil {
		t.Error("expected error for docx without document.xml")
	}
}

func TestSupported(t *testing.T) {
	for _, ext := range []string{".txt", ".md", ".docx", ".pdf", ".TXT", ".PDF"} {
		if !Supported(ext) {
			t.Errorf("Supported(%s) = false", ext)
		}
	}
	for _, ext := range []string{".xlsx", ".png", ""} {
		if Supported(ext) {
			t.Errorf("Supported(%s) = true", ext)
		}
	}
}

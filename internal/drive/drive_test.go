package drive

import (
	"strings"
	"testing"
)

func TestProcessedName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"meeting_notes.txt", "meeting_notes_processed.txt"},
		{"memo.docx", "memo_processed.docx"},
		{"archive.tar.gz", "archive.tar_processed.gz"},
		{"no-extension", "no-extension_processed"},
	}
	for _, tc := range cases {
		if got := ProcessedName(tc.name); got != tc.want {
			t.Errorf("ProcessedName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestExtensionForMIME(t *testing.T) {
	cases := []struct {
		mime string
		want string
	}{
		{"text/plain", ".txt"},
		{"text/markdown", ".md"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
		{"application/pdf", ".pdf"},
		{"image/png", ".txt"},
	}
	for _, tc := range cases {
		if got := ExtensionForMIME(tc.mime); got != tc.want {
			t.Errorf("ExtensionForMIME(%q) = %q, want %q", tc.mime, got, tc.want)
		}
	}
}

func TestUnprocessedQuery(t *testing.T) {
	q := unprocessedQuery("folder123")

	if !strings.Contains(q, "'folder123' in parents") {
		t.Errorf("query missing parent clause: %s", q)
	}
	if !strings.Contains(q, "trashed=false") {
		t.Errorf("query missing trashed clause: %s", q)
	}
	if !strings.Contains(q, "not name contains '_processed'") {
		t.Errorf("query missing processed-marker exclusion: %s", q)
	}
	for mime := range mimeExtensions {
		if !strings.Contains(q, "mimeType='"+mime+"'") {
			t.Errorf("query missing MIME %s: %s", mime, q)
		}
	}

	// Queries must be deterministic across runs.
	if again := unprocessedQuery("folder123"); again != q {
		t.Errorf("query not deterministic:\n%s\n%s", q, again)
	}
}

func TestApprovedQuery(t *testing.T) {
	q := approvedQuery("appr")
	if !strings.Contains(q, "'appr' in parents") {
		t.Errorf("query missing parent clause: %s", q)
	}
	if !strings.Contains(q, "mimeType='text/markdown'") || !strings.Contains(q, "mimeType='text/plain'") {
		t.Errorf("query missing MIME filters: %s", q)
	}
	if strings.Contains(q, "_processed") {
		t.Errorf("approved query should not filter the processed marker: %s", q)
	}
}

package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/starford/echome/internal/apperr"
	"github.com/starford/echome/internal/llm"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"source: meeting", "source: meeting"},
		{"```yaml\nsource: meeting\n```", "source: meeting"},
		{"```\nsource: meeting\n```", "source: meeting"},
		{"```yaml\nsource: meeting", "source: meeting"},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseClassifierReply_Valid(t *testing.T) {
	p := parseClassifierReply("source: meeting\ntype: minutes\ntopics:\n  - SAP\n  - BTP\nsummary: weekly sync\n")
	if p.Source != "meeting" || p.Type != "minutes" {
		t.Errorf("enums = (%s, %s)", p.Source, p.Type)
	}
	if !reflect.DeepEqual(p.Topics, []string{"SAP", "BTP"}) {
		t.Errorf("topics = %v", p.Topics)
	}
	if p.Summary != "weekly sync" {
		t.Errorf("summary = %q", p.Summary)
	}
}

func TestParseClassifierReply_NormalizesEnums(t *testing.T) {
	p := parseClassifierReply("source: random_value\ntype: xyz\n")
	if p.Source != "unknown" {
		t.Errorf("source = %s, want unknown", p.Source)
	}
	if p.Type != "general" {
		t.Errorf("type = %s, want general", p.Type)
	}
}

func TestParseClassifierReply_TopicsString(t *testing.T) {
	p := parseClassifierReply(`topics: "SAP, BTP ,Cloud"`)
	if !reflect.DeepEqual(p.Topics, []string{"SAP", "BTP", "Cloud"}) {
		t.Errorf("topics = %v", p.Topics)
	}
}

func TestParseClassifierReply_TruncatesSummary(t *testing.T) {
	p := parseClassifierReply("summary: " + strings.Repeat("x", 60))
	if len([]rune(p.Summary)) != 50 || !strings.HasSuffix(p.Summary, "...") {
		t.Errorf("summary = %q (len %d)", p.Summary, len(p.Summary))
	}
}

func TestParseClassifierReply_GarbageIsEmptyPatch(t *testing.T) {
	p := parseClassifierReply(":::{not yaml")
	if p.Source != "" || p.Type != "" || p.Summary != "" || p.Topics != nil {
		t.Errorf("garbage reply should yield empty patch, got %+v", p)
	}
}

// fakeModel serves a canned classifier reply in the Messages API format
// and records the prompt it received.
func fakeModel(t *testing.T, reply string, gotPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.Unmarshal(body, &req)
		if gotPrompt != nil && len(req.Messages) > 0 {
			*gotPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": reply}},
		})
	}))
}

func testClassifier(t *testing.T, srv *httptest.Server) *Classifier {
	t.Helper()
	client, err := llm.NewClient("test-key", "", llm.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	return NewClassifier(client)
}

func TestClassify_TruncatesContent(t *testing.T) {
	var prompt string
	srv := fakeModel(t, "source: memo\ntype: note\n", &prompt)
	defer srv.Close()

	c := testClassifier(t, srv)
	long := strings.Repeat("z", classifyContentLimit+500)
	p, err := c.Classify(context.Background(), long)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if p.Source != "memo" {
		t.Errorf("source = %s", p.Source)
	}
	if strings.Count(prompt, "z") != classifyContentLimit {
		t.Errorf("prompt contains %d content chars, want %d", strings.Count(prompt, "z"), classifyContentLimit)
	}
}

func TestClassify_FencedReply(t *testing.T) {
	srv := fakeModel(t, "```yaml\nsource: webinar\ntype: summary\n```", nil)
	defer srv.Close()

	p, err := testClassifier(t, srv).Classify(context.Background(), "content")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if p.Source != "webinar" || p.Type != "summary" {
		t.Errorf("patch = %+v", p)
	}
}

func TestClassify_TruncatesOnRuneBoundary(t *testing.T) {
	var prompt string
	srv := fakeModel(t, "source: memo\ntype: note\n", &prompt)
	defer srv.Close()

	c := testClassifier(t, srv)
	long := strings.Repeat("é", classifyContentLimit+500)
	if _, err := c.Classify(context.Background(), long); err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !utf8.ValidString(prompt) {
		t.Error("prompt contains a split rune")
	}
	if got := strings.Count(prompt, "é"); got != classifyContentLimit {
		t.Errorf("prompt contains %d content runes, want %d", got, classifyContentLimit)
	}
}

func TestClassify_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClassifier(t, srv).Classify(context.Background(), "content")
	if err == nil {
		t.Fatal("expected error on server failure")
	}
	if !errors.Is(err, apperr.ErrClassifierFailed) {
		t.Errorf("err = %v, want ErrClassifierFailed", err)
	}
}

func TestClassify_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := testClassifier(t, srv).Classify(context.Background(), "content")
	if !errors.Is(err, apperr.ErrClassifierFailed) {
		t.Errorf("err = %v, want ErrClassifierFailed", err)
	}
}

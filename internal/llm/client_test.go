package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/echome/internal/apperr"
)

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("", "")
	if !errors.Is(err, apperr.ErrMissingCredential) {
		t.Errorf("err = %v, want ErrMissingCredential", err)
	}
}

func TestNewClient_DefaultModel(t *testing.T) {
	c, err := NewClient("key", "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("model = %s, want %s", c.Model(), DefaultModel)
	}
}

func TestComplete(t *testing.T) {
	var gotHeaders http.Header
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "part one "},
				{"type": "text", "text": "part two"},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient("secret", "test-model", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Complete(context.Background(), "hello", 256)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "part one part two" {
		t.Errorf("out = %q", out)
	}
	if gotHeaders.Get("x-api-key") != "secret" {
		t.Error("missing x-api-key header")
	}
	if gotHeaders.Get("anthropic-version") == "" {
		t.Error("missing anthropic-version header")
	}

	var req struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
	}
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatal(err)
	}
	if req.Model != "test-model" || req.MaxTokens != 256 {
		t.Errorf("request = %+v", req)
	}
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c, _ := NewClient("key", "", WithBaseURL(srv.URL))
	if _, err := c.Complete(context.Background(), "x", 10); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestComplete_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient("key", "", WithBaseURL(srv.URL))
	if _, err := c.Complete(context.Background(), "x", 10); err == nil {
		t.Fatal("expected error on empty reply")
	}
}

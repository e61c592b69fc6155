package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/echome/internal/apperr"
)

func testGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient("key", "", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	return NewGenerator(c)
}

func TestGenerate_UnknownShape(t *testing.T) {
	g := testGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"x"}]}`))
	})
	_, err := g.Generate(context.Background(), "content", Shape("podcast"))
	if !errors.Is(err, apperr.ErrUnknownShape) {
		t.Errorf("err = %v, want ErrUnknownShape", err)
	}
}

func TestGenerate_ShapeBudgets(t *testing.T) {
	budgets := map[Shape]int{ShapeBlog: 4096, ShapeXPost: 512, ShapeLinkedIn: 2048}

	var gotMax int
	var gotPrompt string
	g := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			MaxTokens int `json:"max_tokens"`
			Messages  []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.Unmarshal(body, &req)
		gotMax = req.MaxTokens
		gotPrompt = req.Messages[0].Content
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"generated"}]}`))
	})

	for shape, want := range budgets {
		out, err := g.Generate(context.Background(), "THE CONTENT", shape)
		if err != nil {
			t.Fatalf("Generate(%s): %v", shape, err)
		}
		if out != "generated" {
			t.Errorf("out = %q", out)
		}
		if gotMax != want {
			t.Errorf("%s max_tokens = %d, want %d", shape, gotMax, want)
		}
		if !strings.Contains(gotPrompt, "THE CONTENT") {
			t.Errorf("%s prompt does not embed content", shape)
		}
	}
}

func TestGenerate_RequestFailurePropagates(t *testing.T) {
	g := testGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := g.Generate(context.Background(), "x", ShapeBlog); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestShapes(t *testing.T) {
	got := Shapes()
	if len(got) != 3 || got[0] != ShapeBlog || got[1] != ShapeXPost || got[2] != ShapeLinkedIn {
		t.Errorf("Shapes() = %v", got)
	}
}

package metadata

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/echome/internal/apperr"
	"github.com/starford/echome/internal/llm"
)

// classifyContentLimit bounds how much content is sent for classification.
// The head of the document is enough to classify it, and the cap bounds
// request cost.
const classifyContentLimit = 3000

const classifyMaxTokens = 512

const classifyPrompt = `Classify the document below and reply with a YAML document
containing exactly these four fields:

source: one of meeting, interview, memo, webinar, unknown
type: one of minutes, transcript, note, summary, general
topics: a list of up to five short topic tags
summary: a one-line summary of at most 50 characters

Document:
%s

Reply with only the YAML document, no explanation and no code fences:`

// Classifier asks the generative model to derive metadata from document
// content. Its output is validated and normalized before use; any failure
// is non-fatal to the resolver.
type Classifier struct {
	client *llm.Client
}

// NewClassifier creates a Classifier backed by the given client.
func NewClassifier(client *llm.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify sends the truncated content to the model and parses the reply
// into a layer patch. A reply that cannot be parsed contributes an empty
// patch rather than an error; only transport-level failures are returned.
func (c *Classifier) Classify(ctx context.Context, content string) (Patch, error) {
	trimmed := content
	if runes := []rune(trimmed); len(runes) > classifyContentLimit {
		trimmed = string(runes[:classifyContentLimit])
	}

	reply, err := c.client.Complete(ctx, fmt.Sprintf(classifyPrompt, trimmed), classifyMaxTokens)
	if err != nil {
		return Patch{}, fmt.Errorf("metadata: classify: %w: %w", apperr.ErrClassifierFailed, err)
	}
	return parseClassifierReply(reply), nil
}

// parseClassifierReply defensively parses a model reply into a patch.
// Fenced-block markers are stripped first; a reply that still fails to
// parse as YAML yields an empty patch.
func parseClassifierReply(reply string) Patch {
	var m map[string]any
	if err := yaml.Unmarshal([]byte(stripFences(reply)), &m); err != nil {
		return Patch{}
	}

	var p Patch
	if s, ok := m["source"].(string); ok && s != "" {
		p.Source = normalizeSource(strings.TrimSpace(s))
	}
	if s, ok := m["type"].(string); ok && s != "" {
		p.Type = normalizeType(strings.TrimSpace(s))
	}
	if v, ok := m["topics"]; ok {
		p.Topics = topicsFromAny(v)
	}
	if s, ok := m["summary"].(string); ok && s != "" {
		p.Summary = truncateSummary(strings.TrimSpace(s))
	}
	return p
}

// stripFences removes a leading and trailing Markdown code fence, which
// models add despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

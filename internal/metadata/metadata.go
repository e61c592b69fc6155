// Package metadata resolves canonical content metadata for an input file
// through a layered precedence merge: filename inference, a generative
// classifier, an optional sidecar file, and explicit caller overrides.
package metadata

import (
	"fmt"
	"strings"
)

// Default values used when a field cannot be inferred or fails validation.
const (
	DefaultSource = "unknown"
	DefaultType   = "general"
)

// Summary display cap: summaries longer than maxSummaryLen runes are cut
// to truncatedLen runes plus an ellipsis marker.
const (
	maxSummaryLen = 50
	truncatedLen  = 47
	ellipsis      = "..."
)

// validSources and validTypes are the closed enumerations for the source
// and type fields. Out-of-set values collapse to the defaults.
var (
	validSources = map[string]struct{}{
		"meeting":   {},
		"interview": {},
		"memo":      {},
		"webinar":   {},
		"unknown":   {},
	}
	validTypes = map[string]struct{}{
		"minutes":    {},
		"transcript": {},
		"note":       {},
		"summary":    {},
		"general":    {},
	}
)

// ContentMetadata is the canonical metadata record for one input file.
// It is constructed once by Resolve and not mutated afterwards.
type ContentMetadata struct {
	Source       string   `json:"source"`
	Type         string   `json:"type"`
	Date         string   `json:"date"` // ISO 8601, YYYY-MM-DD
	Topics       []string `json:"topics"`
	Summary      string   `json:"summary,omitempty"`
	OriginalFile string   `json:"original_file"`
}

// Frontmatter renders the record as a YAML frontmatter block with a fixed
// key order. The summary line is omitted when empty. The block ends with
// a blank line so it can be prepended directly to Markdown content.
func (m ContentMetadata) Frontmatter() string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "source: %s\n", m.Source)
	fmt.Fprintf(&b, "type: %s\n", m.Type)
	fmt.Fprintf(&b, "date: %s\n", m.Date)
	if len(m.Topics) > 0 {
		fmt.Fprintf(&b, "topics: [%s]\n", strings.Join(m.Topics, ", "))
	} else {
		b.WriteString("topics: []\n")
	}
	if m.Summary != "" {
		fmt.Fprintf(&b, "summary: %s\n", m.Summary)
	}
	fmt.Fprintf(&b, "original_file: %s\n", m.OriginalFile)
	b.WriteString("---\n\n")
	return b.String()
}

// Prepend returns content with the record's frontmatter block in front.
func (m ContentMetadata) Prepend(content string) string {
	return m.Frontmatter() + content
}

// normalizeSource collapses out-of-set source values to DefaultSource.
func normalizeSource(s string) string {
	if _, ok := validSources[s]; ok {
		return s
	}
	return DefaultSource
}

// normalizeType collapses out-of-set type values to DefaultType.
func normalizeType(s string) string {
	if _, ok := validTypes[s]; ok {
		return s
	}
	return DefaultType
}

// truncateSummary enforces the display cap on free-text summaries.
func truncateSummary(s string) string {
	r := []rune(s)
	if len(r) <= maxSummaryLen {
		return s
	}
	return string(r[:truncatedLen]) + ellipsis
}

// ParseTopics splits a comma-delimited topics string into a trimmed list,
// dropping empty entries. An empty input yields an empty list.
func ParseTopics(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// cleanTopics trims entries and drops blanks, preserving order.
func cleanTopics(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// topicsFromAny accepts the list or delimited-string forms that sidecar
// files and classifier replies may use. Unknown shapes yield nil (unset).
func topicsFromAny(v any) []string {
	switch t := v.(type) {
	case string:
		return ParseTopics(t)
	case []string:
		return cleanTopics(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	default:
		return nil
	}
}

package metadata

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseTopics(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"SAP, BTP ,Cloud", []string{"SAP", "BTP", "Cloud"}},
		{"SAP,BTP", []string{"SAP", "BTP"}},
		{"", []string{}},
		{" , , ", []string{}},
		{"single", []string{"single"}},
	}
	for _, tc := range cases {
		got := ParseTopics(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseTopics(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTruncateSummary(t *testing.T) {
	long := strings.Repeat("a", 60)
	got := truncateSummary(long)
	if len([]rune(got)) != 50 {
		t.Errorf("truncated length = %d, want 50", len([]rune(got)))
	}
	if got != strings.Repeat("a", 47)+"..." {
		t.Errorf("truncated = %q", got)
	}

	exact := strings.Repeat("b", 50)
	if truncateSummary(exact) != exact {
		t.Error("50-char summary must pass through unmodified")
	}
	if truncateSummary("short") != "short" {
		t.Error("short summary must pass through unmodified")
	}
}

func TestNormalizeEnums(t *testing.T) {
	if got := normalizeSource("random_value"); got != "unknown" {
		t.Errorf("normalizeSource = %s, want unknown", got)
	}
	if got := normalizeSource("webinar"); got != "webinar" {
		t.Errorf("normalizeSource = %s, want webinar", got)
	}
	if got := normalizeType("xyz"); got != "general" {
		t.Errorf("normalizeType = %s, want general", got)
	}
	if got := normalizeType("transcript"); got != "transcript" {
		t.Errorf("normalizeType = %s, want transcript", got)
	}
}

func TestFrontmatter_Topics(t *testing.T) {
	m := ContentMetadata{
		Source:       "meeting",
		Type:         "minutes",
		Date:         "2025-01-08",
		Topics:       []string{"A", "B"},
		OriginalFile: "meeting_x.txt",
	}
	fm := m.Frontmatter()
	if !strings.Contains(fm, "topics: [A, B]\n") {
		t.Errorf("frontmatter missing topics list:\n%s", fm)
	}

	m.Topics = []string{}
	fm = m.Frontmatter()
	if !strings.Contains(fm, "topics: []\n") {
		t.Errorf("frontmatter missing empty topics:\n%s", fm)
	}
}

func TestFrontmatter_Layout(t *testing.T) {
	m := ContentMetadata{
		Source:       "memo",
		Type:         "note",
		Date:         "2025-02-01",
		Topics:       []string{"Go"},
		Summary:      "short summary",
		OriginalFile: "memo_a.md",
	}
	fm := m.Frontmatter()

	want := "---\n" +
		"source: memo\n" +
		"type: note\n" +
		"date: 2025-02-01\n" +
		"topics: [Go]\n" +
		"summary: short summary\n" +
		"original_file: memo_a.md\n" +
		"---\n\n"
	if fm != want {
		t.Errorf("frontmatter =\n%q\nwant\n%q", fm, want)
	}
}

func TestFrontmatter_OmitsEmptySummary(t *testing.T) {
	m := ContentMetadata{Source: "unknown", Type: "general", Date: "2025-01-01", OriginalFile: "x.txt"}
	if strings.Contains(m.Frontmatter(), "summary:") {
		t.Error("empty summary must be omitted from frontmatter")
	}
}

func TestPrepend(t *testing.T) {
	m := ContentMetadata{Source: "unknown", Type: "general", Date: "2025-01-01", OriginalFile: "x.txt"}
	out := m.Prepend("# Title\n")
	if !strings.HasPrefix(out, "---\n") || !strings.HasSuffix(out, "# Title\n") {
		t.Errorf("Prepend output malformed:\n%s", out)
	}
	if !strings.Contains(out, "---\n\n# Title\n") {
		t.Error("expected blank line between frontmatter and content")
	}
}

package metadata

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SidecarSuffix is the extension of the per-file metadata declaration
// document expected beside the input file.
const SidecarSuffix = ".meta.yaml"

// SidecarPath returns the deterministic sidecar location for an input
// file: same directory, same stem, SidecarSuffix extension.
func SidecarPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + SidecarSuffix
}

// LoadSidecar reads the sidecar document for inputPath into a loose
// key/value map. A missing file returns (nil, false). A file that exists
// but fails to parse, or parses to an empty document, degrades to absence
// with a warning; sidecar problems are never fatal.
func LoadSidecar(inputPath string) (map[string]any, bool) {
	path := SidecarPath(inputPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("sidecar read failed", slog.String("path", path), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		slog.Warn("sidecar parse failed", slog.String("path", path), slog.String("error", err.Error()))
		return nil, false
	}
	if len(m) == 0 {
		return nil, false
	}
	return m, true
}

// sidecarPatch converts a sidecar map into a layer patch. Only the
// recognized keys contribute; everything else is ignored.
func sidecarPatch(m map[string]any) Patch {
	var p Patch
	if s, ok := m["source"].(string); ok {
		p.Source = s
	}
	if s, ok := m["type"].(string); ok {
		p.Type = s
	}
	switch d := m["date"].(type) {
	case string:
		p.Date = d
	case time.Time:
		// yaml.v3 resolves unquoted ISO dates to time.Time.
		p.Date = d.Format("2006-01-02")
	}
	if s, ok := m["summary"].(string); ok {
		p.Summary = s
	}
	if v, ok := m["topics"]; ok {
		p.Topics = topicsFromAny(v)
	}
	return p
}

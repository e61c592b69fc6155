// Package output persists the three generated shapes under an output
// directory, optionally namespaced by a generation timestamp.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Fixed output filenames, one per shape.
const (
	FileBlog     = "blog.md"
	FileXPost    = "x_post.txt"
	FileLinkedIn = "linkedin_post.txt"
)

const timestampLayout = "20060102_150405"

// Set holds the three generated text blobs.
type Set struct {
	Blog     string
	XPost    string
	LinkedIn string
}

// Paths reports where a Set was written.
type Paths struct {
	Blog     string `json:"blog"`
	XPost    string `json:"x_post"`
	LinkedIn string `json:"linkedin"`
	Dir      string `json:"output_dir"`
}

// Write persists the set under baseDir, creating missing directories.
// When timestamped, files go into a YYYYMMDD_HHMMSS subdirectory. Each
// file write is independent; a mid-sequence failure leaves the files
// written so far in place.
func Write(set Set, baseDir string, timestamped bool) (Paths, error) {
	dir := baseDir
	if timestamped {
		dir = filepath.Join(baseDir, time.Now().Format(timestampLayout))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("output: mkdir %s: %w", dir, err)
	}

	paths := Paths{Dir: dir}
	files := []struct {
		name    string
		content string
		dest    *string
	}{
		{FileBlog, set.Blog, &paths.Blog},
		{FileXPost, set.XPost, &paths.XPost},
		{FileLinkedIn, set.LinkedIn, &paths.LinkedIn},
	}
	for _, f := range files {
		p := filepath.Join(dir, f.name)
		if err := writeFile(p, []byte(f.content)); err != nil {
			return paths, err
		}
		*f.dest = p
	}
	return paths, nil
}

// writeFile writes content atomically: tmp file, fsync, rename.
func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".echome-tmp-*")
	if err != nil {
		return fmt.Errorf("output: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("output: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("output: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("output: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("output: rename: %w", err)
	}
	success = true
	return nil
}

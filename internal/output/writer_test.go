package output

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestWrite_Flat(t *testing.T) {
	dir := t.TempDir()
	set := Set{Blog: "# Blog", XPost: "post", LinkedIn: "pro post"}

	paths, err := Write(set, dir, false)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if paths.Dir != dir {
		t.Errorf("dir = %s, want %s", paths.Dir, dir)
	}

	checks := map[string]string{
		paths.Blog:     "# Blog",
		paths.XPost:    "post",
		paths.LinkedIn: "pro post",
	}
	for path, want := range checks {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", path, data, want)
		}
	}
}

func TestWrite_Timestamped(t *testing.T) {
	dir := t.TempDir()
	paths, err := Write(Set{Blog: "b", XPost: "x", LinkedIn: "l"}, dir, true)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	sub := filepath.Base(paths.Dir)
	if !regexp.MustCompile(`^\d{8}_\d{6}$`).MatchString(sub) {
		t.Errorf("subdir %q does not match YYYYMMDD_HHMMSS", sub)
	}
	if filepath.Dir(paths.Dir) != dir {
		t.Errorf("subdir not under base: %s", paths.Dir)
	}
	if filepath.Base(paths.Blog) != FileBlog {
		t.Errorf("blog filename = %s", filepath.Base(paths.Blog))
	}
}

func TestWrite_CreatesMissingDirs(t *testing.T) {
	base := filepath.Join(t.TempDir(), "a", "b")
	if _, err := Write(Set{}, base, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, FileXPost)); err != nil {
		t.Errorf("expected output file: %v", err)
	}
}

func TestWrite_NoStrayTempFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(Set{Blog: "b"}, dir, false); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() != FileBlog && e.Name() != FileXPost && e.Name() != FileLinkedIn {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempDrafts(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

// put writes content under the drafts root.
func put(t *testing.T, s *FS, rel, content string) {
	t.Helper()
	if err := WriteFile(filepath.Join(s.root, rel), []byte(content)); err != nil {
		t.Fatalf("WriteFile %s: %v", rel, err)
	}
}

func TestWriteAndRead(t *testing.T) {
	s := tempDrafts(t)
	content := []byte("# Hello\nWorld\n")
	put(t, s, "note.md", string(content))
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestReadMissingWrapsNotExist(t *testing.T) {
	s := tempDrafts(t)
	_, err := s.Read("missing.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestList_TopLevelMarkdownOnly(t *testing.T) {
	s := tempDrafts(t)
	put(t, s, "a.md", "a")
	put(t, s, "b.markdown", "b")
	put(t, s, "sub/c.md", "c")
	put(t, s, "readme.txt", "not md")

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(items), items)
	}
	for _, it := range items {
		if it.Checksum == "" {
			t.Errorf("missing checksum for %s", it.Path)
		}
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempDrafts(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if _, err := s.Abs(p); err == nil {
			t.Errorf("expected error resolving %q", p)
		}
	}
}

func TestWriteFile_NoLeftoverTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.md")
	if err := WriteFile(path, []byte("original")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(path, []byte("updated")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, ".linkblog-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestWriteFile_KeepsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.md")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("y")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if Exists(dir) {
		t.Error("directory should not count as an existing file")
	}
	p := filepath.Join(dir, "f.md")
	if Exists(p) {
		t.Error("missing file reported as existing")
	}
	_ = os.WriteFile(p, nil, 0o644)
	if !Exists(p) {
		t.Error("existing file not reported")
	}
}

func TestIsMarkdown(t *testing.T) {
	for name, want := range map[string]bool{
		"a.md": true, "b.MARKDOWN": true, "c.txt": false, "md": false,
	} {
		if got := IsMarkdown(name); got != want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "linkblog-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/fehu/internal/apperr"
)

func tempArchive(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndReadFile(t *testing.T) {
	s := tempArchive(t)
	content := []byte("raw bytes")
	if err := s.WriteFile("acme/entity.json", content); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := s.ReadFile("acme/entity.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempArchive(t)
	if err := s.WriteFile("a/b/c.json", []byte("deep")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := s.ReadFile("a/b/c.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := tempArchive(t)
	in := map[string]any{"name": "Acme", "vat": "123"}
	if err := s.WriteJSON("acme/e1/entity.json", in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var out map[string]any
	if err := s.ReadJSON("acme/e1/entity.json", &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if out["name"] != "Acme" || out["vat"] != "123" {
		t.Errorf("round trip mismatch: %v", out)
	}
}

func TestReadJSON_Missing(t *testing.T) {
	s := tempArchive(t)
	var v map[string]any
	err := s.ReadJSON("nope.json", &v)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReadJSON_Corrupt(t *testing.T) {
	s := tempArchive(t)
	if err := s.WriteFile("bad.json", []byte("{not json")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	var v map[string]any
	err := s.ReadJSON("bad.json", &v)
	if !errors.Is(err, apperr.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	s := tempArchive(t)
	_ = s.WriteFile("del.json", []byte("bye"))
	if err := s.Remove("del.json"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove("del.json"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveAllRefusesRoot(t *testing.T) {
	s := tempArchive(t)
	if err := s.RemoveAll(""); err == nil {
		t.Error("expected error removing archive root")
	}
}

func TestReadDirMissingIsEmpty(t *testing.T) {
	s := tempArchive(t)
	entries, err := s.ReadDir("absent/dir")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestWalkMissingIsNoop(t *testing.T) {
	s := tempArchive(t)
	called := false
	err := s.Walk("absent", func(string, os.DirEntry, error) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if called {
		t.Error("walk callback called for missing root")
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempArchive(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.json",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.ReadFile(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.WriteFile(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	// Verify that an overwrite fully replaces the content (the rename is
	// atomic on POSIX) and leaves no temp files behind.
	s := tempArchive(t)
	original := []byte("original content")
	_ = s.WriteFile("atomic.json", original)

	updated := []byte("updated content")
	if err := s.WriteFile("atomic.json", updated); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, _ := s.ReadFile("atomic.json")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".fehu-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestFailedWriteLeavesDestinationIntact(t *testing.T) {
	// A serialization failure must not touch the destination record or leave
	// temp files in its directory.
	s := tempArchive(t)
	if err := s.WriteJSON("acme/record.json", map[string]string{"v": "1"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	if err := s.WriteJSON("acme/record.json", map[string]any{"bad": make(chan int)}); err == nil {
		t.Fatal("expected serialization error")
	}

	var v map[string]string
	if err := s.ReadJSON("acme/record.json", &v); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if v["v"] != "1" {
		t.Errorf("destination changed after failed write: %v", v)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, "acme", ".fehu-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/fehu-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "fehu-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}

package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewRunCreatesDistinctDirs(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	id1, dir1, err := s.NewRun()
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	id2, dir2, err := s.NewRun()
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}
	if id1 == id2 || dir1 == dir2 {
		t.Fatalf("expected distinct runs: %s %s", dir1, dir2)
	}
	for _, d := range []string{dir1, dir2} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Fatalf("run dir %s missing: %v", d, err)
		}
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	s, _ := NewStore(t.TempDir())
	id, dir, _ := s.NewRun()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := s.Path(id, "a.png")
	if err != nil || p != filepath.Join(dir, "a.png") {
		t.Fatalf("Path: %q %v", p, err)
	}
	bad := [][2]string{
		{id, "../x"},
		{id, ".."},
		{id, ""},
		{id, "missing.png"},
		{"not-a-uuid", "a.png"},
		{"..", "a.png"},
	}
	for _, b := range bad {
		if _, err := s.Path(b[0], b[1]); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Path(%q,%q): expected ErrNotFound, got %v", b[0], b[1], err)
		}
	}
}

func TestSweepRemovesExpiredRuns(t *testing.T) {
	root := t.TempDir()
	s, _ := NewStore(root)
	oldID, oldDir, _ := s.NewRun()
	_, freshDir, _ := s.NewRun()
	keep := filepath.Join(root, "notes")
	if err := os.MkdirAll(keep, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldDir, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(keep, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	n, err := s.Sweep(time.Hour)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Fatalf("expected %s (%s) removed", oldDir, oldID)
	}
	if _, err := os.Stat(freshDir); err != nil {
		t.Fatalf("fresh run removed: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("non-run dir removed: %v", err)
	}
}

func TestRemove(t *testing.T) {
	s, _ := NewStore(t.TempDir())
	id, dir, _ := s.NewRun()
	if err := s.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected dir removed")
	}
	if err := s.Remove("../../etc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

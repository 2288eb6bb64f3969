package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/edalens/internal/utils"
)

func TestCountTokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		min  int
	}{
		{"empty", "", 0},
		{"simple", "hello world", 2},
		{"long", strings.Repeat("a", 4000), 900}, // heuristic ~ 1 tok ≈ 4 chars
	}
	for _, c := range cases {
		if got := utils.CountTokens(c.in); got < c.min {
			t.Errorf("%s: got %d < min %d", c.name, got, c.min)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"age":           "age",
		"Annual Income": "Annual_Income",
		"../etc/passwd": "_etc_passwd",
		"":              "column",
		"...":           "column",
		"temp (°C)":     "temp___C_",
		"sales.2024-q1": "sales.2024-q1",
	}
	for in, want := range cases {
		if got := utils.SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWithinDir(t *testing.T) {
	root := t.TempDir()
	if !utils.WithinDir(root, filepath.Join(root, "a", "b.png")) {
		t.Fatalf("expected nested path to be inside")
	}
	if utils.WithinDir(root, filepath.Join(root, "..", "x")) {
		t.Fatalf("expected parent path to be outside")
	}
}

func TestSafeWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := utils.SafeWriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "hello" {
		t.Fatalf("read back: %q %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

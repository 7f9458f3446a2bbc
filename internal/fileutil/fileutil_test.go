package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/esther-poniatowski/loretex/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists - Path inspection
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "present.md")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file", path: file, want: true},
		{name: "directory is not a file", path: dir, want: false},
		{name: "missing path", path: filepath.Join(dir, "absent.md"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDirExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if !fileutil.DirExists(dir) {
		t.Errorf("DirExists(%q) = false, want true", dir)
	}
	if fileutil.DirExists(file) {
		t.Errorf("DirExists(%q) = true for a regular file", file)
	}
	if fileutil.DirExists(filepath.Join(dir, "missing")) {
		t.Error("DirExists = true for a missing path")
	}
}

// ---------------------------------------------------------------------------
// TestEnsureDir / TestWriteText / TestReadText - File round trips
// ---------------------------------------------------------------------------

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := fileutil.EnsureDir(target); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if !fileutil.DirExists(target) {
		t.Errorf("EnsureDir(%q) did not create the directory", target)
	}

	// Idempotent on an existing directory.
	if err := fileutil.EnsureDir(target); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
}

func TestWriteTextCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tex", "chapter.tex")
	if err := fileutil.WriteText(path, "\\section{Intro}"); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	got, err := fileutil.ReadText(path)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if got != "\\section{Intro}" {
		t.Errorf("ReadText() = %q, want %q", got, "\\section{Intro}")
	}
}

func TestReadTextMissingFile(t *testing.T) {
	t.Parallel()

	_, err := fileutil.ReadText(filepath.Join(t.TempDir(), "absent.md"))
	if err == nil {
		t.Fatal("ReadText() on missing file returned nil error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadText() error = %v, want wrapped os.ErrNotExist", err)
	}
}

// ---------------------------------------------------------------------------
// TestStemOf - Path helpers
// ---------------------------------------------------------------------------

func TestStemOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "markdown file", path: "notes/chapter-01.md", want: "chapter-01"},
		{name: "no extension", path: "README", want: "README"},
		{name: "dotted name", path: "a/b/archive.tar.gz", want: "archive.tar"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := fileutil.StemOf(tt.path); got != tt.want {
				t.Errorf("StemOf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

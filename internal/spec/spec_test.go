package spec_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/esther-poniatowski/loretex/internal/spec"
)

// ---------------------------------------------------------------------------
// TestParse - Valid specifications
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	data := []byte(`
output_dir: build/tex
anchor_level: 2
title: My Notes
chapters:
  - file: notes/intro.md
  - file: notes/body.md
    anchor_level: 1
`)
	s, err := spec.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.OutputDir != "build/tex" {
		t.Errorf("OutputDir = %q, want %q", s.OutputDir, "build/tex")
	}
	if s.Title != "My Notes" {
		t.Errorf("Title = %q, want %q", s.Title, "My Notes")
	}
	if len(s.Chapters) != 2 {
		t.Fatalf("Chapters length = %d, want 2", len(s.Chapters))
	}

	first := s.Chapters[0]
	if first.MarkdownPath != "notes/intro.md" {
		t.Errorf("MarkdownPath = %q, want %q", first.MarkdownPath, "notes/intro.md")
	}
	if want := filepath.Join("build/tex", "intro.tex"); first.TexOutput != want {
		t.Errorf("TexOutput = %q, want %q", first.TexOutput, want)
	}
	if first.AnchorLevel != 2 {
		t.Errorf("AnchorLevel = %d, want inherited 2", first.AnchorLevel)
	}
	if s.Chapters[1].AnchorLevel != 1 {
		t.Errorf("second AnchorLevel = %d, want explicit 1", s.Chapters[1].AnchorLevel)
	}
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	s, err := spec.Parse([]byte("chapters:\n  - file: a.md\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.OutputDir != spec.DefaultOutputDir {
		t.Errorf("OutputDir = %q, want default %q", s.OutputDir, spec.DefaultOutputDir)
	}
	if s.AnchorLevel != spec.DefaultAnchorLevel {
		t.Errorf("AnchorLevel = %d, want default %d", s.AnchorLevel, spec.DefaultAnchorLevel)
	}
	if want := filepath.Join(spec.DefaultOutputDir, spec.DefaultMainOutput); s.MainOutput != want {
		t.Errorf("MainOutput = %q, want derived %q", s.MainOutput, want)
	}
}

func TestParseBibliography(t *testing.T) {
	t.Parallel()

	t.Run("single path", func(t *testing.T) {
		t.Parallel()
		s, err := spec.Parse([]byte("bibliography: refs.bib\n"))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if s.Bibliography != "refs.bib" {
			t.Errorf("Bibliography = %q, want %q", s.Bibliography, "refs.bib")
		}
	})

	t.Run("list joined with commas", func(t *testing.T) {
		t.Parallel()
		s, err := spec.Parse([]byte("bibliography:\n  - a.bib\n  - b.bib\n"))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if s.Bibliography != "a.bib,b.bib" {
			t.Errorf("Bibliography = %q, want %q", s.Bibliography, "a.bib,b.bib")
		}
	})
}

func TestParseConversionSection(t *testing.T) {
	t.Parallel()

	data := []byte(`
conversion:
  inline:
    bold_command: bfseries
chapters:
  - file: a.md
`)
	s, err := spec.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	inline, ok := s.Conversion["inline"].(map[string]any)
	if !ok {
		t.Fatalf("Conversion[inline] = %T, want mapping", s.Conversion["inline"])
	}
	if inline["bold_command"] != "bfseries" {
		t.Errorf("bold_command = %v, want %q", inline["bold_command"], "bfseries")
	}
}

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	templatePath := filepath.Join(dir, "main.tex.tmpl")
	if err := os.WriteFile(templatePath, []byte("{{content}}"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := spec.Parse([]byte("template: " + templatePath + "\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.TemplatePath != templatePath {
		t.Errorf("TemplatePath = %q, want %q", s.TemplatePath, templatePath)
	}
}

// ---------------------------------------------------------------------------
// TestParseInvalid - Validation failures
// ---------------------------------------------------------------------------

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "output_dir wrong type", data: "output_dir: [a, b]\n"},
		{name: "anchor_level wrong type", data: "anchor_level: deep\n"},
		{name: "template missing file", data: "template: /nonexistent/template.tex\n"},
		{name: "bibliography wrong type", data: "bibliography: 42\n"},
		{name: "chapters not a list", data: "chapters: single.md\n"},
		{name: "chapter missing file", data: "chapters:\n  - anchor_level: 2\n"},
		{name: "chapter file wrong type", data: "chapters:\n  - file: [a]\n"},
		{name: "not yaml", data: "chapters: [unclosed\n"},
		{name: "unknown top-level key", data: "chapterz:\n  - file: ch1.md\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := spec.Parse([]byte(tt.data))
			if !errors.Is(err, spec.ErrInvalidSpec) {
				t.Errorf("Parse() error = %v, want ErrInvalidSpec", err)
			}
		})
	}
}

func TestParseCollectsAllProblems(t *testing.T) {
	t.Parallel()

	data := []byte(`
output_dir: [a]
anchor_level: deep
chapters:
  - anchor_level: 2
`)
	_, err := spec.Parse(data)
	if !errors.Is(err, spec.ErrInvalidSpec) {
		t.Fatalf("Parse() error = %v, want ErrInvalidSpec", err)
	}

	message := err.Error()
	for _, want := range []string{
		"output_dir must be a string",
		"anchor_level must be an integer",
		"chapters[0] missing required 'file'",
	} {
		if !strings.Contains(message, want) {
			t.Errorf("error %q missing problem %q", message, want)
		}
	}
}

func TestParseRejectsMisspelledKey(t *testing.T) {
	t.Parallel()

	_, err := spec.Parse([]byte("output_dir: ./tex\nchapterz:\n  - file: ch1.md\n"))
	if !errors.Is(err, spec.ErrInvalidSpec) {
		t.Fatalf("Parse() error = %v, want ErrInvalidSpec", err)
	}
	if !strings.Contains(err.Error(), "unknown key: chapterz") {
		t.Errorf("error %q does not name the misspelled key", err.Error())
	}
}

// ---------------------------------------------------------------------------
// TestLoad - File layer
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "book.yml")
	if err := os.WriteFile(path, []byte("chapters:\n  - file: a.md\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := spec.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Chapters) != 1 {
		t.Errorf("Chapters length = %d, want 1", len(s.Chapters))
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := spec.Load(filepath.Join(t.TempDir(), "missing.yml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

package main

import "testing"

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag parsing and positionals
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()
		f, positional, err := parseConvertFlags([]string{
			"--spec", "book.yml", "--output", "out", "--workers", "4", "--quiet",
		})
		if err != nil {
			t.Fatalf("parseConvertFlags() error = %v", err)
		}
		if f.spec != "book.yml" {
			t.Errorf("spec = %q, want %q", f.spec, "book.yml")
		}
		if f.output != "out" {
			t.Errorf("output = %q, want %q", f.output, "out")
		}
		if f.workers != 4 {
			t.Errorf("workers = %d, want 4", f.workers)
		}
		if !f.common.quiet {
			t.Error("quiet not set")
		}
		if len(positional) != 0 {
			t.Errorf("positional = %v, want none", positional)
		}
	})

	t.Run("short flags", func(t *testing.T) {
		t.Parallel()
		f, _, err := parseConvertFlags([]string{"-s", "book.yml", "-w", "2", "-v"})
		if err != nil {
			t.Fatalf("parseConvertFlags() error = %v", err)
		}
		if f.spec != "book.yml" || f.workers != 2 || !f.common.verbose {
			t.Errorf("short flags parsed as %+v", f)
		}
	})

	t.Run("positional spec path", func(t *testing.T) {
		t.Parallel()
		f, positional, err := parseConvertFlags([]string{"book.yml"})
		if err != nil {
			t.Fatalf("parseConvertFlags() error = %v", err)
		}
		if f.spec != "" {
			t.Errorf("spec = %q, want empty", f.spec)
		}
		if len(positional) != 1 || positional[0] != "book.yml" {
			t.Errorf("positional = %v, want [book.yml]", positional)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		f, _, err := parseConvertFlags(nil)
		if err != nil {
			t.Fatalf("parseConvertFlags() error = %v", err)
		}
		if f.workers != 0 || f.common.quiet || f.common.verbose {
			t.Errorf("defaults parsed as %+v", f)
		}
	})

	t.Run("unknown flag fails", func(t *testing.T) {
		t.Parallel()
		if _, _, err := parseConvertFlags([]string{"--bogus"}); err == nil {
			t.Error("parseConvertFlags() accepted unknown flag")
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveWorkers - Pool sizing
// ---------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flag     int
		chapters int
		expected int
	}{
		{name: "explicit flag", flag: 4, chapters: 10, expected: 4},
		{name: "capped by chapters", flag: 8, chapters: 3, expected: 3},
		{name: "at least one", flag: 1, chapters: 0, expected: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveWorkers(tt.flag, tt.chapters); got != tt.expected {
				t.Errorf("resolveWorkers(%d, %d) = %d, want %d", tt.flag, tt.chapters, got, tt.expected)
			}
		})
	}
}

package loretex

import "testing"

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		separator string
		expected  string
	}{
		{name: "simple title", input: "Introduction", separator: "-", expected: "introduction"},
		{name: "spaces become separator", input: "Getting Started", separator: "-", expected: "getting-started"},
		{name: "punctuation collapses", input: "What's new? (2024)", separator: "-", expected: "what-s-new-2024"},
		{name: "leading and trailing trimmed", input: "  Trimmed  ", separator: "-", expected: "trimmed"},
		{name: "custom separator", input: "A B C", separator: "_", expected: "a_b_c"},
		{name: "empty separator falls back to hyphen", input: "A B", separator: "", expected: "a-b"},
		{name: "unicode letters kept", input: "Théorème de Noether", separator: "-", expected: "théorème-de-noether"},
		{name: "digits kept", input: "Chapter 12", separator: "-", expected: "chapter-12"},
		{name: "only punctuation", input: "!!!", separator: "-", expected: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Slugify(tt.input, tt.separator); got != tt.expected {
				t.Errorf("Slugify(%q, %q) = %q, want %q", tt.input, tt.separator, got, tt.expected)
			}
		})
	}
}

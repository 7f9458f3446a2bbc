package yamlutil_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/esther-poniatowski/loretex/internal/yamlutil"
)

// ---------------------------------------------------------------------------
// TestDecode - Decoding and input guards
// ---------------------------------------------------------------------------

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("mapping", func(t *testing.T) {
		t.Parallel()
		var got map[string]any
		if err := yamlutil.Decode([]byte("output_dir: ./tex\nanchor_level: 2\n"), &got); err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got["output_dir"] != "./tex" {
			t.Errorf("output_dir = %v, want %q", got["output_dir"], "./tex")
		}
	})

	t.Run("nested structure", func(t *testing.T) {
		t.Parallel()
		var got map[string]any
		if err := yamlutil.Decode([]byte("conversion:\n  inline:\n    bold_command: bfseries\n"), &got); err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		conversion, ok := got["conversion"].(map[string]any)
		if !ok {
			t.Fatalf("conversion = %T, want mapping", got["conversion"])
		}
		if _, ok := conversion["inline"].(map[string]any); !ok {
			t.Errorf("inline = %T, want mapping", conversion["inline"])
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		var got map[string]any
		if err := yamlutil.Decode([]byte("chapters: [unclosed\n"), &got); err == nil {
			t.Error("Decode() accepted invalid YAML")
		}
	})
}

func TestDecodeInputGuards(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		var got map[string]any
		if err := yamlutil.Decode(nil, &got); !errors.Is(err, yamlutil.ErrEmptyInput) {
			t.Errorf("Decode(nil) error = %v, want ErrEmptyInput", err)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()
		if err := yamlutil.Decode([]byte("a: 1"), nil); !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("Decode() error = %v, want ErrNilDestination", err)
		}
	})

	t.Run("oversized input", func(t *testing.T) {
		t.Parallel()
		data := append([]byte("big: "), bytes.Repeat([]byte("x"), yamlutil.MaxInputSize)...)
		var got map[string]any
		if err := yamlutil.Decode(data, &got); !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("Decode() error = %v, want ErrInputTooLarge", err)
		}
	})
}

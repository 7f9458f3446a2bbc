package loretex

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRegistry - Registration, lookup, listing
// ---------------------------------------------------------------------------

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	identity := func(doc *Document) *Document { return doc }

	t.Run("register and get", func(t *testing.T) {
		t.Parallel()
		registry := NewRegistry()
		if err := registry.Register("identity", identity, false); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if _, err := registry.Get("identity"); err != nil {
			t.Errorf("Get() error = %v", err)
		}
	})

	t.Run("duplicate name fails", func(t *testing.T) {
		t.Parallel()
		registry := NewRegistry()
		if err := registry.Register("dup", identity, false); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		err := registry.Register("dup", identity, false)
		if !errors.Is(err, ErrTransformRegistered) {
			t.Errorf("Register() error = %v, want ErrTransformRegistered", err)
		}
	})

	t.Run("overwrite replaces", func(t *testing.T) {
		t.Parallel()
		registry := NewRegistry()
		if err := registry.Register("name", identity, false); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if err := registry.Register("name", identity, true); err != nil {
			t.Errorf("Register() with overwrite error = %v", err)
		}
	})

	t.Run("unknown name fails", func(t *testing.T) {
		t.Parallel()
		registry := NewRegistry()
		_, err := registry.Get("missing")
		if !errors.Is(err, ErrUnknownTransform) {
			t.Errorf("Get() error = %v, want ErrUnknownTransform", err)
		}
	})

	t.Run("zero value usable", func(t *testing.T) {
		t.Parallel()
		var registry Registry
		if err := registry.Register("t", identity, false); err != nil {
			t.Errorf("Register() on zero value error = %v", err)
		}
	})
}

func TestRegistryList(t *testing.T) {
	t.Parallel()

	identity := func(doc *Document) *Document { return doc }
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := registry.Register(name, identity, false); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	got := registry.List()
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	identity := func(doc *Document) *Document { return doc }
	registry := NewRegistry()
	if err := registry.Register("a", identity, false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if transforms, err := registry.Resolve([]string{"a", "a"}); err != nil || len(transforms) != 2 {
		t.Errorf("Resolve() = %d transforms, err %v", len(transforms), err)
	}
	if _, err := registry.Resolve([]string{"a", "missing"}); !errors.Is(err, ErrUnknownTransform) {
		t.Errorf("Resolve() error = %v, want ErrUnknownTransform", err)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()

	identity := func(doc *Document) *Document { return doc }
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := string(rune('a' + n))
			if err := registry.Register(name, identity, true); err != nil {
				t.Errorf("Register(%q) error = %v", name, err)
			}
			registry.List()
			if _, err := registry.Get(name); err != nil {
				t.Errorf("Get(%q) error = %v", name, err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(registry.List()); got != 8 {
		t.Errorf("List() length = %d, want 8", got)
	}
}

// ---------------------------------------------------------------------------
// TestApplyTransforms - Ordering and threading
// ---------------------------------------------------------------------------

func TestApplyTransforms(t *testing.T) {
	t.Parallel()

	appendParagraph := func(text string) Transform {
		return func(doc *Document) *Document {
			doc.Children = append(doc.Children, &Paragraph{Content: text})
			return doc
		}
	}

	doc := &Document{}
	result := ApplyTransforms(doc, []Transform{appendParagraph("first"), appendParagraph("second")})

	if len(result.Children) != 2 {
		t.Fatalf("Children length = %d, want 2", len(result.Children))
	}
	if para := result.Children[0].(*Paragraph); para.Content != "first" {
		t.Errorf("first transform ran out of order, got %q", para.Content)
	}
}

func TestApplyTransformsReplacesDocument(t *testing.T) {
	t.Parallel()

	replacement := &Document{Children: []Node{&Paragraph{Content: "fresh"}}}
	swap := func(doc *Document) *Document { return replacement }

	if got := ApplyTransforms(&Document{}, []Transform{swap}); got != replacement {
		t.Error("ApplyTransforms() did not thread the returned document")
	}
}

// ---------------------------------------------------------------------------
// TestTransformInConversion - Registry-driven pipeline
// ---------------------------------------------------------------------------

func TestTransformInConversion(t *testing.T) {
	t.Parallel()

	dropCodeBlocks := func(doc *Document) *Document {
		var kept []Node
		for _, child := range doc.Children {
			if _, ok := child.(*CodeBlock); ok {
				continue
			}
			kept = append(kept, child)
		}
		doc.Children = kept
		return doc
	}

	registry := NewRegistry()
	if err := registry.Register("drop-code", dropCodeBlocks, false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	converter, err := NewConverter(WithRegistry(registry), WithTransformNames("drop-code"))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	got, err := converter.ConvertString("text\n\n```go\nx\n```\n", nil)
	if err != nil {
		t.Fatalf("ConvertString() error = %v", err)
	}
	if strings.Contains(got, "lstlisting") {
		t.Errorf("ConvertString() = %q, transform did not run", got)
	}
	if !strings.Contains(got, "text") {
		t.Errorf("ConvertString() = %q, lost surviving content", got)
	}
}

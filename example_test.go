package loretex_test

import (
	"fmt"

	loretex "github.com/esther-poniatowski/loretex"
)

// Example demonstrates basic Markdown to LaTeX conversion.
func Example() {
	latex, err := loretex.ConvertString("# Hello World\n\nThis is *emphasis*.", nil, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(latex)
	// Output:
	// \section{Hello World}
	//
	// This is \textit{emphasis}.
}

// Example_withOverrides demonstrates per-call configuration overrides.
func Example_withOverrides() {
	converter, err := loretex.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// Map level-2 headings to \section for this document only.
	latex, err := converter.ConvertString("## Background", map[string]any{
		"headings": map[string]any{"anchor_level": 2},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(latex)
	// Output:
	// \section{Background}
}

// ExampleNewConverter_withTransforms demonstrates rewriting the document
// tree between parsing and generation.
func ExampleNewConverter_withTransforms() {
	dropCodeBlocks := func(doc *loretex.Document) *loretex.Document {
		var kept []loretex.Node
		for _, child := range doc.Children {
			if _, ok := child.(*loretex.CodeBlock); ok {
				continue
			}
			kept = append(kept, child)
		}
		doc.Children = kept
		return doc
	}

	converter, err := loretex.NewConverter(loretex.WithTransforms(dropCodeBlocks))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	latex, err := converter.ConvertString("Prose stays.\n\n```go\nx := 1\n```\n", nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(latex)
	// Output:
	// Prose stays.
}

// ExampleRegistry demonstrates resolving transforms by name.
func ExampleRegistry() {
	registry := loretex.NewRegistry()
	identity := func(doc *loretex.Document) *loretex.Document { return doc }
	if err := registry.Register("identity", identity, false); err != nil {
		fmt.Println("error:", err)
		return
	}

	converter, err := loretex.NewConverter(
		loretex.WithRegistry(registry),
		loretex.WithTransformNames("identity"),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	latex, err := converter.ConvertString("Some **bold** text.", nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(latex)
	// Output:
	// Some \textbf{bold} text.
}

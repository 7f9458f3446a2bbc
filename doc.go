// Package loretex converts Markdown documents to LaTeX source text.
//
// # Quick Start
//
// Create a converter and convert a Markdown string:
//
//	conv, err := loretex.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	latex, err := conv.ConvertString("# Hello\n\nWorld", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.tex", []byte(latex), 0644)
//
// The one-shot helper covers the common case:
//
//	latex, err := loretex.ConvertString(source, nil, nil)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Optional YAML front matter stripping
//  2. Footnote definition extraction ([^key]: text)
//  3. Block parsing into an AST (headings, lists, code fences, callouts,
//     tables, math blocks, images, horizontal rules, paragraphs)
//  4. Optional AST transforms (Document -> Document rewrites)
//  5. LaTeX generation, delegating free text to the inline cascade
//     (code spans, math spans, links, citations, footnotes, wiki-links,
//     emphasis, character normalization)
//
// The pipeline is deterministic: identical source and configuration always
// produce identical output. The core performs no I/O, so a single Converter
// is safe for concurrent use.
//
// # Configuration
//
// ConversionConfig is an immutable tree of per-construct sub-configs.
// Build one from defaults, from a mapping, or by layering overrides:
//
//	cfg := loretex.DefaultConfig()
//	cfg, err := cfg.WithOverrides(map[string]any{
//	    "headings": map[string]any{"anchor_level": 2},
//	    "lists":    map[string]any{"unordered_environment": "compactitem"},
//	})
//	conv, err := loretex.NewConverter(loretex.WithConfig(cfg))
//
// Per-call overrides are passed to ConvertString and never mutate the
// converter's configuration.
//
// # Errors
//
// Structurally invalid Markdown (malformed code fences, callout headers,
// headings, list items, image tags) aborts the conversion with a *ParseError
// carrying the 1-based line number and the offending line. Match the failure
// kind with errors.Is:
//
//	if errors.Is(err, loretex.ErrInvalidCodeFence) { ... }
//
// Tables and math blocks never fail structurally; ambiguous input is kept
// as plain content.
package loretex

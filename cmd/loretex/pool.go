package main

import (
	"fmt"
	"runtime"
	"sync"

	loretex "github.com/esther-poniatowski/loretex"
	"github.com/esther-poniatowski/loretex/internal/spec"
)

// convertChapters runs the chapter conversions through a bounded worker
// pool. Output order follows the spec regardless of completion order; the
// first error wins and is returned after all workers settle.
func convertChapters(converter *loretex.Converter, s *spec.Spec, workers int, quiet bool, deps *Dependencies) ([]string, error) {
	type result struct {
		output string
		err    error
	}
	results := make([]result, len(s.Chapters))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, chapter := range s.Chapters {
		wg.Add(1)
		go func(i int, chapter spec.Chapter) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			output, err := convertChapter(converter, chapter)
			results[i] = result{output: output, err: err}
		}(i, chapter)
	}
	wg.Wait()

	outputs := make([]string, 0, len(results))
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("converting %s: %w", s.Chapters[i].MarkdownPath, r.err)
		}
		if !quiet {
			fmt.Fprintf(deps.Stdout, "Converted %s to %s\n", s.Chapters[i].MarkdownPath, r.output)
		}
		outputs = append(outputs, r.output)
	}
	return outputs, nil
}

// resolveWorkers determines the pool size.
// Priority: explicit flag > GOMAXPROCS-based calculation, capped by work.
func resolveWorkers(flagWorkers, chapters int) int {
	n := flagWorkers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if chapters > 0 && n > chapters {
		n = chapters
	}
	if n < 1 {
		n = 1
	}
	return n
}

package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	loretex "github.com/esther-poniatowski/loretex"
	"github.com/esther-poniatowski/loretex/internal/spec"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: ExitSuccess},
		{name: "general error", err: errors.New("boom"), expected: ExitGeneral},
		{name: "code fence", err: loretex.ErrInvalidCodeFence, expected: ExitCodeFence},
		{name: "callout", err: loretex.ErrInvalidCallout, expected: ExitCallout},
		{name: "heading", err: loretex.ErrInvalidHeading, expected: ExitHeading},
		{name: "list item", err: loretex.ErrInvalidListItem, expected: ExitListItem},
		{name: "image tag", err: loretex.ErrInvalidImageTag, expected: ExitImageTag},
		{name: "file not found", err: os.ErrNotExist, expected: ExitIO},
		{name: "permission denied", err: os.ErrPermission, expected: ExitIO},
		{name: "invalid spec", err: spec.ErrInvalidSpec, expected: ExitUsage},
		{name: "invalid config value", err: loretex.ErrInvalidConfigValue, expected: ExitUsage},
		{name: "unknown transform", err: loretex.ErrUnknownTransform, expected: ExitUsage},
		{name: "no spec given", err: ErrNoSpec, expected: ExitUsage},
		{
			name:     "wrapped parse error",
			err:      fmt.Errorf("converting a.md: %w", fmt.Errorf("line 3: %w", loretex.ErrInvalidImageTag)),
			expected: ExitImageTag,
		},
		{
			name:     "wrapped io error",
			err:      fmt.Errorf("reading chapter: %w", os.ErrNotExist),
			expected: ExitIO,
		},
		{
			name:     "wrapped spec error",
			err:      fmt.Errorf("loading: %w", spec.ErrInvalidSpec),
			expected: ExitUsage,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.expected {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

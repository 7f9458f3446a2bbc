package main

import (
	"errors"
	"os"

	loretex "github.com/esther-poniatowski/loretex"
	"github.com/esther-poniatowski/loretex/internal/spec"
)

// Exit codes for the loretex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
// Parse failures get per-construct codes so scripted callers can tell which
// Markdown construct broke without scraping stderr.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags or specification
	ExitIO      = 3 // File not found, permission denied

	ExitCodeFence = 10 // Malformed or unterminated code fence
	ExitCallout   = 11 // Malformed callout header
	ExitHeading   = 12 // Malformed heading
	ExitListItem  = 13 // Malformed list item
	ExitImageTag  = 14 // Malformed image tag
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Parse errors (exit 10-14)
	switch {
	case errors.Is(err, loretex.ErrInvalidCodeFence):
		return ExitCodeFence
	case errors.Is(err, loretex.ErrInvalidCallout):
		return ExitCallout
	case errors.Is(err, loretex.ErrInvalidHeading):
		return ExitHeading
	case errors.Is(err, loretex.ErrInvalidListItem):
		return ExitListItem
	case errors.Is(err, loretex.ErrInvalidImageTag):
		return ExitImageTag
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/spec/config errors (exit 2)
	if errors.Is(err, spec.ErrInvalidSpec) ||
		errors.Is(err, loretex.ErrInvalidConfigValue) ||
		errors.Is(err, loretex.ErrUnknownTransform) ||
		errors.Is(err, ErrNoSpec) {
		return ExitUsage
	}

	return ExitGeneral
}

package loretex

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	// Parse error kinds. Each structural construct that demands syntactic
	// correctness has its own sentinel so callers can map failures to
	// distinct exit codes.
	ErrInvalidCodeFence = errors.New("invalid code fence")
	ErrInvalidCallout   = errors.New("invalid callout header")
	ErrInvalidHeading   = errors.New("invalid heading")
	ErrInvalidListItem  = errors.New("invalid list item")
	ErrInvalidImageTag  = errors.New("invalid image tag")

	// Configuration errors.
	ErrInvalidConfigValue = errors.New("invalid configuration value")

	// Transform registry errors.
	ErrTransformRegistered = errors.New("transform already registered")
	ErrUnknownTransform    = errors.New("unknown transform")
)

// ParseError reports structurally invalid Markdown. It carries the 1-based
// line number and the literal offending line. Unwrap returns the kind
// sentinel (ErrInvalidCodeFence, ErrInvalidCallout, ...), so errors.Is works
// on both the kind and the ParseError itself.
type ParseError struct {
	Kind    error
	Line    int
	Content string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d: %q", e.Kind, e.Line, e.Content)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func newParseError(kind error, line int, content string) *ParseError {
	return &ParseError{Kind: kind, Line: line, Content: content}
}

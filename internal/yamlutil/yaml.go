// Package yamlutil wraps YAML decoding behind a small seam so the rest of
// the tool does not depend on the YAML library directly.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps decoded input to guard against pathological files
// (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrEmptyInput     = errors.New("yamlutil: empty input")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
)

// Decode unmarshals data into v, enforcing the input-size cap. Decode
// errors from the underlying library are wrapped so callers can prefix
// their own context.
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

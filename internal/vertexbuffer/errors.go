package vertexbuffer

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an invalid attribute or layout declaration.
	ErrConfiguration = errors.New("invalid attribute configuration")
	// ErrDuplicateSemantic is returned when a layout already holds the semantic.
	ErrDuplicateSemantic = fmt.Errorf("%w: duplicate semantic", ErrConfiguration)

	ErrSizeMismatch         = errors.New("size mismatch")
	ErrMissingAttributeData = errors.New("missing attribute data")
	ErrMissingConverter     = errors.New("missing converter")
	ErrInvalidCount         = errors.New("invalid vertex count")
	ErrTypeMismatch         = errors.New("column type mismatch")
)

// SizeMismatchError reports a byte length that disagrees with the layout.
// Attribute is empty when the whole interleaved input is at fault.
type SizeMismatchError struct {
	Attribute string
	Expected  int
	Got       int
}

func (e *SizeMismatchError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("vertexbuffer: data length %d does not match expected size %d", e.Got, e.Expected)
	}
	return fmt.Sprintf("vertexbuffer: attribute %s: data length %d does not match expected size %d",
		e.Attribute, e.Got, e.Expected)
}

func (e *SizeMismatchError) Unwrap() error { return ErrSizeMismatch }

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("vertexbuffer: %w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

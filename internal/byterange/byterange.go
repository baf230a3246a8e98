// Package byterange parses and validates single-range Range header values.
package byterange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const UnitBytes = "bytes"

var (
	ErrMalformed     = errors.New("malformed range")
	ErrInvalidBounds = errors.New("range bounds are not integers")
)

// Spec is the first range of a Range header. Start and End hold the raw
// bound text; an empty bound means the edge of the resource.
type Spec struct {
	Unit  string
	Start string
	End   string
}

// Parse splits a Range header value like "bytes=0-99". Only the first
// comma-separated range is kept.
func Parse(value string) (Spec, error) {
	unit, rest, ok := strings.Cut(value, "=")
	if !ok {
		return Spec{}, fmt.Errorf("%w: missing '=' in %q", ErrMalformed, value)
	}
	first, _, _ := strings.Cut(rest, ",")
	start, end, ok := strings.Cut(first, "-")
	if !ok {
		return Spec{}, fmt.Errorf("%w: missing '-' in %q", ErrMalformed, value)
	}
	return Spec{Unit: unit, Start: start, End: end}, nil
}

// Bounds resolves the inclusive byte positions against a resource length.
func (s Spec) Bounds(length int64) (start, end int64, err error) {
	start, end = 0, length-1
	if s.Start != "" {
		start, err = strconv.ParseInt(s.Start, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: start %q", ErrInvalidBounds, s.Start)
		}
	}
	if s.End != "" {
		end, err = strconv.ParseInt(s.End, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: end %q", ErrInvalidBounds, s.End)
		}
	}
	return start, end, nil
}

// Validate reports whether spec can be served against a resource of the
// given length. A nil spec means no Range header was sent and is always
// accepted.
func Validate(spec *Spec, length int64) bool {
	if spec == nil {
		return true
	}
	if spec.Unit != UnitBytes {
		return false
	}
	start, end, err := spec.Bounds(length)
	if err != nil {
		return false
	}
	return start >= 0 && start <= end && end < length
}

func (s Spec) String() string {
	return fmt.Sprintf("%s=%s-%s", s.Unit, s.Start, s.End)
}

package interpolant

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDegree is returned for spline degrees other than 1 and 3.
var ErrUnsupportedDegree = errors.New("unsupported spline degree")

// ProjectionNotConfiguredError is returned at the first evaluation of an
// interpolant whose group declared a query projection that cannot be
// transformed into its native one.
type ProjectionNotConfiguredError struct {
	Field string
	Err   error
}

func (e *ProjectionNotConfiguredError) Error() string {
	return fmt.Sprintf("field %q: reprojection: %v", e.Field, e.Err)
}

func (e *ProjectionNotConfiguredError) Unwrap() error { return e.Err }

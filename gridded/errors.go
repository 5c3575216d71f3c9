package gridded

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned for a field name the group never loaded.
	ErrUnknownField = errors.New("unknown field")

	// ErrDegenerateDomain is returned when NaN trimming removes every row
	// or every column of the group.
	ErrDegenerateDomain = errors.New("degenerate domain")
)

// DataLoadError reports a missing or malformed raster source. A group is
// never returned alongside it.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// DegenerateDomainError carries the surviving row and column counts.
type DegenerateDomainError struct {
	Rows, Cols int
}

func (e *DegenerateDomainError) Error() string {
	return fmt.Sprintf("%v: %d rows and %d columns survive NaN trimming",
		ErrDegenerateDomain, e.Rows, e.Cols)
}

func (e *DegenerateDomainError) Unwrap() error { return ErrDegenerateDomain }

func unknownField(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownField, name)
}

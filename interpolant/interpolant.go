// Package interpolant builds continuous functions of (x, y) over gridded
// fields: per-axis nearest sample lookup and tensor-product splines.
package interpolant

import (
	"fmt"

	"github.com/notargets/varglas/gridded"
	"gonum.org/v1/gonum/mat"
)

// Strategy selects how an Interpolant evaluates.
type Strategy uint8

const (
	Nearest Strategy = iota
	Spline
)

func (s Strategy) String() string {
	switch s {
	case Nearest:
		return "nearest"
	case Spline:
		return "spline"
	}
	return "unknown"
}

// Options configure a spline interpolant. Only linear (1) and natural cubic
// (3) degrees are supported on each axis; NewSpline rejects any other degree
// with ErrUnsupportedDegree.
type Options struct {
	DegreeX, DegreeY int  // 1 or 3
	AsBoolean        bool // threshold the field in place before building
}

// DefaultOptions is a bicubic spline of the raw values.
func DefaultOptions() Options {
	return Options{DegreeX: 3, DegreeY: 3}
}

// Interpolant evaluates one field of a group at arbitrary points. It is
// read-only once built and safe for concurrent evaluation.
type Interpolant struct {
	Strategy Strategy
	Field    string

	loc     *Locator
	data    *mat.Dense // nearest: the field array itself
	surface *surface   // spline coefficients
}

// At evaluates the interpolant. Points off the grid are clamped (nearest) or
// extrapolated (spline); the only error source is reprojection.
func (in *Interpolant) At(x, y float64) (float64, error) {
	switch in.Strategy {
	case Nearest:
		ix, iy, err := in.loc.Index(x, y)
		if err != nil {
			return 0, err
		}
		return in.data.At(iy, ix), nil
	default:
		xn, yn, err := in.loc.Native(x, y)
		if err != nil {
			return 0, err
		}
		return in.surface.at(xn, yn), nil
	}
}

func prepare(g *gridded.Group, name string, asBoolean bool) (*gridded.Field, error) {
	if asBoolean {
		if err := g.Threshold(name); err != nil {
			return nil, err
		}
	}
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	return g.Field(name)
}

// NewNearest builds a nearest sample interpolant of the named field. It
// reads the field array at evaluation time, so later in-place edits show.
func NewNearest(g *gridded.Group, name string, asBoolean bool) (*Interpolant, error) {
	f, err := prepare(g, name, asBoolean)
	if err != nil {
		return nil, err
	}
	return &Interpolant{
		Strategy: Nearest,
		Field:    name,
		loc:      newLocator(g, name),
		data:     f.Data,
	}, nil
}

// NewSpline fits a tensor-product spline to the named field. Coefficients
// are computed now; nothing is cached between calls.
func NewSpline(g *gridded.Group, name string, opts Options) (*Interpolant, error) {
	if !validDegree(opts.DegreeX) || !validDegree(opts.DegreeY) {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrUnsupportedDegree, opts.DegreeX, opts.DegreeY)
	}
	f, err := prepare(g, name, opts.AsBoolean)
	if err != nil {
		return nil, err
	}
	s, err := newSurface(g.X(), g.Y(), f.Data, opts.DegreeX, opts.DegreeY)
	if err != nil {
		return nil, fmt.Errorf("fitting %q: %w", name, err)
	}
	return &Interpolant{
		Strategy: Spline,
		Field:    name,
		loc:      newLocator(g, name),
		surface:  s,
	}, nil
}

func validDegree(k int) bool { return k == 1 || k == 3 }

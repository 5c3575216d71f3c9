package interpolant

import (
	"fmt"
	"sort"
	"sync"

	"github.com/notargets/varglas/gridded"
	"github.com/notargets/varglas/reproject"
)

// Locator maps query points onto a group's grid, applying the group's
// declared reprojection first.
type Locator struct {
	field string
	x, y  []float64

	reprojects bool
	src, dst   reproject.Projection
	once       sync.Once
	transform  reproject.Transformer
	terr       error
}

// NewLocator captures the group axes; the group is finalized first.
func NewLocator(g *gridded.Group) (*Locator, error) {
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	return newLocator(g, ""), nil
}

func newLocator(g *gridded.Group, field string) *Locator {
	return &Locator{
		field:      field,
		x:          g.X(),
		y:          g.Y(),
		reprojects: g.Reprojects(),
		src:        g.Target(),
		dst:        g.Projection(),
	}
}

// Native returns (x, y) expressed in the group's native projection.
func (l *Locator) Native(x, y float64) (float64, float64, error) {
	if !l.reprojects {
		return x, y, nil
	}
	l.once.Do(func() {
		l.transform, l.terr = reproject.NewTransform(l.src, l.dst)
	})
	if l.terr != nil {
		return 0, 0, &ProjectionNotConfiguredError{Field: l.field, Err: l.terr}
	}
	xn, yn, err := l.transform(x, y)
	if err != nil {
		return 0, 0, fmt.Errorf("reprojecting (%g, %g): %w", x, y, err)
	}
	return xn, yn, nil
}

// Index returns the column and row of the nearest sample along each axis
// independently, clamped to the grid.
func (l *Locator) Index(x, y float64) (ix, iy int, err error) {
	if x, y, err = l.Native(x, y); err != nil {
		return
	}
	return nearestIndex(l.x, x), nearestIndex(l.y, y), nil
}

// Index is a one-off Locator lookup.
func Index(g *gridded.Group, x, y float64) (ix, iy int, err error) {
	l, err := NewLocator(g)
	if err != nil {
		return 0, 0, err
	}
	return l.Index(x, y)
}

// nearestIndex is argmin |xs - v| over increasing xs, first index on ties.
func nearestIndex(xs []float64, v float64) int {
	k := sort.SearchFloat64s(xs, v)
	switch {
	case k == 0:
		return 0
	case k == len(xs):
		return len(xs) - 1
	}
	if v-xs[k-1] <= xs[k]-v {
		return k - 1
	}
	return k
}

// Package assimilate merges a higher resolution secondary dataset into the
// projection of a primary one where the secondary has valid coverage.
package assimilate

import (
	"fmt"

	"github.com/notargets/varglas/adapter"
	"github.com/notargets/varglas/interpolant"
	"github.com/notargets/varglas/mesh"
	"github.com/notargets/varglas/partitions"
	"gonum.org/v1/gonum/mat"
)

// Options tune where secondary values replace primary ones.
type Options struct {
	// BorderRadius is the half width, in secondary cells, of the window
	// that must lie entirely above Floor for the projected secondary value
	// to be used.
	BorderRadius int
	// Floor is the largest value still counted as missing coverage.
	Floor float64
}

func DefaultOptions() Options {
	return Options{BorderRadius: 20, Floor: 0}
}

// Assimilate returns a new CG1 function on the shared mesh. Vertices where
// the nearest secondary sample lies above the floor take the projected
// secondary value when the surrounding window is fully covered, and the
// raw secondary sample near the coverage edge. All other vertices keep the
// projected primary value.
func Assimilate(primary *adapter.Adapter, primaryField string,
	secondary *adapter.Adapter, secondaryField string, opts Options) (*mesh.Function, error) {
	if primary.Mesh() != secondary.Mesh() {
		return nil, adapter.ErrMeshMismatch
	}
	if opts.BorderRadius < 0 {
		return nil, fmt.Errorf("negative border radius %d", opts.BorderRadius)
	}
	up, err := primary.Project(primaryField, adapter.DefaultProjectOptions())
	if err != nil {
		return nil, err
	}
	us, err := secondary.Project(secondaryField, adapter.DefaultProjectOptions())
	if err != nil {
		return nil, err
	}
	sg := secondary.Group()
	f, err := sg.Field(secondaryField)
	if err != nil {
		return nil, err
	}
	loc, err := interpolant.NewLocator(sg)
	if err != nil {
		return nil, err
	}

	var (
		out = &mesh.Function{Space: primary.CG(), Values: up.VertexValues()}
		sv  = us.VertexValues()
		m   = primary.Mesh()
		w   = window{data: f.Data, r: opts.BorderRadius, floor: opts.Floor}
	)
	err = partitions.NewWorkerLayout(m.NumVertices(), mesh.Workers).ForEach(
		func(p partitions.Partition) error {
			for _, i := range p.Elements {
				ix, iy, err := loc.Index(m.VX[i], m.VY[i])
				if err != nil {
					return fmt.Errorf("assimilating %q: %w", secondaryField, err)
				}
				dv := f.Data.At(iy, ix)
				if !(dv > opts.Floor) {
					continue
				}
				if w.covered(ix, iy) {
					out.Values[i] = sv[i]
				} else {
					out.Values[i] = dv
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type window struct {
	data  *mat.Dense
	r     int
	floor float64
}

// covered reports whether every sample in rows [iy-r, iy+r) and columns
// [ix-r, ix+r), clipped to the grid, lies above the floor.
func (w window) covered(ix, iy int) bool {
	ny, nx := w.data.Dims()
	for i := max(0, iy-w.r); i < min(ny, iy+w.r); i++ {
		for j := max(0, ix-w.r); j < min(nx, ix+w.r); j++ {
			if !(w.data.At(i, j) > w.floor) {
				return false
			}
		}
	}
	return true
}

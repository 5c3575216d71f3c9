package gridded

import (
	"gonum.org/v1/gonum/mat"
)

func (g *Group) apply(name string, fn func(d *mat.Dense)) error {
	f, ok := g.fields[name]
	if !ok {
		return unknownField(name)
	}
	fn(f.Data)
	return nil
}

// SetDataMin replaces values <= boundary with val.
func (g *Group) SetDataMin(name string, boundary, val float64) error {
	return g.apply(name, func(d *mat.Dense) {
		d.Apply(func(_, _ int, v float64) float64 {
			if v <= boundary {
				return val
			}
			return v
		}, d)
	})
}

// SetDataMax replaces values >= boundary with val.
func (g *Group) SetDataMax(name string, boundary, val float64) error {
	return g.apply(name, func(d *mat.Dense) {
		d.Apply(func(_, _ int, v float64) float64 {
			if v >= boundary {
				return val
			}
			return v
		}, d)
	})
}

// SetDataVal replaces every value equal to oldVal with newVal.
func (g *Group) SetDataVal(name string, oldVal, newVal float64) error {
	return g.apply(name, func(d *mat.Dense) {
		d.Apply(func(_, _ int, v float64) float64 {
			if v == oldVal {
				return newVal
			}
			return v
		}, d)
	})
}

// Threshold sets every positive value to 1.
func (g *Group) Threshold(name string) error { return g.apply(name, threshold) }

// ZeroEdges sets the two outermost rows and columns to EdgeValue.
func (g *Group) ZeroEdges(name string) error { return g.apply(name, zeroEdges) }

// FlipRows reverses the row order in place.
func (g *Group) FlipRows(name string) error { return g.apply(name, flipRows) }

func threshold(d *mat.Dense) {
	d.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return 1
		}
		return v
	}, d)
}

func zeroEdges(d *mat.Dense) {
	ny, nx := d.Dims()
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			if i < 2 || i >= ny-2 || j < 2 || j >= nx-2 {
				d.Set(i, j, EdgeValue)
			}
		}
	}
}

func flipRows(d *mat.Dense) {
	ny, nx := d.Dims()
	tmp := make([]float64, nx)
	for i, k := 0, ny-1; i < k; i, k = i+1, k-1 {
		copy(tmp, d.RawRowView(i))
		copy(d.RawRowView(i), d.RawRowView(k))
		copy(d.RawRowView(k), tmp)
	}
}

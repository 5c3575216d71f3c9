package interpolant

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// curve is a one dimensional spline continued linearly past its end knots
// along the end slopes.
type curve struct {
	lo, hi   float64
	loV, hiV float64
	loD, hiD float64
	n        int
	pred     interp.Predictor
	cubic    *interp.NaturalCubic // nil for linear curves
}

// newCurve fits ys over xs with a natural cubic (degree 3) or piecewise
// linear (degree 1) spline. Cubic fits need four knots; shorter axes fall
// back to linear, and a single knot gives a constant.
func newCurve(xs, ys []float64, degree int) (*curve, error) {
	c := &curve{n: len(xs), lo: xs[0], hi: xs[len(xs)-1]}
	if c.n == 1 {
		c.loV, c.hiV = ys[0], ys[0]
		return c, nil
	}
	if degree == 3 && c.n >= 4 {
		var nc interp.NaturalCubic
		if err := nc.Fit(xs, ys); err != nil {
			return nil, err
		}
		c.pred, c.cubic = &nc, &nc
		c.loD = nc.PredictDerivative(c.lo)
		c.hiD = nc.PredictDerivative(c.hi)
	} else {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return nil, err
		}
		c.pred = &pl
		c.loD = (ys[1] - ys[0]) / (xs[1] - xs[0])
		c.hiD = (ys[c.n-1] - ys[c.n-2]) / (xs[c.n-1] - xs[c.n-2])
	}
	c.loV, c.hiV = ys[0], ys[c.n-1]
	return c, nil
}

func (c *curve) at(t float64) float64 {
	switch {
	case c.n == 1:
		return c.loV
	case t <= c.lo:
		return c.loV + c.loD*(t-c.lo)
	case t >= c.hi:
		return c.hiV + c.hiD*(t-c.hi)
	}
	return c.pred.Predict(t)
}

// surface is a tensor-product spline over a rectilinear grid. Each column
// carries a spline in y of its samples, and for cubic x, a spline in y of the
// x-derivatives of the row splines at that column. Evaluation builds the
// cubic Hermite segment in x from the two bracketing columns, which is the
// exact tensor-product piece.
type surface struct {
	x      []float64
	cubicX bool
	cols   []*curve // values along y, one per column
	dcols  []*curve // x-derivatives along y, one per column
}

func newSurface(x, y []float64, data *mat.Dense, degX, degY int) (*surface, error) {
	ny, nx := data.Dims()
	if nx != len(x) || ny != len(y) {
		return nil, fmt.Errorf("data shape (%d,%d) does not match axes (%d,%d)", ny, nx, len(y), len(x))
	}
	s := &surface{
		x:      append([]float64(nil), x...),
		cubicX: degX == 3 && nx >= 4,
		cols:   make([]*curve, nx),
	}
	col := make([]float64, ny)
	for i := 0; i < nx; i++ {
		mat.Col(col, i, data)
		c, err := newCurve(y, col, degY)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		s.cols[i] = c
	}
	if !s.cubicX {
		return s, nil
	}

	deriv := mat.NewDense(ny, nx, nil)
	row := make([]float64, nx)
	for j := 0; j < ny; j++ {
		mat.Row(row, j, data)
		c, err := newCurve(x, row, 3)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", j, err)
		}
		for i := 0; i < nx; i++ {
			deriv.Set(j, i, c.cubic.PredictDerivative(x[i]))
		}
	}
	s.dcols = make([]*curve, nx)
	for i := 0; i < nx; i++ {
		mat.Col(col, i, deriv)
		c, err := newCurve(y, col, degY)
		if err != nil {
			return nil, fmt.Errorf("derivative column %d: %w", i, err)
		}
		s.dcols[i] = c
	}
	return s, nil
}

func (s *surface) at(xq, yq float64) float64 {
	nx := len(s.x)
	if nx == 1 {
		return s.cols[0].at(yq)
	}
	// segment [x[i], x[i+1]] containing xq, clamped to the end segments
	i := sort.SearchFloat64s(s.x, xq) - 1
	if i < 0 {
		i = 0
	}
	if i > nx-2 {
		i = nx - 2
	}
	x0, x1 := s.x[i], s.x[i+1]
	h := x1 - x0
	f0, f1 := s.cols[i].at(yq), s.cols[i+1].at(yq)

	if !s.cubicX {
		switch {
		case xq <= s.x[0]:
			return f0 + (f1-f0)/h*(xq-x0)
		case xq >= s.x[nx-1]:
			return f1 + (f1-f0)/h*(xq-x1)
		}
		return f0 + (f1-f0)*(xq-x0)/h
	}

	d0, d1 := s.dcols[i].at(yq), s.dcols[i+1].at(yq)
	switch {
	case xq <= s.x[0]:
		return f0 + d0*(xq-x0)
	case xq >= s.x[nx-1]:
		return f1 + d1*(xq-x1)
	}
	t := (xq - x0) / h
	t2, t3 := t*t, t*t*t
	return (2*t3-3*t2+1)*f0 + (t3-2*t2+t)*h*d0 + (-2*t3+3*t2)*f1 + (t3-t2)*h*d1
}

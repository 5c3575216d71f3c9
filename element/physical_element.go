package element

import (
	"errors"
	"math"
)

// ErrDegenerateElement is returned for triangles of zero area.
var ErrDegenerateElement = errors.New("degenerate triangle")

// AffineMap maps the reference triangle onto a physical triangle:
//
//	x = -(r+s)/2 x0 + (1+r)/2 x1 + (1+s)/2 x2
type AffineMap struct {
	X, Y [3]float64

	// Metric terms ∂x/∂r, ∂x/∂s, ∂y/∂r, ∂y/∂s, constant over the element
	Xr, Xs, Yr, Ys float64

	// Jacobian determinant |∂(x,y)/∂(r,s)|, signed by orientation
	J float64
}

func NewAffineMap(x, y [3]float64) (am AffineMap, err error) {
	am = AffineMap{X: x, Y: y}
	am.Xr = (x[1] - x[0]) / 2
	am.Xs = (x[2] - x[0]) / 2
	am.Yr = (y[1] - y[0]) / 2
	am.Ys = (y[2] - y[0]) / 2
	am.J = am.Xr*am.Ys - am.Xs*am.Yr
	if am.J == 0 {
		err = ErrDegenerateElement
	}
	return
}

// Area is the physical area, twice the Jacobian in magnitude.
func (am AffineMap) Area() float64 { return 2 * math.Abs(am.J) }

func (am AffineMap) ToPhysical(r, s float64) (x, y float64) {
	l0, l1, l2 := -(r+s)/2, (1+r)/2, (1+s)/2
	x = l0*am.X[0] + l1*am.X[1] + l2*am.X[2]
	y = l0*am.Y[0] + l1*am.Y[1] + l2*am.Y[2]
	return
}

func (am AffineMap) ToReference(x, y float64) (r, s float64) {
	dx, dy := x-am.X[0], y-am.Y[0]
	r = (am.Ys*dx-am.Xs*dy)/am.J - 1
	s = (-am.Yr*dx+am.Xr*dy)/am.J - 1
	return
}

// Barycentric returns the barycentric coordinates of (x,y), which are also
// the linear nodal basis values at that point.
func (am AffineMap) Barycentric(x, y float64) (l [3]float64) {
	r, s := am.ToReference(x, y)
	l[0], l[1], l[2] = -(r+s)/2, (1+r)/2, (1+s)/2
	return
}

// Contains reports whether (x,y) lies in the closed triangle, with tol
// applied to each barycentric coordinate.
func (am AffineMap) Contains(x, y, tol float64) bool {
	for _, v := range am.Barycentric(x, y) {
		if v < -tol {
			return false
		}
	}
	return true
}

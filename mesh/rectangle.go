package mesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// NewRectangleMesh triangulates [x0,x1]x[y0,y1] with nx by ny cells, each
// split along its rising diagonal.
func NewRectangleMesh(x0, y0, x1, y1 float64, nx, ny int) (*Mesh, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("rectangle mesh needs at least one cell, got %d x %d", nx, ny)
	}
	if !(x1 > x0) || !(y1 > y0) {
		return nil, fmt.Errorf("empty rectangle [%g,%g]x[%g,%g]", x0, x1, y0, y1)
	}
	x := make([]float64, nx+1)
	y := make([]float64, ny+1)
	for i := range x {
		x[i] = x0 + (x1-x0)*float64(i)/float64(nx)
	}
	for j := range y {
		y[j] = y0 + (y1-y0)*float64(j)/float64(ny)
	}
	return NewGridMesh(x, y)
}

// NewGridMesh triangulates the rectilinear grid with vertex columns x and
// rows y, both strictly increasing. Vertex j*len(x)+i sits at (x[i], y[j]).
func NewGridMesh(x, y []float64) (*Mesh, error) {
	if len(x) < 2 || len(y) < 2 {
		return nil, fmt.Errorf("grid mesh needs two vertices per axis, got %d x %d", len(x), len(y))
	}
	for _, axis := range [][]float64{x, y} {
		if !sort.Float64sAreSorted(axis) || floats.HasNaN(axis) {
			return nil, fmt.Errorf("grid axis not increasing: %v", axis)
		}
		for i := 1; i < len(axis); i++ {
			if axis[i] == axis[i-1] {
				return nil, fmt.Errorf("grid axis repeats %g", axis[i])
			}
		}
	}
	nx, ny := len(x)-1, len(y)-1
	var (
		VX   = make([]float64, 0, len(x)*len(y))
		VY   = make([]float64, 0, len(x)*len(y))
		EToV = make([][]int, 0, 2*nx*ny)
	)
	for j := range y {
		for i := range x {
			VX = append(VX, x[i])
			VY = append(VY, y[j])
		}
	}
	vid := func(i, j int) int { return j*(nx+1) + i }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00, v10 := vid(i, j), vid(i+1, j)
			v01, v11 := vid(i, j+1), vid(i+1, j+1)
			EToV = append(EToV, []int{v00, v10, v11}, []int{v00, v11, v01})
		}
	}
	return NewMesh(VX, VY, EToV)
}

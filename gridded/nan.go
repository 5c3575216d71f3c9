package gridded

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// IdentifyNaNs folds the all-NaN rows and columns of the named field into
// the group masks. Repeated calls change nothing further.
func (g *Group) IdentifyNaNs(name string) error {
	f, ok := g.fields[name]
	if !ok {
		return unknownField(name)
	}
	g.identifyNaNs(f)
	return nil
}

func (g *Group) identifyNaNs(f *Field) {
	ny, nx := f.Data.Dims()
	if ny != len(g.goodY) || nx != len(g.goodX) {
		return
	}
	var lostCols, lostRows int
	for j := 0; j < nx; j++ {
		if g.goodX[j] && allNaN(f.Data.ColView(j)) {
			g.goodX[j] = false
			lostCols++
		}
	}
	for i := 0; i < ny; i++ {
		if g.goodY[i] && allNaN(f.Data.RowView(i)) {
			g.goodY[i] = false
			lostRows++
		}
	}
	if lostCols > 0 {
		g.dirty = true
		Logger.Printf("warning: %d column(s) of %q are entirely NaN", lostCols, f.Name)
	}
	if lostRows > 0 {
		g.dirty = true
		Logger.Printf("warning: %d row(s) of %q are entirely NaN", lostRows, f.Name)
	}
}

func allNaN(v mat.Vector) bool {
	for i := 0; i < v.Len(); i++ {
		if !math.IsNaN(v.AtVec(i)) {
			return false
		}
	}
	return true
}

// Finalize trims every field and both coordinate axes to the rows and
// columns that survived NaN identification, once. Interpolant builders call
// it before reading any field.
func (g *Group) Finalize() error {
	if g.finalized {
		return nil
	}
	if !g.dirty {
		g.finalized = true
		return nil
	}
	rows, cols := indices(g.goodY), indices(g.goodX)
	if len(rows) == 0 || len(cols) == 0 {
		return &DegenerateDomainError{Rows: len(rows), Cols: len(cols)}
	}

	Logger.Printf("removing NaNs: keeping %d of %d rows, %d of %d columns",
		len(rows), g.ny, len(cols), g.nx)
	for _, name := range g.names {
		f := g.fields[name]
		trimmed := mat.NewDense(len(rows), len(cols), nil)
		for i, r := range rows {
			for j, c := range cols {
				trimmed.Set(i, j, f.Data.At(r, c))
			}
		}
		f.Data = trimmed
	}
	g.x = pick(g.x, cols)
	g.y = pick(g.y, rows)
	g.nx, g.ny = len(g.x), len(g.y)
	g.bounds.Min.X, g.bounds.Max.X = g.x[0], g.x[g.nx-1]
	g.bounds.Min.Y, g.bounds.Max.Y = g.y[0], g.y[g.ny-1]
	g.goodX, g.goodY = allTrue(g.nx), allTrue(g.ny)
	g.dirty = false
	g.finalized = true
	return nil
}

// Finalized reports whether Finalize has run.
func (g *Group) Finalized() bool { return g.finalized }

func indices(good []bool) (idx []int) {
	for i, ok := range good {
		if ok {
			idx = append(idx, i)
		}
	}
	return
}

func pick(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, k := range idx {
		out[i] = v[k]
	}
	return out
}

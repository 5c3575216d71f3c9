package adapter

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/notargets/varglas/gridded"
	"github.com/notargets/varglas/mesh"
	"github.com/notargets/varglas/reproject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var polar = reproject.Projection{Family: "stere", Lat0: 90, Lon0: -39, LatTs: 71}

func newGroup(t *testing.T, nx, ny int, fn func(x, y float64) float64) *gridded.Group {
	d := mat.NewDense(ny, nx, nil)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			d.Set(i, j, fn(float64(j), float64(i)))
		}
	}
	g, err := gridded.LoadRasters(map[string]gridded.Raster{
		"f": {Data: d, West: 0, East: float64(nx - 1), South: 0, North: float64(ny - 1), Projection: polar},
	}, gridded.Options{})
	require.NoError(t, err)
	return g
}

func plane(x, y float64) float64 { return 2 + 0.5*x - 0.25*y }

func TestNew_Validation(t *testing.T) {
	g := newGroup(t, 4, 4, plane)
	m1, err := mesh.NewRectangleMesh(0, 0, 3, 3, 3, 3)
	require.NoError(t, err)
	m2, err := mesh.NewRectangleMesh(0, 0, 3, 3, 3, 3)
	require.NoError(t, err)
	cg, _ := mesh.NewFunctionSpace(m1, mesh.CG, 1)
	dg1, _ := mesh.NewFunctionSpace(m1, mesh.DG, 1)
	dg2, _ := mesh.NewFunctionSpace(m2, mesh.DG, 1)

	_, err = New(g, nil, nil)
	assert.Error(t, err)
	_, err = New(g, dg1, nil)
	assert.Error(t, err)
	_, err = New(g, cg, cg)
	assert.Error(t, err)
	_, err = New(g, cg, dg2)
	assert.ErrorIs(t, err, ErrMeshMismatch)

	a, err := New(g, cg, dg1)
	require.NoError(t, err)
	assert.Same(t, m1, a.Mesh())
	assert.Same(t, g, a.Group())
	assert.Same(t, cg, a.CG())
	assert.Same(t, dg1, a.DG())
}

func TestNewRectangle(t *testing.T) {
	g := newGroup(t, 5, 4, plane)
	a, err := NewRectangle(g, false)
	require.NoError(t, err)
	assert.Equal(t, 20, a.Mesh().NumVertices())
	assert.Equal(t, 24, a.Mesh().NumElements())
	assert.Nil(t, a.DG())

	_, err = a.Project("f", ProjectOptions{Discontinuous: true})
	assert.ErrorIs(t, err, ErrNoDGSpace)
}

func TestProject_Plane(t *testing.T) {
	g := newGroup(t, 6, 5, plane)
	a, err := NewRectangle(g, true)
	require.NoError(t, err)

	// a linear field lies in CG1 so the spline projection recovers it
	for _, opts := range []ProjectOptions{
		DefaultProjectOptions(),
		{DegreeX: 1, DegreeY: 1},
	} {
		f, err := a.Project("f", opts)
		require.NoError(t, err)
		assert.Equal(t, mesh.CG, f.Space.Family)
		x, y := a.CG().DOFCoordinates()
		for i := range x {
			assert.InDelta(t, plane(x[i], y[i]), f.Values[i], 1.e-8)
		}
	}

	f, err := a.Project("f", ProjectOptions{Discontinuous: true})
	require.NoError(t, err)
	assert.Equal(t, mesh.DG, f.Space.Family)
	assert.Len(t, f.Values, 3*a.Mesh().NumElements())

	_, err = a.Project("missing", DefaultProjectOptions())
	assert.ErrorIs(t, err, gridded.ErrUnknownField)
}

func TestProject_ConservesMean(t *testing.T) {
	g := newGroup(t, 8, 8, func(x, y float64) float64 { return math.Sin(x) + math.Cos(y) })
	a, err := NewRectangle(g, true)
	require.NoError(t, err)

	// the constant is in both spaces, so projection keeps the integral
	cg, err := a.Project("f", ProjectOptions{Nearest: true})
	require.NoError(t, err)
	dg, err := a.Project("f", ProjectOptions{Discontinuous: true})
	require.NoError(t, err)
	assert.InDelta(t, dg.Integral(), cg.Integral(), 1.e-8)
}

func TestInterpolate(t *testing.T) {
	g := newGroup(t, 5, 5, plane)
	a, err := NewRectangle(g, false)
	require.NoError(t, err)
	f, err := a.Interpolate("f", 3, 3)
	require.NoError(t, err)
	x, y := a.CG().DOFCoordinates()
	for i := range x {
		assert.InDelta(t, plane(x[i], y[i]), f.Values[i], 1.e-10)
	}
	_, err = a.Interpolate("f", 2, 3)
	assert.Error(t, err)
}

func TestNearestMask(t *testing.T) {
	g := newGroup(t, 4, 3, func(x, y float64) float64 { return x - 1.5 })
	a, err := NewRectangle(g, false)
	require.NoError(t, err)
	f, err := a.NearestMask("f")
	require.NoError(t, err)
	x, _ := a.CG().DOFCoordinates()
	for i := range x {
		want := x[i] - 1.5
		if want > 0 {
			want = 1
		}
		assert.InDelta(t, want, f.Values[i], 1.e-12)
	}

	// the field is untouched
	d, _ := g.Field("f")
	assert.Equal(t, 1.5, d.Data.At(0, 3))
}

func TestNewRectangle_TrimmedAxes(t *testing.T) {
	g := newGroup(t, 5, 4, func(x, y float64) float64 {
		if x == 2 {
			return math.NaN()
		}
		return plane(x, y)
	})
	a, err := NewRectangle(g, false)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 3, 4}, g.X())
	assert.Equal(t, 16, a.Mesh().NumVertices())

	// every vertex is a sample, so the nearest mask reads the samples back
	f, err := a.NearestMask("f")
	require.NoError(t, err)
	d, _ := g.Field("f")
	for j := range g.Y() {
		for i := range g.X() {
			v := j*len(g.X()) + i
			assert.Equal(t, g.X()[i], a.Mesh().VX[v])
			assert.Equal(t, g.Y()[j], a.Mesh().VY[v])
			want := d.Data.At(j, i)
			if want > 0 {
				want = 1
			}
			assert.Equal(t, want, f.Values[v])
		}
	}
}

func TestProject_GridRoundTrip(t *testing.T) {
	wave := func(x, y float64) float64 { return math.Sin(x/3) + math.Cos(y/4) }
	g := newGroup(t, 12, 12, wave)
	a, err := NewRectangle(g, false)
	require.NoError(t, err)
	first, err := a.Project("f", DefaultProjectOptions())
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, gridded.WriteGridFile(filepath.Join(dir, "f.nc"), g, "f", first, gridded.DefaultSentinel))
	reloaded, err := gridded.Load(dir, []string{"f.nc"}, gridded.Options{})
	require.NoError(t, err)
	require.Equal(t, g.X(), reloaded.X())

	b, err := New(reloaded, a.CG(), nil)
	require.NoError(t, err)
	second, err := b.Project("f", DefaultProjectOptions())
	require.NoError(t, err)

	m := a.Mesh()
	bounds := m.Bounds()
	for i := range m.VX {
		x, y := m.VX[i], m.VY[i]
		if x == bounds.Min.X || x == bounds.Max.X || y == bounds.Min.Y || y == bounds.Max.Y {
			continue
		}
		assert.InDelta(t, first.Values[i], second.Values[i], 5.e-2, "vertex %d", i)
		assert.InDelta(t, wave(x, y), second.Values[i], 5.e-2, "vertex %d", i)
	}
}

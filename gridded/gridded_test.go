package gridded

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/notargets/varglas/reproject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var polar = reproject.Projection{Family: "stere", Lat0: 90, Lon0: -39, LatTs: 71}

func raster(ny, nx int, fn func(i, j int) float64) Raster {
	d := mat.NewDense(ny, nx, nil)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			d.Set(i, j, fn(i, j))
		}
	}
	return Raster{Data: d, West: 0, East: float64(nx - 1), South: 0,
		North: float64(ny - 1), Projection: polar}
}

func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	old := Logger.Writer()
	Logger.SetOutput(&buf)
	t.Cleanup(func() { Logger.SetOutput(old) })
	return &buf
}

func TestLoadRasters(t *testing.T) {
	g, err := LoadRasters(map[string]Raster{
		"thickness.mat": raster(3, 4, func(i, j int) float64 { return float64(10*i + j) }),
		"bed.mat":       raster(3, 4, func(i, j int) float64 { return -1 }),
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"bed", "thickness"}, g.Names())
	assert.Equal(t, 4, g.Nx())
	assert.Equal(t, 3, g.Ny())
	assert.Equal(t, []float64{0, 1, 2, 3}, g.X())
	assert.Equal(t, []float64{0, 1, 2}, g.Y())
	assert.Equal(t, polar, g.Projection())

	f, err := g.Field("thickness")
	require.NoError(t, err)
	assert.Equal(t, 21.0, f.Data.At(2, 1))

	_, err = g.Field("surface")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Contains(t, g.String(), "bed, thickness")
}

func TestLoadRasters_Mismatch(t *testing.T) {
	other := raster(3, 4, func(i, j int) float64 { return 0 })
	other.East = 10
	_, err := LoadRasters(map[string]Raster{
		"a": raster(3, 4, func(i, j int) float64 { return 0 }),
		"b": other,
	}, Options{})
	var le *DataLoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "b", le.Source)

	_, err = LoadRasters(map[string]Raster{
		"a": raster(3, 4, func(i, j int) float64 { return 0 }),
		"b": raster(4, 4, func(i, j int) float64 { return 0 }),
	}, Options{})
	assert.ErrorAs(t, err, &le)

	_, err = LoadRasters(map[string]Raster{"a": {}}, Options{})
	assert.ErrorAs(t, err, &le)
}

func TestNaNTrimming(t *testing.T) {
	buf := captureLog(t)
	nan := math.NaN()
	g, err := LoadRasters(map[string]Raster{
		// last column entirely NaN
		"a": raster(4, 5, func(i, j int) float64 {
			if j == 4 {
				return nan
			}
			return float64(i + j)
		}),
		// first row entirely NaN
		"b": raster(4, 5, func(i, j int) float64 {
			if i == 0 {
				return nan
			}
			return float64(i * j)
		}),
	}, Options{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `1 column(s) of "a"`)
	assert.Contains(t, buf.String(), `1 row(s) of "b"`)

	// idempotent identification
	buf.Reset()
	require.NoError(t, g.IdentifyNaNs("a"))
	require.NoError(t, g.IdentifyNaNs("b"))
	assert.Empty(t, buf.String())
	assert.ErrorIs(t, g.IdentifyNaNs("c"), ErrUnknownField)

	require.NoError(t, g.Finalize())
	assert.True(t, g.Finalized())
	assert.Equal(t, 4, g.Nx())
	assert.Equal(t, 3, g.Ny())
	assert.Equal(t, []float64{0, 1, 2, 3}, g.X())
	assert.Equal(t, []float64{1, 2, 3}, g.Y())
	assert.Equal(t, 1.0, g.Bounds().Min.Y)
	assert.Equal(t, 3.0, g.Bounds().Max.X)
	for _, name := range g.Names() {
		f, _ := g.Field(name)
		r, c := f.Data.Dims()
		assert.Equal(t, 3, r)
		assert.Equal(t, 4, c)
	}
	b, _ := g.Field("b")
	assert.Equal(t, 6.0, b.Data.At(1, 3))

	// a second Finalize is a no-op
	require.NoError(t, g.Finalize())
	assert.Equal(t, 4, g.Nx())
}

func TestFinalize_Degenerate(t *testing.T) {
	captureLog(t)
	g, err := LoadRasters(map[string]Raster{
		"a": raster(3, 3, func(i, j int) float64 { return math.NaN() }),
	}, Options{})
	require.NoError(t, err)
	err = g.Finalize()
	var de *DegenerateDomainError
	require.ErrorAs(t, err, &de)
	assert.True(t, errors.Is(err, ErrDegenerateDomain))
	assert.Equal(t, 0, de.Rows)
}

func TestLoadOptions(t *testing.T) {
	g, err := LoadRasters(map[string]Raster{
		"h": raster(6, 6, func(i, j int) float64 { return float64(i) - 1 }),
	}, Options{Flip: true, ZeroEdge: true, BoolData: true})
	require.NoError(t, err)
	h, _ := g.Field("h")
	assert.Equal(t, EdgeValue, h.Data.At(0, 3))
	assert.Equal(t, EdgeValue, h.Data.At(1, 3))
	assert.Equal(t, EdgeValue, h.Data.At(3, 5))
	// rows reversed: stored row 2 came from source row 3, value 2 -> 1
	assert.Equal(t, 1.0, h.Data.At(2, 2))
	assert.Equal(t, 1.0, h.Data.At(3, 2))
}

func TestEdits(t *testing.T) {
	g, err := LoadRasters(map[string]Raster{
		"v": raster(2, 3, func(i, j int) float64 { return float64(3*i+j) - 2 }),
	}, Options{})
	require.NoError(t, err)
	v, _ := g.Field("v")
	data := v.Data

	// -2 -1 0 / 1 2 3
	require.NoError(t, g.SetDataMin("v", -1, -10))
	require.NoError(t, g.SetDataMax("v", 3, 30))
	require.NoError(t, g.SetDataVal("v", 0, 5))
	assert.Equal(t, []float64{-10, -10, 5, 1, 2, 30}, data.RawMatrix().Data)

	require.NoError(t, g.FlipRows("v"))
	assert.Equal(t, []float64{1, 2, 30, -10, -10, 5}, data.RawMatrix().Data)

	require.NoError(t, g.Threshold("v"))
	once := mat.DenseCopyOf(data)
	require.NoError(t, g.Threshold("v"))
	assert.True(t, mat.Equal(once, data))
	assert.Equal(t, []float64{1, 1, 1, -10, -10, 1}, data.RawMatrix().Data)

	// edits act on the same array object
	assert.Same(t, data, v.Data)
	assert.ErrorIs(t, g.SetDataMin("w", 0, 0), ErrUnknownField)
	assert.ErrorIs(t, g.ZeroEdges("w"), ErrUnknownField)
}

func TestChangeProjection(t *testing.T) {
	a, err := LoadRasters(map[string]Raster{"a": raster(2, 2, func(i, j int) float64 { return 0 })}, Options{})
	require.NoError(t, err)
	other := raster(2, 2, func(i, j int) float64 { return 0 })
	other.Projection = reproject.Projection{Family: "stere", Lat0: 90, Lon0: -45, LatTs: 70}
	b, err := LoadRasters(map[string]Raster{"b": other}, Options{})
	require.NoError(t, err)

	assert.False(t, a.Reprojects())
	a.ChangeProjection(b)
	assert.True(t, a.Reprojects())
	assert.Equal(t, b.Projection(), a.Target())
	a.ChangeProjection(a)
	assert.Equal(t, polar, a.Target())
}

func TestArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := raster(3, 5, func(i, j int) float64 { return float64(i)*0.5 - float64(j) })
	r.West, r.East, r.South, r.North = -100, 300, 50, 250
	r.Name = "thickness"
	require.NoError(t, WriteRasterFile(filepath.Join(dir, "thickness.nc"), r))
	require.NoError(t, WriteRasterFile(filepath.Join(dir, "mask.nc"), r))

	got, err := ReadRasterFile(filepath.Join(dir, "thickness.nc"))
	require.NoError(t, err)
	assert.True(t, mat.Equal(r.Data, got.Data))
	assert.Equal(t, polar, got.Projection)
	assert.Equal(t, "thickness", got.Name)
	assert.Equal(t, 250.0, got.North)

	g, err := Load(dir, []string{"thickness.nc", "mask.nc"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"thickness", "mask"}, g.Names())
	assert.Equal(t, []float64{-100, 0, 100, 200, 300}, g.X())

	_, err = Load(dir, []string{"missing.nc"}, Options{})
	var le *DataLoadError
	assert.ErrorAs(t, err, &le)
}

type evalFunc func(x, y float64) (float64, error)

func (f evalFunc) At(x, y float64) (float64, error) { return f(x, y) }

func TestWriteGrid(t *testing.T) {
	g, err := LoadRasters(map[string]Raster{"a": raster(3, 4, func(i, j int) float64 { return 0 })}, Options{})
	require.NoError(t, err)

	eval := evalFunc(func(x, y float64) (float64, error) {
		switch {
		case x == 3:
			return 0, errors.New("outside")
		case y == 2:
			return math.NaN(), nil
		}
		return x + 10*y, nil
	})
	path := filepath.Join(t.TempDir(), "out.nc")
	require.NoError(t, WriteGridFile(path, g, "out", eval, DefaultSentinel))

	r, err := ReadRasterFile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{
		0, 1, 2, DefaultSentinel,
		10, 11, 12, DefaultSentinel,
		DefaultSentinel, DefaultSentinel, DefaultSentinel, DefaultSentinel,
	}, r.Data.RawMatrix().Data)
	assert.Equal(t, "out", r.Name)
	assert.Equal(t, g.Projection(), r.Projection)
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "thk", FieldName("data/thk.v2.nc"))
	assert.Equal(t, "bed", FieldName("bed.nc"))
	assert.Equal(t, "smb", FieldName("smb"))
}

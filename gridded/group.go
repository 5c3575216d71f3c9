// Package gridded holds groups of co-registered raster fields: loading,
// missing-data trimming, in-place editing and regular-grid output.
package gridded

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ctessum/geom"
	"github.com/notargets/varglas/reproject"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Logger receives data layer diagnostics; drivers may replace it.
var Logger = log.New(os.Stderr, "gridded: ", log.LstdFlags)

// EdgeValue is written into the two outermost rows and columns by ZeroEdges.
const EdgeValue = -0.002

// Options are applied to every field as it is loaded.
type Options struct {
	Flip     bool // reverse the row order
	ZeroEdge bool // set the outer two rows and columns to EdgeValue
	BoolData bool // threshold values > 0 to 1
}

// Raster is one sample grid with its metadata, as held by a raster archive.
type Raster struct {
	Name       string
	Data       *mat.Dense // (ny, nx), row = y
	West, East float64
	South      float64
	North      float64
	Projection reproject.Projection
}

// Field is a named sample array of a group. Data is replaced only by NaN
// trimming; every other edit mutates it in place.
type Field struct {
	Name   string
	Source string
	Data   *mat.Dense
}

// Group is a set of fields sharing one extent, resolution and projection.
type Group struct {
	fields map[string]*Field
	names  []string

	x, y   []float64
	bounds geom.Bounds
	nx, ny int

	proj      reproject.Projection
	target    reproject.Projection
	targetSet bool

	goodX, goodY []bool // surviving columns, rows
	dirty        bool
	finalized    bool
}

// Load reads the named raster archives from dir. Field names are the file
// base names with their extension stripped.
func Load(dir string, files []string, opts Options) (*Group, error) {
	g := newGroup()
	for _, fn := range files {
		path := filepath.Join(dir, fn)
		r, err := ReadRasterFile(path)
		if err != nil {
			return nil, &DataLoadError{Source: path, Err: err}
		}
		if err = g.add(FieldName(fn), path, r, opts); err != nil {
			return nil, err
		}
	}
	if len(g.names) == 0 {
		return nil, &DataLoadError{Source: dir, Err: fmt.Errorf("no raster files")}
	}
	return g, nil
}

// LoadRasters builds a group from in-memory rasters, in name order.
func LoadRasters(rasters map[string]Raster, opts Options) (*Group, error) {
	keys := make([]string, 0, len(rasters))
	for k := range rasters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	g := newGroup()
	for _, k := range keys {
		if err := g.add(FieldName(k), k, rasters[k], opts); err != nil {
			return nil, err
		}
	}
	if len(g.names) == 0 {
		return nil, &DataLoadError{Source: "<memory>", Err: fmt.Errorf("no rasters")}
	}
	return g, nil
}

func newGroup() *Group {
	return &Group{fields: make(map[string]*Field)}
}

// FieldName is the field a raster file loads as: its base name up to the
// first dot.
func FieldName(fn string) string {
	name, _, _ := strings.Cut(filepath.Base(fn), ".")
	return name
}

func (g *Group) add(name, source string, r Raster, opts Options) error {
	if r.Data == nil {
		return &DataLoadError{Source: source, Err: fmt.Errorf("no map_data")}
	}
	ny, nx := r.Data.Dims()
	if len(g.names) == 0 {
		g.nx, g.ny = nx, ny
		g.bounds = geom.Bounds{
			Min: geom.Point{X: r.West, Y: r.South},
			Max: geom.Point{X: r.East, Y: r.North},
		}
		g.x = linspace(r.West, r.East, nx)
		g.y = linspace(r.South, r.North, ny)
		g.proj = r.Projection
		g.goodX = allTrue(nx)
		g.goodY = allTrue(ny)
	} else {
		if nx != g.nx || ny != g.ny {
			return &DataLoadError{Source: source,
				Err: fmt.Errorf("shape (%d,%d) differs from group shape (%d,%d)", ny, nx, g.ny, g.nx)}
		}
		if r.West != g.bounds.Min.X || r.East != g.bounds.Max.X ||
			r.South != g.bounds.Min.Y || r.North != g.bounds.Max.Y {
			return &DataLoadError{Source: source,
				Err: fmt.Errorf("extent [%v,%v]x[%v,%v] differs from group extent",
					r.West, r.East, r.South, r.North)}
		}
	}
	if _, ok := g.fields[name]; ok {
		return &DataLoadError{Source: source, Err: fmt.Errorf("duplicate field %q", name)}
	}

	f := &Field{Name: name, Source: source, Data: mat.DenseCopyOf(r.Data)}
	g.fields[name] = f
	g.names = append(g.names, name)

	// Flip first so the NaN masks index the stored row order
	if opts.Flip {
		flipRows(f.Data)
	}
	g.identifyNaNs(f)
	if opts.ZeroEdge {
		zeroEdges(f.Data)
	}
	if opts.BoolData {
		threshold(f.Data)
	}
	return nil
}

func linspace(l, u float64, n int) []float64 {
	switch n {
	case 0:
		return nil
	case 1:
		return []float64{l}
	}
	return floats.Span(make([]float64, n), l, u)
}

func allTrue(n int) []bool {
	b := make([]bool, n)
	for i := range b {
		b[i] = true
	}
	return b
}

// Field returns the named field.
func (g *Group) Field(name string) (*Field, error) {
	f, ok := g.fields[name]
	if !ok {
		return nil, unknownField(name)
	}
	return f, nil
}

// Names lists the fields in load order.
func (g *Group) Names() []string { return append([]string(nil), g.names...) }

func (g *Group) X() []float64 { return g.x }
func (g *Group) Y() []float64 { return g.y }
func (g *Group) Nx() int      { return g.nx }
func (g *Group) Ny() int      { return g.ny }

// Bounds is the extent spanned by the coordinate axes.
func (g *Group) Bounds() *geom.Bounds {
	b := g.bounds
	return &b
}

// Projection is the native projection of the group's samples.
func (g *Group) Projection() reproject.Projection { return g.proj }

// ChangeProjection declares that query points will be expressed in other's
// projection. A later declaration replaces an earlier one.
func (g *Group) ChangeProjection(other *Group) {
	g.target = other.proj
	g.targetSet = true
}

// Target is the declared query projection, zero when none was declared.
func (g *Group) Target() reproject.Projection { return g.target }

// Reprojects reports whether a query projection was declared.
func (g *Group) Reprojects() bool { return g.targetSet }

func (g *Group) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grid: %d x %d, x [%g, %g], y [%g, %g]\n", g.nx, g.ny,
		g.bounds.Min.X, g.bounds.Max.X, g.bounds.Min.Y, g.bounds.Max.Y)
	fmt.Fprintf(&sb, "Projection: %s\n", g.proj)
	if g.targetSet {
		fmt.Fprintf(&sb, "Query projection: %s\n", g.target)
	}
	fmt.Fprintf(&sb, "Fields: %s", strings.Join(g.names, ", "))
	return sb.String()
}

package gridded

import (
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/notargets/varglas/partitions"
	"gonum.org/v1/gonum/mat"
)

// DefaultSentinel marks grid points that could not be evaluated.
const DefaultSentinel = -2e9

// PointEvaluator is a scalar function of planar coordinates, such as a mesh
// function or an interpolant.
type PointEvaluator interface {
	At(x, y float64) (float64, error)
}

// Resample evaluates eval at every (x[j], y[i]) of the group grid. Points
// that fail or evaluate to NaN receive sentinel.
func Resample(g *Group, eval PointEvaluator, sentinel float64) *mat.Dense {
	out := mat.NewDense(g.ny, g.nx, nil)
	layout := partitions.NewWorkerLayout(g.ny, 0)
	_ = layout.ForEach(func(p partitions.Partition) error {
		for _, i := range p.Elements {
			y := g.y[i]
			for j, x := range g.x {
				v, err := eval.At(x, y)
				if err != nil || math.IsNaN(v) {
					v = sentinel
				}
				out.Set(i, j, v)
			}
		}
		return nil
	})
	return out
}

// WriteGrid resamples eval onto the group grid and writes it as a raster
// archive named name, carrying the group extent and projection.
func WriteGrid(w cdf.ReaderWriterAt, g *Group, name string, eval PointEvaluator, sentinel float64) error {
	if err := g.Finalize(); err != nil {
		return err
	}
	r := Raster{
		Name:       name,
		Data:       Resample(g, eval, sentinel),
		West:       g.bounds.Min.X,
		East:       g.bounds.Max.X,
		South:      g.bounds.Min.Y,
		North:      g.bounds.Max.Y,
		Projection: g.proj,
	}
	if err := WriteRaster(w, r); err != nil {
		return fmt.Errorf("writing grid %s: %w", name, err)
	}
	return nil
}

// WriteGridFile is WriteGrid to a new file at path.
func WriteGridFile(path string, g *Group, name string, eval PointEvaluator, sentinel float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = WriteGrid(f, g, name, eval, sentinel); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

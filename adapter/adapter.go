// Package adapter binds a gridded data group to finite element function
// spaces on a borrowed mesh and produces mesh functions from its fields.
package adapter

import (
	"errors"
	"fmt"

	"github.com/notargets/varglas/gridded"
	"github.com/notargets/varglas/interpolant"
	"github.com/notargets/varglas/mesh"
)

var (
	// ErrMeshMismatch is returned when spaces or adapters that must share a
	// mesh do not.
	ErrMeshMismatch = errors.New("function spaces are on different meshes")

	// ErrNoDGSpace is returned for a discontinuous projection on an adapter
	// bound without a DG space.
	ErrNoDGSpace = errors.New("no discontinuous space bound")
)

// ProjectOptions select the interpolant and target space of Project.
type ProjectOptions struct {
	Discontinuous bool // nearest interpolant onto the DG1 space
	Nearest       bool // nearest interpolant onto the CG1 space
	AsBoolean     bool // threshold the field in place first
	DegreeX       int
	DegreeY       int
}

// DefaultProjectOptions projects a bicubic spline onto CG1.
func DefaultProjectOptions() ProjectOptions {
	return ProjectOptions{DegreeX: 3, DegreeY: 3}
}

// Adapter projects the fields of one group onto its function spaces. The
// mesh is borrowed; the adapter never modifies it.
type Adapter struct {
	group *gridded.Group
	cg    *mesh.FunctionSpace
	dg    *mesh.FunctionSpace
}

// New binds g to a CG1 space and, optionally, a DG1 space on the same mesh.
func New(g *gridded.Group, cg, dg *mesh.FunctionSpace) (*Adapter, error) {
	if cg == nil || cg.Family != mesh.CG {
		return nil, fmt.Errorf("adapter needs a CG space")
	}
	if dg != nil {
		if dg.Family != mesh.DG {
			return nil, fmt.Errorf("optional space must be DG, got %s", dg.Family)
		}
		if dg.Mesh != cg.Mesh {
			return nil, ErrMeshMismatch
		}
	}
	return &Adapter{group: g, cg: cg, dg: dg}, nil
}

// NewRectangle binds g to spaces on a mesh whose vertices are the sample
// points of the finalized group. Trimmed axes need not be evenly spaced.
func NewRectangle(g *gridded.Group, withDG bool) (*Adapter, error) {
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	m, err := mesh.NewGridMesh(g.X(), g.Y())
	if err != nil {
		return nil, err
	}
	cg, err := mesh.NewFunctionSpace(m, mesh.CG, 1)
	if err != nil {
		return nil, err
	}
	var dg *mesh.FunctionSpace
	if withDG {
		if dg, err = mesh.NewFunctionSpace(m, mesh.DG, 1); err != nil {
			return nil, err
		}
	}
	return New(g, cg, dg)
}

func (a *Adapter) Group() *gridded.Group { return a.group }
func (a *Adapter) Mesh() *mesh.Mesh { return a.cg.Mesh }
func (a *Adapter) CG() *mesh.FunctionSpace { return a.cg }
func (a *Adapter) DG() *mesh.FunctionSpace { return a.dg }

// Project returns the L2 projection of the named field.
func (a *Adapter) Project(name string, opts ProjectOptions) (*mesh.Function, error) {
	var (
		in    *interpolant.Interpolant
		space = a.cg
		err   error
	)
	switch {
	case opts.Discontinuous:
		if a.dg == nil {
			return nil, ErrNoDGSpace
		}
		space = a.dg
		in, err = interpolant.NewNearest(a.group, name, opts.AsBoolean)
	case opts.Nearest:
		in, err = interpolant.NewNearest(a.group, name, opts.AsBoolean)
	default:
		in, err = interpolant.NewSpline(a.group, name, interpolant.Options{
			DegreeX:   opts.DegreeX,
			DegreeY:   opts.DegreeY,
			AsBoolean: opts.AsBoolean,
		})
	}
	if err != nil {
		return nil, err
	}
	f, err := mesh.Project(in, space)
	if err != nil {
		return nil, fmt.Errorf("projecting %q: %w", name, err)
	}
	return f, nil
}

// Interpolate samples the spline of the named field at the CG1 DOFs.
func (a *Adapter) Interpolate(name string, degreeX, degreeY int) (*mesh.Function, error) {
	in, err := interpolant.NewSpline(a.group, name, interpolant.Options{DegreeX: degreeX, DegreeY: degreeY})
	if err != nil {
		return nil, err
	}
	f, err := mesh.Interpolate(in, a.cg)
	if err != nil {
		return nil, fmt.Errorf("interpolating %q: %w", name, err)
	}
	return f, nil
}

// mask reports 1 where the wrapped value is positive and the raw value
// elsewhere.
type mask struct{ in *interpolant.Interpolant }

func (m mask) At(x, y float64) (float64, error) {
	v, err := m.in.At(x, y)
	if err == nil && v > 0 {
		v = 1
	}
	return v, err
}

// NearestMask samples the nearest raw value of the named field at every
// vertex, with positive values set to 1. The field itself is not modified.
func (a *Adapter) NearestMask(name string) (*mesh.Function, error) {
	in, err := interpolant.NewNearest(a.group, name, false)
	if err != nil {
		return nil, err
	}
	return mesh.Interpolate(mask{in}, a.cg)
}

package mesh

import (
	"github.com/notargets/varglas/partitions"
)

// Evaluator is a scalar function of planar coordinates.
type Evaluator interface {
	At(x, y float64) (float64, error)
}

// Function is a member of a function space, one value per DOF.
type Function struct {
	Space  *FunctionSpace
	Values []float64
}

func NewFunction(fs *FunctionSpace) *Function {
	return &Function{Space: fs, Values: make([]float64, fs.NumDOFs())}
}

// At evaluates f at (x,y), failing with ErrOutsideMesh off the mesh.
func (f *Function) At(x, y float64) (float64, error) {
	k, l, err := f.Space.Mesh.Locate(x, y)
	if err != nil {
		return 0, err
	}
	dofs := f.Space.CellDOFs(k)
	return l[0]*f.Values[dofs[0]] + l[1]*f.Values[dofs[1]] + l[2]*f.Values[dofs[2]], nil
}

// VertexValues returns one value per mesh vertex. DG values are averaged
// over the incident elements.
func (f *Function) VertexValues() []float64 {
	m := f.Space.Mesh
	if f.Space.Family == CG {
		return append([]float64(nil), f.Values...)
	}
	vv := make([]float64, m.NumVertices())
	for v, cells := range m.cells {
		if len(cells) == 0 {
			continue
		}
		for _, k := range cells {
			for i, w := range m.EToV[k] {
				if w == v {
					vv[v] += f.Values[3*k+i]
				}
			}
		}
		vv[v] /= float64(len(cells))
	}
	return vv
}

// Interpolate samples e at every DOF of fs.
func Interpolate(e Evaluator, fs *FunctionSpace) (*Function, error) {
	f := NewFunction(fs)
	x, y := fs.DOFCoordinates()
	err := layout(len(x)).ForEach(func(p partitions.Partition) error {
		for _, i := range p.Elements {
			v, err := e.At(x[i], y[i])
			if err != nil {
				return err
			}
			f.Values[i] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Integral is the integral of f over the mesh, summed per partition in a
// fixed order.
func (f *Function) Integral() float64 {
	m := f.Space.Mesh
	return layout(m.NumElements()).Sum(func(p partitions.Partition) (s float64) {
		for _, k := range p.Elements {
			dofs := f.Space.CellDOFs(k)
			s += m.maps[k].Area() * (f.Values[dofs[0]] + f.Values[dofs[1]] + f.Values[dofs[2]]) / 3
		}
		return
	})
}

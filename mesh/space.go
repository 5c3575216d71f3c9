package mesh

import "fmt"

// Family selects continuous or discontinuous Lagrange elements.
type Family uint8

const (
	CG Family = iota
	DG
)

func (f Family) String() string {
	switch f {
	case CG:
		return "CG"
	case DG:
		return "DG"
	}
	return "unknown"
}

// FunctionSpace is a piecewise linear Lagrange space over a mesh. CG DOFs are
// the mesh vertices; DG DOF 3k+i is local vertex i of element k.
type FunctionSpace struct {
	Mesh   *Mesh
	Family Family
	Degree int
}

func NewFunctionSpace(m *Mesh, family Family, degree int) (*FunctionSpace, error) {
	if degree != 1 {
		return nil, fmt.Errorf("%s%d: only degree 1 is supported", family, degree)
	}
	if family != CG && family != DG {
		return nil, fmt.Errorf("unknown family %d", family)
	}
	return &FunctionSpace{Mesh: m, Family: family, Degree: degree}, nil
}

func (fs *FunctionSpace) NumDOFs() int {
	if fs.Family == DG {
		return 3 * fs.Mesh.NumElements()
	}
	return fs.Mesh.NumVertices()
}

// CellDOFs returns the DOFs of element k in local vertex order.
func (fs *FunctionSpace) CellDOFs(k int) [3]int {
	if fs.Family == DG {
		return [3]int{3 * k, 3*k + 1, 3*k + 2}
	}
	tri := fs.Mesh.EToV[k]
	return [3]int{tri[0], tri[1], tri[2]}
}

// DOFCoordinates returns the location of every DOF.
func (fs *FunctionSpace) DOFCoordinates() (x, y []float64) {
	m := fs.Mesh
	if fs.Family == CG {
		return append([]float64(nil), m.VX...), append([]float64(nil), m.VY...)
	}
	x = make([]float64, fs.NumDOFs())
	y = make([]float64, fs.NumDOFs())
	for k, tri := range m.EToV {
		for i, v := range tri {
			x[3*k+i], y[3*k+i] = m.VX[v], m.VY[v]
		}
	}
	return
}

func (fs *FunctionSpace) String() string {
	return fmt.Sprintf("%s%d (%d dofs)", fs.Family, fs.Degree, fs.NumDOFs())
}

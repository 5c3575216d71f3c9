package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/varglas/partitions"
	"gonum.org/v1/exp/linsolve"
	"gonum.org/v1/gonum/mat"
)

// Conjugate gradient controls for the CG1 mass matrix solve
const (
	cgTolerance = 1.e-12
	cgMinIter   = 100
)

// assembler holds the reference quantities shared by every element loop.
type assembler struct {
	m       *Mesh
	fs      *FunctionSpace
	R, S, W []float64
	phi     [][]float64 // basis values at each cubature point
	Mref    mat.Matrix
	lay     *partitions.PartitionLayout
}

func newAssembler(fs *FunctionSpace) *assembler {
	m := fs.Mesh
	a := &assembler{m: m, fs: fs, Mref: m.ref.GetNodalModal().M, lay: layout(m.NumElements())}
	a.R, a.S, a.W = m.ref.Cubature()
	a.phi = make([][]float64, len(a.W))
	for q := range a.W {
		a.phi[q] = m.ref.Basis(a.R[q], a.S[q])
	}
	return a
}

// elementLoad is ∫_K e φ_i over element k.
func (a *assembler) elementLoad(k int, e Evaluator) (b [3]float64, err error) {
	am := a.m.maps[k]
	J := math.Abs(am.J)
	for q, w := range a.W {
		x, y := am.ToPhysical(a.R[q], a.S[q])
		v, err := e.At(x, y)
		if err != nil {
			return b, err
		}
		for i := 0; i < 3; i++ {
			b[i] += w * J * v * a.phi[q][i]
		}
	}
	return
}

// Project returns the L2 projection of e onto fs.
func Project(e Evaluator, fs *FunctionSpace) (*Function, error) {
	a := newAssembler(fs)
	if fs.Family == DG {
		return a.projectDG(e)
	}
	return a.projectCG(e)
}

// projectDG solves the decoupled 3x3 element systems J Mref u = b. Block
// partitions hold consecutive elements, so the partitioned values are
// already in DOF order.
func (a *assembler) projectDG(e Evaluator) (*Function, error) {
	Msym := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			Msym.SetSym(i, j, a.Mref.At(i, j))
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(Msym); !ok {
		return nil, fmt.Errorf("reference mass matrix is not positive definite")
	}

	values := a.lay.NewPartitionedArray(3)
	err := a.lay.ForEach(func(p partitions.Partition) error {
		u := mat.NewVecDense(3, nil)
		local := values.GetPartitionData(p.ID)
		for n, k := range p.Elements {
			b, err := a.elementLoad(k, e)
			if err != nil {
				return err
			}
			if err = chol.SolveVecTo(u, mat.NewVecDense(3, b[:])); err != nil {
				return fmt.Errorf("element %d: %w", k, err)
			}
			J := math.Abs(a.m.maps[k].J)
			for i := 0; i < 3; i++ {
				local[3*n+i] = u.AtVec(i) / J
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Function{Space: a.fs, Values: values.GlobalData}, nil
}

// projectCG solves the global P1 mass system with Jacobi preconditioned
// conjugate gradients. The matrix is applied element by element.
func (a *assembler) projectCG(e Evaluator) (*Function, error) {
	N := a.fs.NumDOFs()
	acc := a.lay.NewAccumulator(N)

	err := a.lay.ForEach(func(p partitions.Partition) error {
		local := acc.GetPartitionData(p.ID)
		for _, k := range p.Elements {
			b, err := a.elementLoad(k, e)
			if err != nil {
				return err
			}
			for i, v := range a.fs.CellDOFs(k) {
				local[v] += b[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	b := mat.NewVecDense(N, nil)
	acc.Reduce(b.RawVector().Data)

	diag := mat.NewVecDense(N, nil)
	for k := range a.m.EToV {
		J := math.Abs(a.m.maps[k].J)
		for i, v := range a.fs.CellDOFs(k) {
			diag.SetVec(v, diag.AtVec(v)+J*a.Mref.At(i, i))
		}
	}
	for i := 0; i < N; i++ {
		if diag.AtVec(i) == 0 {
			diag.SetVec(i, 1) // vertex in no element
		}
	}

	f := NewFunction(a.fs)
	if mat.Norm(b, 2) == 0 {
		return f, nil
	}
	res, err := linsolve.Iterative(&massOperator{a: a, acc: acc}, b, &linsolve.CG{},
		&linsolve.Settings{
			Tolerance:     cgTolerance,
			MaxIterations: 10*N + cgMinIter,
			PreconSolve: func(dst *mat.VecDense, _ bool, rhs mat.Vector) error {
				dst.DivElemVec(rhs, diag)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("mass matrix solve: %w", err)
	}
	copy(f.Values, res.X.RawVector().Data)
	return f, nil
}

// massOperator applies the assembled CG1 mass matrix without forming it.
type massOperator struct {
	a   *assembler
	acc *partitions.PartitionedArray
}

// MulVecTo sets dst = M x. M is symmetric so trans is ignored.
func (op *massOperator) MulVecTo(dst *mat.VecDense, _ bool, x mat.Vector) {
	a := op.a
	u := make([]float64, x.Len())
	for i := range u {
		u[i] = x.AtVec(i)
	}
	_ = a.lay.ForEach(func(p partitions.Partition) error {
		op.acc.Zero(p.ID)
		local := op.acc.GetPartitionData(p.ID)
		for _, k := range p.Elements {
			J := math.Abs(a.m.maps[k].J)
			dofs := a.fs.CellDOFs(k)
			for i := 0; i < 3; i++ {
				var s float64
				for j := 0; j < 3; j++ {
					s += a.Mref.At(i, j) * u[dofs[j]]
				}
				local[dofs[i]] += J * s
			}
		}
		return nil
	})
	op.acc.Reduce(u)
	if dst.IsEmpty() {
		dst.ReuseAsVec(len(u))
	}
	for i, v := range u {
		dst.SetVec(i, v)
	}
}

package element

import (
	"fmt"

	"github.com/notargets/varglas/element/library/gonudg"
	"gonum.org/v1/gonum/mat"
)

// LagrangeTriangle is the nodal Lagrange triangle on the reference simplex
// {(-1,-1), (1,-1), (-1,1)}. Nodes are ordered counter-clockwise from the
// right angle vertex.
type LagrangeTriangle struct {
	props    ElementProperties
	geometry ReferenceGeometry
	nm       NodalModalMatrices

	vinv             *mat.Dense
	cubR, cubS, cubW []float64
}

// NewLagrangeTriangle builds the reference triangle of the given order.
// Only linear elements are supported.
func NewLagrangeTriangle(order int) (*LagrangeTriangle, error) {
	if order != 1 {
		return nil, fmt.Errorf("lagrange triangle order %d not supported", order)
	}
	el := &LagrangeTriangle{
		props: ElementProperties{
			Name:       fmt.Sprintf("Lagrange Triangle Order %d", order),
			ShortName:  fmt.Sprintf("Tri%d", order),
			Type:       Tri,
			Order:      order,
			Np:         3,
			NVp:        3,
			NEdges:     3,
			Dimensions: D2,
		},
		geometry: ReferenceGeometry{
			R:            []float64{-1, 1, -1},
			S:            []float64{-1, -1, 1},
			VertexPoints: []int{0, 1, 2},
			EdgePoints:   [][]int{{0, 1}, {1, 2}, {2, 0}},
		},
	}

	V := gonudg.Vandermonde2D(order, el.geometry.R, el.geometry.S)
	el.vinv = mat.NewDense(el.props.Np, el.props.Np, nil)
	if err := el.vinv.Inverse(V); err != nil {
		return nil, fmt.Errorf("inverting vandermonde matrix: %w", err)
	}

	// M = (V Vᵀ)^-1, Minv = V Vᵀ
	var VVt mat.Dense
	VVt.Mul(V, V.T())
	M := mat.NewDense(el.props.Np, el.props.Np, nil)
	if err := M.Inverse(&VVt); err != nil {
		return nil, fmt.Errorf("inverting mass matrix: %w", err)
	}
	el.nm = NodalModalMatrices{V: V, Vinv: el.vinv, M: M, Minv: &VVt}

	// Exact through degree 7, enough for a linear basis against a bicubic field
	el.cubR, el.cubS, el.cubW = gonudg.TriangleCubature(3)
	return el, nil
}

func (el *LagrangeTriangle) GetProperties() ElementProperties { return el.props }

func (el *LagrangeTriangle) GetReferenceGeometry() ReferenceGeometry { return el.geometry }

func (el *LagrangeTriangle) GetNodalModal() NodalModalMatrices { return el.nm }

func (el *LagrangeTriangle) Basis(r, s float64) []float64 {
	modes := gonudg.Vandermonde2D(el.props.Order, []float64{r}, []float64{s})
	var l mat.Dense
	l.Mul(modes, el.vinv)
	return l.RawRowView(0)
}

func (el *LagrangeTriangle) Cubature() (R, S, W []float64) {
	return el.cubR, el.cubS, el.cubW
}

package element

import "gonum.org/v1/gonum/mat"

// Dimensionality represents the spatial dimension of an element
type Dimensionality uint8

const (
	D0 Dimensionality = iota // points
	D1                       // lines, edges
	D2                       // triangles
)

type ElementGeometry uint8

const (
	Tri ElementGeometry = iota
	Line
)

func (g ElementGeometry) String() string {
	switch g {
	case Tri:
		return "Triangle"
	case Line:
		return "Line"
	}
	return "Unknown"
}

// ElementProperties contains metadata describing an element type
type ElementProperties struct {
	Name       string          // Full descriptive name (e.g., "Lagrange Triangle Order 1")
	ShortName  string          // Abbreviated name (e.g., "Tri1")
	Type       ElementGeometry // Element shape
	Order      int             // Polynomial order
	Np         int             // Total number of nodes in element
	NVp        int             // Number of vertex nodes
	NEdges     int             // Number of edges in each element
	Dimensions Dimensionality
}

// ReferenceGeometry defines the layout of nodes in reference space
type ReferenceGeometry struct {
	R, S []float64 // Length Np each

	VertexPoints []int   // Indices of nodes located at vertices
	EdgePoints   [][]int // [edge_num][point_indices] - nodes on each edge
}

// NodalModalMatrices contains transformation matrices between nodal and modal representations
type NodalModalMatrices struct {
	V    mat.Matrix // Vandermonde matrix: modal to nodal transformation [Np × Np]
	Vinv mat.Matrix // Inverse Vandermonde: nodal to modal transformation [Np × Np]
	M    mat.Matrix // Mass matrix in nodal space [Np × Np]
	Minv mat.Matrix // Inverse mass matrix [Np × Np]
}

// ReferenceElement defines element properties and operators in reference space
type ReferenceElement interface {
	GetProperties() ElementProperties
	GetReferenceGeometry() ReferenceGeometry
	GetNodalModal() NodalModalMatrices

	// Basis returns the Np nodal basis functions evaluated at (r,s)
	Basis(r, s float64) []float64

	// Cubature returns reference points and weights for element integrals
	Cubature() (R, S, W []float64)
}

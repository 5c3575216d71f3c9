// Package mesh is a minimal linear triangle finite element provider: mesh
// import, CG1/DG1 function spaces, point evaluation, nodal interpolation and
// L2 projection of scalar functions.
package mesh

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/notargets/varglas/element"
	"github.com/notargets/varglas/partitions"
	"gonum.org/v1/gonum/floats"
)

// ErrOutsideMesh is returned when a point lies in no element.
var ErrOutsideMesh = errors.New("point outside mesh")

// Workers bounds the concurrency of element and DOF loops.
var Workers = runtime.GOMAXPROCS(0)

// containsTol is the barycentric tolerance for point location
const containsTol = 1.e-10

// Mesh is a triangulation of a planar domain. Vertex z coordinates are
// carried for file round trips and ignored otherwise.
type Mesh struct {
	VX, VY, VZ []float64
	EToV       [][]int // counter-clockwise vertex triples

	ref   *element.LagrangeTriangle
	maps  []element.AffineMap
	tree  *rtree.Rtree
	pad   float64
	cells [][]int // vertex to incident elements
}

// cell is the R-tree entry for one element.
type cell struct {
	geom.Polygon
	k int
}

// NewMesh builds a mesh from vertex coordinates and triangle connectivity.
// Clockwise triangles are reordered.
func NewMesh(VX, VY []float64, EToV [][]int) (*Mesh, error) {
	if len(VX) != len(VY) {
		return nil, fmt.Errorf("vertex arrays differ in length: %d, %d", len(VX), len(VY))
	}
	m := &Mesh{
		VX:   append([]float64(nil), VX...),
		VY:   append([]float64(nil), VY...),
		VZ:   make([]float64, len(VX)),
		EToV: make([][]int, len(EToV)),
	}
	for k, tri := range EToV {
		if len(tri) != 3 {
			return nil, fmt.Errorf("element %d: %d vertices, expected 3", k, len(tri))
		}
		for _, v := range tri {
			if v < 0 || v >= len(VX) {
				return nil, fmt.Errorf("element %d: vertex %d out of range", k, v)
			}
		}
		m.EToV[k] = []int{tri[0], tri[1], tri[2]}
	}
	var err error
	if m.ref, err = element.NewLagrangeTriangle(1); err != nil {
		return nil, err
	}
	if err = m.buildGeometry(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mesh) buildGeometry() error {
	if len(m.EToV) == 0 {
		return fmt.Errorf("mesh has no elements")
	}
	m.maps = make([]element.AffineMap, len(m.EToV))
	m.tree = rtree.NewTree(25, 50)
	m.cells = make([][]int, len(m.VX))
	for k, tri := range m.EToV {
		am, err := m.affineMap(tri)
		if err != nil {
			return fmt.Errorf("element %d: %w", k, err)
		}
		if am.J < 0 {
			tri[1], tri[2] = tri[2], tri[1]
			am, _ = m.affineMap(tri)
		}
		m.maps[k] = am
		m.tree.Insert(cell{
			Polygon: geom.Polygon{{
				{X: am.X[0], Y: am.Y[0]},
				{X: am.X[1], Y: am.Y[1]},
				{X: am.X[2], Y: am.Y[2]},
			}},
			k: k,
		})
		for _, v := range tri {
			m.cells[v] = append(m.cells[v], k)
		}
	}
	b := m.Bounds()
	m.pad = 1.e-9 * math.Hypot(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
	return nil
}

func (m *Mesh) affineMap(tri []int) (element.AffineMap, error) {
	return element.NewAffineMap(
		[3]float64{m.VX[tri[0]], m.VX[tri[1]], m.VX[tri[2]]},
		[3]float64{m.VY[tri[0]], m.VY[tri[1]], m.VY[tri[2]]})
}

func (m *Mesh) NumVertices() int { return len(m.VX) }
func (m *Mesh) NumElements() int { return len(m.EToV) }

// Element returns the affine map of element k.
func (m *Mesh) Element(k int) element.AffineMap { return m.maps[k] }

// Reference is the reference element shared by every cell.
func (m *Mesh) Reference() element.ReferenceElement { return m.ref }

// ScaleCoordinates multiplies axis 0 (x), 1 (y) or 2 (z) by factor.
func (m *Mesh) ScaleCoordinates(axis int, factor float64) error {
	switch axis {
	case 0:
		floats.Scale(factor, m.VX)
	case 1:
		floats.Scale(factor, m.VY)
	case 2:
		floats.Scale(factor, m.VZ)
		return nil
	default:
		return fmt.Errorf("invalid axis %d", axis)
	}
	return m.buildGeometry()
}

// Bounds is the bounding box of the vertices.
func (m *Mesh) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: floats.Min(m.VX), Y: floats.Min(m.VY)},
		Max: geom.Point{X: floats.Max(m.VX), Y: floats.Max(m.VY)},
	}
}

// Locate returns the lowest numbered element containing (x,y) together with
// the barycentric coordinates of the point in it.
func (m *Mesh) Locate(x, y float64) (k int, l [3]float64, err error) {
	box := &geom.Bounds{
		Min: geom.Point{X: x - m.pad, Y: y - m.pad},
		Max: geom.Point{X: x + m.pad, Y: y + m.pad},
	}
	var candidates []int
	for _, it := range m.tree.SearchIntersect(box) {
		candidates = append(candidates, it.(cell).k)
	}
	sort.Ints(candidates)
	for _, c := range candidates {
		if m.maps[c].Contains(x, y, containsTol) {
			return c, m.maps[c].Barycentric(x, y), nil
		}
	}
	return -1, l, fmt.Errorf("%w: (%g, %g)", ErrOutsideMesh, x, y)
}

// layout partitions n loop items over Workers.
func layout(n int) *partitions.PartitionLayout {
	return partitions.NewWorkerLayout(n, Workers)
}

func (m *Mesh) String() string {
	var sb strings.Builder
	b := m.Bounds()
	fmt.Fprintf(&sb, "Mesh: %d vertices, %d triangles (%s)\n",
		m.NumVertices(), m.NumElements(), m.ref.GetProperties().Name)
	fmt.Fprintf(&sb, "Bounds: x [%g, %g], y [%g, %g]", b.Min.X, b.Max.X, b.Min.Y, b.Max.Y)
	return sb.String()
}

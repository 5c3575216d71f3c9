package mesh

import (
	"fmt"

	"github.com/notargets/gocfd/DG3D/mesh/readers"
)

// ReadMeshFile imports the triangles of a gmsh or gambit mesh file.
// Elements of other shapes are skipped.
func ReadMeshFile(path string) (*Mesh, error) {
	msh, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh %s: %w", path, err)
	}
	VX := make([]float64, len(msh.Vertices))
	VY := make([]float64, len(msh.Vertices))
	VZ := make([]float64, len(msh.Vertices))
	for i, v := range msh.Vertices {
		VX[i] = v[0]
		VY[i] = v[1]
		if len(v) > 2 {
			VZ[i] = v[2]
		}
	}
	var EToV [][]int
	for _, tri := range msh.EtoV {
		if len(tri) == 3 {
			EToV = append(EToV, tri)
		}
	}
	if len(EToV) == 0 {
		return nil, fmt.Errorf("mesh file %s has no triangles", path)
	}
	fmt.Printf("Meshfile: %s has %d triangles...\n", path, len(EToV))
	m, err := NewMesh(VX, VY, EToV)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", path, err)
	}
	copy(m.VZ, VZ)
	return m, nil
}

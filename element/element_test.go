package element

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestLagrangeTriangle_MassMatrix(t *testing.T) {
	el, err := NewLagrangeTriangle(1)
	require.NoError(t, err)

	props := el.GetProperties()
	assert.Equal(t, "Tri1", props.ShortName)
	assert.Equal(t, 3, props.Np)

	M := el.GetNodalModal().M
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			exact := 1. / 6.
			if i == j {
				exact = 1. / 3.
			}
			assert.InDeltaf(t, exact, M.At(i, j), 1.e-12, "M[%d,%d]", i, j)
		}
	}

	_, err = NewLagrangeTriangle(2)
	assert.Error(t, err)
}

func TestLagrangeTriangle_Basis(t *testing.T) {
	el, err := NewLagrangeTriangle(1)
	require.NoError(t, err)

	g := el.GetReferenceGeometry()
	for n := range g.R {
		l := el.Basis(g.R[n], g.S[n])
		for i := range l {
			exact := 0.
			if i == n {
				exact = 1.
			}
			assert.InDelta(t, exact, l[i], 1.e-12)
		}
	}

	r, s := -0.2, -0.5
	assert.InDeltaSlicef(t, []float64{-(r + s) / 2, (1 + r) / 2, (1 + s) / 2},
		el.Basis(r, s), 1.e-12, "basis at (%v,%v)", r, s)

	_, _, W := el.Cubature()
	assert.InDelta(t, 2.0, floats.Sum(W), 1.e-12)
}

func TestAffineMap(t *testing.T) {
	am, err := NewAffineMap([3]float64{1, 3, 1}, [3]float64{2, 2, 5})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, am.Area(), 1.e-12)
	assert.InDelta(t, 1.5, am.J, 1.e-12)

	x, y := am.ToPhysical(-1, -1)
	assert.InDelta(t, 1.0, x, 1.e-12)
	assert.InDelta(t, 2.0, y, 1.e-12)

	r, s := am.ToReference(2, 3)
	x, y = am.ToPhysical(r, s)
	assert.InDelta(t, 2.0, x, 1.e-12)
	assert.InDelta(t, 3.0, y, 1.e-12)

	l := am.Barycentric(1+2./3., 3)
	assert.InDelta(t, 1.0, l[0]+l[1]+l[2], 1.e-12)
	assert.True(t, am.Contains(1+2./3., 3, 1.e-12))
	assert.False(t, am.Contains(3, 5, 1.e-12))

	_, err = NewAffineMap([3]float64{0, 1, 2}, [3]float64{0, 1, 2})
	assert.ErrorIs(t, err, ErrDegenerateElement)
	assert.False(t, math.IsNaN(am.J))
}

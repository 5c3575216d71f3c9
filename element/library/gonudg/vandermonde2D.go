package gonudg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vandermonde2D builds V_{ij} = phi_j(r_i, s_i) for the orthonormal
// simplex basis of order N on the reference triangle.
func Vandermonde2D(N int, R, S []float64) *mat.Dense {
	Np := (N + 1) * (N + 2) / 2
	V2D := mat.NewDense(len(R), Np, nil)

	a, b := RStoAB(R, S)
	sk := 0
	for i := 0; i <= N; i++ {
		for j := 0; j <= (N - i); j++ {
			V2D.SetCol(sk, Simplex2DP(a, b, i, j))
			sk++
		}
	}
	return V2D
}

// Simplex2DP evaluates the orthonormal polynomial of order (i,j) on the
// triangle at collapsed coordinates (a, b).
func Simplex2DP(a, b []float64, i, j int) []float64 {
	h1 := JacobiP(a, 0, 0, i)
	h2 := JacobiP(b, float64(2*i+1), 0, j)

	P := make([]float64, len(a))
	for ii := range h1 {
		P[ii] = math.Sqrt2 * h1[ii] * h2[ii] * math.Pow(1-b[ii], float64(i))
	}
	return P
}

// RStoAB maps reference triangle coordinates (r,s) onto the collapsed square
// coordinates (a,b). The top vertex s=1 maps to a=-1.
func RStoAB(R, S []float64) (a, b []float64) {
	Np := len(R)
	a = make([]float64, Np)
	b = make([]float64, Np)

	for n := 0; n < Np; n++ {
		if S[n] != 1 {
			a[n] = 2*(1+R[n])/(1-S[n]) - 1
		} else {
			a[n] = -1
		}
		b[n] = S[n]
	}
	return
}

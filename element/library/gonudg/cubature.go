package gonudg

// TriangleCubature returns a collapsed-coordinate Gauss rule on the
// reference triangle {(-1,-1), (1,-1), (-1,1)} with (N+1)^2 points. A
// Gauss-Legendre rule in a is paired with a Gauss-Jacobi (1,0) rule in b so
// the Duffy Jacobian (1-b)/2 is absorbed into the weights. The rule is exact
// for polynomials of total degree 2N+1 and the weights sum to the reference
// area of 2.
func TriangleCubature(N int) (R, S, W []float64) {
	a, wa := JacobiGQ(0, 0, N)
	b, wb := JacobiGQ(1, 0, N)

	Nc := len(a) * len(b)
	R = make([]float64, 0, Nc)
	S = make([]float64, 0, Nc)
	W = make([]float64, 0, Nc)
	for j := range b {
		for i := range a {
			R = append(R, (1+a[i])*(1-b[j])/2-1)
			S = append(S, b[j])
			W = append(W, wa[i]*wb[j]/2)
		}
	}
	return
}

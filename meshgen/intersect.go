package meshgen

import "github.com/ctessum/geom"

func ccw(a, b, c geom.Point) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// crosses reports a strict crossing of segments ab and cd.
func crosses(a, b, c, d geom.Point) bool {
	return ccw(a, c, d) != ccw(b, c, d) && ccw(a, b, c) != ccw(a, b, d)
}

// dropCrossings compares every segment ii with the segments jj in
// [ii, min(ii+window, n-1)), skipping neighbours, and removes vertices
// ii+1 and jj of each crossing pair.
func dropCrossings(pts []geom.Point, window int) []geom.Point {
	n := len(pts)
	drop := make([]bool, n)
	for ii := 0; ii < n-1; ii++ {
		for jj := ii; jj < min(ii+window, n-1); jj++ {
			if ii == jj+1 || ii+1 == jj {
				continue
			}
			if crosses(pts[ii], pts[ii+1], pts[jj], pts[jj+1]) {
				drop[ii+1] = true
				drop[jj] = true
			}
		}
	}
	out := make([]geom.Point, 0, n)
	for i, p := range pts {
		if !drop[i] {
			out = append(out, p)
		}
	}
	return out
}

// hasCrossing reports whether any pair dropCrossings would inspect crosses.
func hasCrossing(pts []geom.Point, window int) bool {
	n := len(pts)
	for ii := 0; ii < n-1; ii++ {
		for jj := ii; jj < min(ii+window, n-1); jj++ {
			if ii != jj+1 && ii+1 != jj && crosses(pts[ii], pts[ii+1], pts[jj], pts[jj+1]) {
				return true
			}
		}
	}
	return false
}

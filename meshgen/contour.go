package meshgen

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"
)

// isoline holds the marching squares crossings of one grid. Crossings are
// keyed by the grid edge they lie on: 2*(j*nx+i) for the edge leaving
// sample (i,j) along x, plus one for the edge leaving it along y.
type isoline struct {
	x, y  []float64
	data  *mat.Dense
	iso   float64
	nx    int
	point map[int]geom.Point
	adj   map[int][]int
}

func newIsoline(x, y []float64, data *mat.Dense, iso float64) *isoline {
	c := &isoline{
		x: x, y: y, data: data, iso: iso, nx: len(x),
		point: make(map[int]geom.Point),
		adj:   make(map[int][]int),
	}
	c.march()
	return c
}

func (c *isoline) above(i, j int) bool { return c.data.At(j, i) > c.iso }

// crossing returns the key of the grid edge from (i,j) to its neighbour
// along x or y, recording the linearly interpolated crossing point.
func (c *isoline) crossing(i, j int, alongY bool) int {
	key := 2 * (j*c.nx + i)
	i1, j1 := i+1, j
	if alongY {
		key++
		i1, j1 = i, j+1
	}
	if _, ok := c.point[key]; !ok {
		v0, v1 := c.data.At(j, i), c.data.At(j1, i1)
		t := (c.iso - v0) / (v1 - v0)
		c.point[key] = geom.Point{
			X: c.x[i] + t*(c.x[i1]-c.x[i]),
			Y: c.y[j] + t*(c.y[j1]-c.y[j]),
		}
	}
	return key
}

func (c *isoline) connect(a, b int) {
	c.adj[a] = append(c.adj[a], b)
	c.adj[b] = append(c.adj[b], a)
}

// march visits every cell with corners c0=(i,j), c1=(i+1,j), c2=(i+1,j+1)
// and c3=(i,j+1). Corner k lies between cell edges k-1 and k, numbered
// bottom, right, top, left. Cells with a NaN corner are skipped.
func (c *isoline) march() {
	ny := len(c.y)
	for j := 0; j < ny-1; j++ {
		for i := 0; i < c.nx-1; i++ {
			ci := [4][2]int{{i, j}, {i + 1, j}, {i + 1, j + 1}, {i, j + 1}}
			var (
				up    [4]bool
				nUp   int
				mean  float64
				isNaN bool
			)
			for k, p := range ci {
				v := c.data.At(p[1], p[0])
				isNaN = isNaN || math.IsNaN(v)
				mean += v / 4
				if up[k] = c.above(p[0], p[1]); up[k] {
					nUp++
				}
			}
			if isNaN || nUp == 0 || nUp == 4 {
				continue
			}
			edges := [4]func() int{
				func() int { return c.crossing(i, j, false) },
				func() int { return c.crossing(i+1, j, true) },
				func() int { return c.crossing(i, j+1, false) },
				func() int { return c.crossing(i, j, true) },
			}
			if nUp == 2 && up[0] == up[2] {
				// saddle: cut off the corners that disagree with the centre
				centre := mean > c.iso
				for k := 0; k < 4; k++ {
					if up[k] != centre {
						c.connect(edges[(k+3)%4](), edges[k]())
					}
				}
				continue
			}
			var ends []int
			for k := 0; k < 4; k++ {
				if up[k] != up[(k+1)%4] {
					ends = append(ends, edges[k]())
				}
			}
			c.connect(ends[0], ends[1])
		}
	}
}

// components chains the crossings into polylines, open chains first. A
// closed loop repeats its first vertex at the end.
func (c *isoline) components() [][]geom.Point {
	keys := make([]int, 0, len(c.adj))
	for k := range c.adj {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	visited := make(map[int]bool, len(keys))
	var out [][]geom.Point
	walk := func(start int, closed bool) {
		path := []geom.Point{c.point[start]}
		visited[start] = true
		prev, cur := -1, start
		for {
			next := -1
			for _, n := range c.adj[cur] {
				if n == prev {
					continue
				}
				if closed && n == start && len(path) > 2 {
					next = n
					break
				}
				if !visited[n] {
					next = n
					break
				}
			}
			if next < 0 {
				break
			}
			path = append(path, c.point[next])
			if next == start {
				break
			}
			visited[next] = true
			prev, cur = cur, next
		}
		out = append(out, path)
	}
	for _, k := range keys {
		if !visited[k] && len(c.adj[k]) == 1 {
			walk(k, false)
		}
	}
	for _, k := range keys {
		if !visited[k] {
			walk(k, true)
		}
	}
	return out
}

// longest returns the first component with the most vertices.
func longest(cs [][]geom.Point) []geom.Point {
	var best []geom.Point
	for _, c := range cs {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

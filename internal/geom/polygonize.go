package geom

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Polygonize returns the polygons enclosed by a set of boundary lines,
// largest first. Lines are noded at their vertices only: two lines take
// part in the same ring when they share a vertex exactly. Dangling edges
// are ignored. A ring of one connected set of lines lying inside a face of
// another becomes a hole of that face.
func Polygonize(lines []orb.LineString) []orb.Polygon {
	g := newPlanarGraph()
	for _, ls := range lines {
		for i := 0; i+1 < len(ls); i++ {
			g.addEdge(ls[i], ls[i+1])
		}
	}
	g.pruneDangles()

	var shells, rings []face
	for _, f := range g.faces() {
		switch {
		case f.area > Epsilon:
			shells = append(shells, f)
		case f.area < -Epsilon:
			rings = append(rings, f)
		}
	}

	polys := make([]orb.Polygon, len(shells))
	for i, s := range shells {
		polys[i] = orb.Polygon{s.ring}
	}
	for _, r := range rings {
		owner := -1
		for i, s := range shells {
			if g.component(s.first) == g.component(r.first) {
				continue
			}
			if !ringContains(s.ring, r.ring[0]) {
				continue
			}
			if owner < 0 || s.area < shells[owner].area {
				owner = i
			}
		}
		if owner >= 0 {
			polys[owner] = append(polys[owner], r.ring)
		}
	}

	sort.SliceStable(polys, func(i, j int) bool {
		return Area(polys[i]) > Area(polys[j])
	})
	return polys
}

type face struct {
	ring  orb.Ring
	area  float64
	first int
}

type planarGraph struct {
	ids    map[orb.Point]int
	points []orb.Point
	adj    []map[int]bool
	parent []int
}

func newPlanarGraph() *planarGraph {
	return &planarGraph{ids: make(map[orb.Point]int)}
}

func (g *planarGraph) node(p orb.Point) int {
	if id, ok := g.ids[p]; ok {
		return id
	}
	id := len(g.points)
	g.ids[p] = id
	g.points = append(g.points, p)
	g.adj = append(g.adj, make(map[int]bool))
	g.parent = append(g.parent, id)
	return id
}

func (g *planarGraph) addEdge(a, b orb.Point) {
	if a == b {
		return
	}
	u, v := g.node(a), g.node(b)
	g.adj[u][v] = true
	g.adj[v][u] = true
	g.union(u, v)
}

func (g *planarGraph) find(x int) int {
	for g.parent[x] != x {
		g.parent[x] = g.parent[g.parent[x]]
		x = g.parent[x]
	}
	return x
}

func (g *planarGraph) union(a, b int) {
	ra, rb := g.find(a), g.find(b)
	if ra != rb {
		g.parent[rb] = ra
	}
}

func (g *planarGraph) component(n int) int {
	return g.find(n)
}

// pruneDangles removes edges ending in a node of degree one until none remain
func (g *planarGraph) pruneDangles() {
	var queue []int
	for n := range g.points {
		if len(g.adj[n]) == 1 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if len(g.adj[n]) != 1 {
			continue
		}
		for m := range g.adj[n] {
			delete(g.adj[n], m)
			delete(g.adj[m], n)
			if len(g.adj[m]) == 1 {
				queue = append(queue, m)
			}
		}
	}
}

// sortedNeighbours returns the neighbours of n counter-clockwise by angle
func (g *planarGraph) sortedNeighbours(n int) []int {
	out := make([]int, 0, len(g.adj[n]))
	for m := range g.adj[n] {
		out = append(out, m)
	}
	p := g.points[n]
	sort.Slice(out, func(i, j int) bool {
		ai := angle(p, g.points[out[i]])
		aj := angle(p, g.points[out[j]])
		if ai != aj {
			return ai < aj
		}
		return out[i] < out[j]
	})
	return out
}

func angle(from, to orb.Point) float64 {
	return math.Atan2(to[1]-from[1], to[0]-from[0])
}

// faces traces every face of the graph keeping the face on the left of each
// half-edge. Bounded faces come out counter-clockwise.
func (g *planarGraph) faces() []face {
	order := make([][]int, len(g.points))
	pos := make([]map[int]int, len(g.points))
	for n := range g.points {
		order[n] = g.sortedNeighbours(n)
		pos[n] = make(map[int]int, len(order[n]))
		for i, m := range order[n] {
			pos[n][m] = i
		}
	}

	visited := make(map[[2]int]bool)
	var out []face
	for u := range g.points {
		for _, v := range order[u] {
			if visited[[2]int{u, v}] {
				continue
			}
			ring := orb.Ring{g.points[u]}
			a, b := u, v
			for !visited[[2]int{a, b}] {
				visited[[2]int{a, b}] = true
				ring = append(ring, g.points[b])
				nb := order[b]
				i := pos[b][a]
				a, b = b, nb[(i-1+len(nb))%len(nb)]
			}
			if len(ring) < 4 {
				continue
			}
			out = append(out, face{ring: ring, area: signedArea(ring), first: u})
		}
	}
	return out
}

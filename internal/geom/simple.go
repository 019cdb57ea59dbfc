// Package geom implements the planar algorithms the FKB validators need on
// top of orb geometries: simplicity and validity, overlay areas between two
// polygons, polygon distance, polygonization of boundary lines and an R-tree
// for pruning pairwise checks.
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Epsilon is the coordinate tolerance in metres used by the predicates
const Epsilon = 1e-9

// IsClosed reports whether a ring ends on its starting point
func IsClosed(ring []orb.Point) bool {
	if len(ring) < 2 {
		return false
	}
	return ring[0] == ring[len(ring)-1]
}

// IsSimple reports whether a line has no self-intersections. Consecutive
// duplicate vertices are ignored. A closed line may touch itself only at
// its shared start and end point.
func IsSimple(line []orb.Point) bool {
	pts := dedupe(line)
	segs := len(pts) - 1
	if segs < 2 {
		return true
	}
	closed := pts[0] == pts[len(pts)-1]

	bounds := make([]orb.Bound, segs)
	for i := 0; i < segs; i++ {
		bounds[i] = orb.Bound{Min: pts[i], Max: pts[i]}.Extend(pts[i+1])
	}

	for i := 0; i < segs; i++ {
		for j := i + 1; j < segs; j++ {
			if j == i+1 {
				if foldsBack(pts[i+1], pts[i], pts[j+1]) {
					return false
				}
				continue
			}
			if closed && i == 0 && j == segs-1 {
				if foldsBack(pts[0], pts[1], pts[j]) {
					return false
				}
				continue
			}
			if !bounds[i].Pad(Epsilon).Intersects(bounds[j]) {
				continue
			}
			if segmentsIntersect(pts[i], pts[i+1], pts[j], pts[j+1]) {
				return false
			}
		}
	}
	return true
}

// Explain reports whether a geometry is valid and, if not, why.
// Self-intersecting lines are valid; simplicity is checked by IsSimple.
func Explain(g orb.Geometry) (string, bool) {
	switch g := g.(type) {
	case orb.Point:
		if math.IsNaN(g[0]) || math.IsNaN(g[1]) {
			return "Invalid coordinate", false
		}
		return "", true
	case orb.LineString:
		if len(dedupe(g)) < 2 {
			return "Too few points", false
		}
		return "", true
	case orb.Polygon:
		return explainPolygon(g)
	}
	return "Unsupported geometry", false
}

func explainPolygon(p orb.Polygon) (string, bool) {
	if len(p) == 0 {
		return "Empty polygon", false
	}
	for _, ring := range p {
		if len(ring) < 4 || len(dedupe(ring)) < 4 {
			return "Too few points", false
		}
		if !IsClosed(ring) {
			return "Ring not closed", false
		}
		if !IsSimple(ring) {
			return "Ring Self-intersection", false
		}
	}
	shell := p[0]
	for _, hole := range p[1:] {
		for _, pt := range hole {
			if onRing(shell, pt) {
				continue
			}
			if !ringContains(shell, pt) {
				return "Hole lies outside shell", false
			}
			break
		}
	}
	return "", true
}

func dedupe(line []orb.Point) []orb.Point {
	out := make([]orb.Point, 0, len(line))
	for i, p := range line {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// foldsBack reports whether two segments sharing the vertex s overlap
// beyond it, with u and v the far ends
func foldsBack(s, u, v orb.Point) bool {
	a := sub(u, s)
	b := sub(v, s)
	return math.Abs(cross(a, b)) <= Epsilon*(norm(a)+norm(b)) && dot(a, b) > 0
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

// orient returns the sign of the turn a->b->c, with near-collinear as 0
func orient(a, b, c orb.Point) int {
	ab := sub(b, a)
	ac := sub(c, a)
	v := cross(ab, ac)
	if math.Abs(v) <= Epsilon*(norm(ab)+norm(ac)) {
		return 0
	}
	if v > 0 {
		return 1
	}
	return -1
}

// onSegment reports whether a point collinear with a-b lies within its extent
func onSegment(a, b, p orb.Point) bool {
	return p[0] >= math.Min(a[0], b[0])-Epsilon && p[0] <= math.Max(a[0], b[0])+Epsilon &&
		p[1] >= math.Min(a[1], b[1])-Epsilon && p[1] <= math.Max(a[1], b[1])+Epsilon
}

func sub(a, b orb.Point) orb.Point { return orb.Point{a[0] - b[0], a[1] - b[1]} }

func cross(a, b orb.Point) float64 { return a[0]*b[1] - a[1]*b[0] }

func dot(a, b orb.Point) float64 { return a[0]*b[0] + a[1]*b[1] }

func norm(a orb.Point) float64 { return math.Hypot(a[0], a[1]) }

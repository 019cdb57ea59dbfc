package geom

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Area returns the area of a polygon: the shell minus its holes
func Area(p orb.Polygon) float64 {
	if len(p) == 0 {
		return 0
	}
	a := math.Abs(signedArea(p[0]))
	for _, hole := range p[1:] {
		a -= math.Abs(signedArea(hole))
	}
	return a
}

// IntersectionArea returns the area of the overlay a ∩ b
func IntersectionArea(a, b orb.Polygon) float64 {
	return overlayArea(a, b, polyclip.INTERSECTION)
}

// SymDiffArea returns the area of the symmetric difference of a and b
func SymDiffArea(a, b orb.Polygon) float64 {
	if len(a) == 0 {
		return Area(b)
	}
	if len(b) == 0 {
		return Area(a)
	}
	return overlayArea(a, b, polyclip.XOR)
}

func overlayArea(a, b orb.Polygon, op polyclip.Op) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ba, bb := a.Bound(), b.Bound()
	if op == polyclip.INTERSECTION && !ba.Pad(Epsilon).Intersects(bb) {
		return 0
	}

	// work near the origin to keep the sweep precise on projected coordinates
	origin := ba.Union(bb).Min
	result := toContours(a, origin).Construct(op, toContours(b, origin))
	return contoursArea(result)
}

// toContours translates p by -origin. Contours are implicitly closed, so the
// repeated closing point is dropped.
func toContours(p orb.Polygon, origin orb.Point) polyclip.Polygon {
	out := make(polyclip.Polygon, 0, len(p))
	for _, ring := range p {
		c := make(polyclip.Contour, 0, len(ring))
		for _, pt := range ring {
			q := polyclip.Point{X: pt[0] - origin[0], Y: pt[1] - origin[1]}
			if n := len(c); n > 0 && c[n-1] == q {
				continue
			}
			c = append(c, q)
		}
		if n := len(c); n > 1 && c[0] == c[n-1] {
			c = c[:n-1]
		}
		if len(c) >= 3 {
			out = append(out, c)
		}
	}
	return out
}

// contoursArea sums the contour areas by even-odd nesting: a contour inside
// an odd number of others is a hole.
func contoursArea(p polyclip.Polygon) float64 {
	rings := make([]orb.Ring, len(p))
	for i, c := range p {
		r := make(orb.Ring, 0, len(c)+1)
		for _, pt := range c {
			r = append(r, orb.Point{pt.X, pt.Y})
		}
		rings[i] = append(r, r[0])
	}

	var total float64
	for i, r := range rings {
		a := math.Abs(signedArea(r))
		if a <= Epsilon {
			continue
		}
		mid := orb.Point{(r[0][0] + r[1][0]) / 2, (r[0][1] + r[1][1]) / 2}
		depth := 0
		for j, other := range rings {
			if j != i && !onRing(other, mid) && ringContains(other, mid) {
				depth++
			}
		}
		if depth%2 == 0 {
			total += a
		} else {
			total -= a
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

func signedArea(ring []orb.Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	o := ring[0]
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := sub(ring[i], o), sub(ring[(i+1)%n], o)
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return sum / 2
}

func ringContains(ring orb.Ring, p orb.Point) bool {
	return planar.RingContains(ring, p)
}

func onRing(ring []orb.Point, p orb.Point) bool {
	for i := 0; i+1 < len(ring); i++ {
		if planar.DistanceFromSegment(ring[i], ring[i+1], p) <= Epsilon {
			return true
		}
	}
	return false
}

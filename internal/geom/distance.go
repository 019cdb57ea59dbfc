package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Distance returns the smallest distance between two polygons, zero when
// they touch or one contains the other
func Distance(a, b orb.Polygon) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}
	if len(a[0]) > 0 && planar.PolygonContains(b, a[0][0]) {
		return 0
	}
	if len(b[0]) > 0 && planar.PolygonContains(a, b[0][0]) {
		return 0
	}

	best := math.Inf(1)
	for _, ra := range a {
		for _, rb := range b {
			if d := ringDistance(ra, rb); d < best {
				best = d
			}
			if best == 0 {
				return 0
			}
		}
	}
	return best
}

func ringDistance(a, b orb.Ring) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return 0
			}
			d := math.Min(
				math.Min(planar.DistanceFromSegment(b[j], b[j+1], a[i]),
					planar.DistanceFromSegment(b[j], b[j+1], a[i+1])),
				math.Min(planar.DistanceFromSegment(a[i], a[i+1], b[j]),
					planar.DistanceFromSegment(a[i], a[i+1], b[j+1])))
			if d < best {
				best = d
			}
		}
	}
	return best
}

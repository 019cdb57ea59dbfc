package sosi

import (
	"github.com/paulmach/orb"
)

// GeometryType identifies the shape of a feature geometry
type GeometryType int

const (
	// GeometryTypePoint is a single position, from ..PUNKT or ..NØ(H) on a .PUNKT feature
	GeometryTypePoint GeometryType = iota
	// GeometryTypeLineString is an ordered vertex sequence, from ..KURVE
	GeometryTypeLineString
	// GeometryTypePolygon is a closed ring, from ..FLATE followed by ..KURVE
	GeometryTypePolygon
)

func (g GeometryType) String() string {
	switch g {
	case GeometryTypePoint:
		return "Point"
	case GeometryTypeLineString:
		return "LineString"
	case GeometryTypePolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// SOSIKeyword returns the SOSI geometry keyword for the type
func (g GeometryType) SOSIKeyword() string {
	switch g {
	case GeometryTypePoint:
		return "PUNKT"
	case GeometryTypeLineString:
		return "KURVE"
	case GeometryTypePolygon:
		return "FLATE"
	default:
		return ""
	}
}

// Geometry is the decoded shape of a feature.
//
// Coordinates are real-world [E, N] or [E, N, H] tuples. A vertex carries a
// height only when its raw height was non-zero. For a Polygon, Coordinates is
// the exterior ring and is always closed; Holes holds interior rings, which
// the parser never produces but polygon reconstruction may.
type Geometry struct {
	Type        GeometryType
	Coordinates [][]float64
	Holes       [][][]float64
}

// Is3D reports whether any vertex carries a height
func (g *Geometry) Is3D() bool {
	for _, c := range g.Coordinates {
		if len(c) > 2 {
			return true
		}
	}
	return false
}

// Orb returns the planar (2D) form of the geometry
func (g *Geometry) Orb() orb.Geometry {
	switch g.Type {
	case GeometryTypePoint:
		if len(g.Coordinates) == 0 {
			return orb.Point{}
		}
		return toPoint(g.Coordinates[0])
	case GeometryTypeLineString:
		return toLineString(g.Coordinates)
	case GeometryTypePolygon:
		poly := orb.Polygon{orb.Ring(toLineString(g.Coordinates))}
		for _, h := range g.Holes {
			poly = append(poly, orb.Ring(toLineString(h)))
		}
		return poly
	}
	return nil
}

// LineString returns the vertex sequence of a LineString, or the exterior
// ring of a Polygon.
func (g *Geometry) LineString() orb.LineString {
	if g.Type == GeometryTypePoint {
		return nil
	}
	return toLineString(g.Coordinates)
}

// FromOrbPolygon converts a planar polygon into a Geometry
func FromOrbPolygon(p orb.Polygon) *Geometry {
	g := &Geometry{Type: GeometryTypePolygon}
	for i, ring := range p {
		coords := make([][]float64, len(ring))
		for j, pt := range ring {
			coords[j] = []float64{pt[0], pt[1]}
		}
		if i == 0 {
			g.Coordinates = coords
		} else {
			g.Holes = append(g.Holes, coords)
		}
	}
	return g
}

// FromOrbLineString converts a planar line into a Geometry
func FromOrbLineString(ls orb.LineString) *Geometry {
	coords := make([][]float64, len(ls))
	for i, pt := range ls {
		coords[i] = []float64{pt[0], pt[1]}
	}
	return &Geometry{Type: GeometryTypeLineString, Coordinates: coords}
}

func toPoint(c []float64) orb.Point {
	if len(c) < 2 {
		return orb.Point{}
	}
	return orb.Point{c[0], c[1]}
}

func toLineString(coords [][]float64) orb.LineString {
	ls := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		ls = append(ls, toPoint(c))
	}
	return ls
}

// closeRing appends the first coordinate when the ring is open.
// All ordinates are compared, so a 3D ring closes on height too.
func closeRing(coords [][]float64) [][]float64 {
	if len(coords) == 0 {
		return coords
	}
	first := coords[0]
	last := coords[len(coords)-1]
	if sameCoordinate(first, last) {
		return coords
	}

	closed := make([][]float64, len(coords)+1)
	copy(closed, coords)
	closed[len(coords)] = append([]float64(nil), first...)
	return closed
}

func sameCoordinate(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package validation

import (
	"context"
	"math"

	"github.com/paulmach/orb"

	"github.com/torsaan/fkb/internal/geom"
	"github.com/torsaan/fkb/internal/rules"
	"github.com/torsaan/fkb/internal/sosi"
)

func topologyNotLoaded() []Issue {
	return []Issue{issue("TOPO-000", "Topology rules not loaded")}
}

// ValidateType2Flate checks that the boundary lines of an area feature
// rebuild its area. Area and symmetric difference must both agree within
// the square of the feature accuracy times the tolerance factor.
func ValidateType2Flate(flate *sosi.Feature, boundaries []*sosi.Feature, db *rules.Database) []Issue {
	if !db.Loaded(rules.TopologyRules) {
		return topologyNotLoaded()
	}
	if flate.Geometry == nil {
		return []Issue{issue("TOPO-001", "Type 2 flate missing 'område' geometry")}
	}
	omrade, ok := flate.Geometry.Orb().(orb.Polygon)
	if !ok {
		return []Issue{issue("TOPO-002", "Type 2 flate 'område' must be a Polygon")}
	}

	var lines []orb.LineString
	for _, b := range boundaries {
		if b.Geometry != nil && b.Geometry.Type == sosi.GeometryTypeLineString {
			lines = append(lines, b.Geometry.LineString())
		}
	}
	if len(lines) == 0 {
		return []Issue{issue("TOPO-003", "No boundary LineStrings found for Type 2 flate")}
	}

	polys := geom.Polygonize(lines)
	if len(polys) == 0 {
		return []Issue{issue("TOPO-004", "Boundary lines do not form closed polygon")}
	}
	constructed := polys[0]

	rule := db.Topology.Type2Flate
	accuracy := rule.DefaultAccuracy
	if v, ok := flate.Quality("NØYAKTIGHET"); ok {
		if acc, ok := v.AsNumber(); ok {
			accuracy = acc
		}
	}
	tolerance := accuracy * rule.ToleranceFactor
	areaTolerance := tolerance * tolerance

	omradeArea := geom.Area(omrade)
	constructedArea := geom.Area(constructed)
	symDiff := geom.SymDiffArea(omrade, constructed)
	for _, v := range []float64{omradeArea, constructedArea, symDiff} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return []Issue{issue("TOPO-007", "Error constructing polygon from boundaries: non-finite area")}
		}
	}

	var issues []Issue
	if diff := math.Abs(omradeArea - constructedArea); diff > areaTolerance {
		issues = append(issues, issue("TOPO-005",
			"Type 2 flate area mismatch. Område: %.2f m², Constructed: %.2f m² (diff: %.2f m²)",
			omradeArea, constructedArea, diff))
	}
	if symDiff > areaTolerance {
		issues = append(issues, issue("TOPO-006",
			"Type 2 flate geometry mismatch. Symmetric difference area: %.2f m²", symDiff))
	}
	return issues
}

// ValidateNetwork reports line endpoints that no other line meets.
// Endpoints are matched on exact 2D coordinates. Only the first
// max_reported endpoints are listed; a summary issue counts the rest.
func ValidateNetwork(features []*sosi.Feature, networkType string, db *rules.Database) []Issue {
	if !db.Loaded(rules.TopologyRules) {
		return topologyNotLoaded()
	}
	if len(features) == 0 {
		return nil
	}
	rule := db.Topology.Network
	if networkType == "" {
		networkType = rule.DefaultNetworkType
	}

	degree := make(map[orb.Point]int)
	var order []orb.Point
	visit := func(p orb.Point) {
		if _, seen := degree[p]; !seen {
			order = append(order, p)
		}
		degree[p]++
	}
	for _, f := range features {
		if f.Geometry == nil || f.Geometry.Type != sosi.GeometryTypeLineString {
			continue
		}
		ls := f.Geometry.LineString()
		if len(ls) == 0 {
			continue
		}
		visit(ls[0])
		visit(ls[len(ls)-1])
	}

	var issues []Issue
	dangling := 0
	for _, p := range order {
		if degree[p] != 1 {
			continue
		}
		dangling++
		if dangling <= rule.MaxReported {
			issues = append(issues, issue("TOPO-008", "Dangling %s endpoint at (%.2f, %.2f)", networkType, p[0], p[1]))
		}
	}
	if dangling > rule.MaxReported {
		issues = append(issues, issue("TOPO-009", "Found %d dangling endpoints (showing first %d)",
			dangling, rule.MaxReported))
	}
	return issues
}

// ValidateSharedBoundaries checks every pair of area features: they may
// share edges but must not overlap, and a gap narrower than the gap
// tolerance is a warning. Polygons are identified by their index in
// features. Errors come before warnings.
func ValidateSharedBoundaries(ctx context.Context, features []*sosi.Feature, db *rules.Database) ([]Issue, error) {
	if !db.Loaded(rules.TopologyRules) {
		return topologyNotLoaded(), nil
	}
	rule := db.Topology.SharedBoundaries

	type indexed struct {
		index int
		poly  orb.Polygon
	}
	var polys []indexed
	idx := geom.NewIndex(rule.GapTolerance)
	for i, f := range features {
		if f.Geometry == nil || f.Geometry.Type != sosi.GeometryTypePolygon {
			continue
		}
		p := f.Geometry.Orb().(orb.Polygon)
		idx.Insert(len(polys), p.Bound())
		polys = append(polys, indexed{index: i, poly: p})
	}

	var errs, warns []Issue
	for i, a := range polys {
		if err := ctx.Err(); err != nil {
			return append(errs, warns...), err
		}
		for _, j := range idx.Search(a.poly.Bound().Pad(rule.GapTolerance)) {
			if j <= i {
				continue
			}
			b := polys[j]
			if area := geom.IntersectionArea(a.poly, b.poly); area > rule.OverlapEpsilon {
				errs = append(errs, issue("TOPO-010", "Polygons %d and %d overlap (area: %.2f m²)",
					a.index, b.index, area))
				continue
			}
			if d := geom.Distance(a.poly, b.poly); d > 0 && d < rule.GapTolerance {
				warns = append(warns, issue("TOPO-WARN-001", "Small gap (%.1f cm) between polygons %d and %d",
					d*100, a.index, b.index))
			}
		}
	}
	return append(errs, warns...), nil
}

package validation

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/torsaan/fkb/internal/geom"
	"github.com/torsaan/fkb/internal/rules"
	"github.com/torsaan/fkb/internal/sosi"
)

// chords shorter than this are not used for the pilhøyde check
const minChord = 1e-6

// ValidateGeometry checks that f has a valid geometry of the kind its
// object type expects, and that no segment is shorter than the feature
// accuracy divided by the min_segment divisor.
func ValidateGeometry(f *sosi.Feature, db *rules.Database) []Issue {
	if f.Geometry == nil {
		return []Issue{issue("GEOM-001", "Missing geometry")}
	}

	var issues []Issue
	missingRules := false
	g := f.Geometry.Orb()

	if reason, ok := geom.Explain(g); !ok {
		issues = append(issues, issue("GEOM-003", "Invalid geometry: %s", reason))
	}

	if db.Loaded(rules.MandatoryAttributes) {
		if def, ok := db.Mandatory.Lookup(f.ObjectType); ok {
			expected := expectedGeometry(def.GeometryType)
			actual := f.Geometry.Type.String()
			if expected != actual {
				issues = append(issues, issue("GEOM-004",
					"Geometry type mismatch. Expected %s, got %s for %s", expected, actual, f.ObjectType))
			}
		}
	} else {
		missingRules = true
	}

	switch g := g.(type) {
	case orb.LineString:
		if !geom.IsSimple(g) {
			issues = append(issues, issue("GEOM-005", "LineString has self-intersections"))
		}
	case orb.Polygon:
		if len(g) > 0 {
			if !geom.IsClosed(g[0]) {
				issues = append(issues, issue("GEOM-006", "Polygon exterior ring is not closed"))
			}
			if !geom.IsSimple(g[0]) {
				issues = append(issues, issue("GEOM-007", "Polygon exterior ring has self-intersections"))
			}
		}
		for i, hole := range g[1:] {
			if !geom.IsClosed(hole) {
				issues = append(issues, issue("GEOM-008", "Polygon hole %d is not closed", i))
			}
			if !geom.IsSimple(hole) {
				issues = append(issues, issue("GEOM-009", "Polygon hole %d has self-intersections", i))
			}
		}
	}

	if accuracy, ok := featureAccuracy(f); ok {
		if db.Loaded(rules.GeometricRules) {
			issues = append(issues, minSegmentIssues(f.Geometry, accuracy, db.Geometric)...)
		} else {
			missingRules = true
		}
	}

	if missingRules {
		issues = append(issues, issue("GEOM-000", "Rule database not loaded"))
	}
	return issues
}

func expectedGeometry(keyword string) string {
	switch keyword {
	case "PUNKT":
		return sosi.GeometryTypePoint.String()
	case "KURVE":
		return sosi.GeometryTypeLineString.String()
	case "FLATE":
		return sosi.GeometryTypePolygon.String()
	}
	return keyword
}

// featureAccuracy reads a top-level NØYAKTIGHET. The KVALITET block is not
// consulted.
func featureAccuracy(f *sosi.Feature) (float64, bool) {
	v, ok := f.Get("NØYAKTIGHET")
	if !ok {
		return 0, false
	}
	return v.AsNumber()
}

func minSegmentIssues(g *sosi.Geometry, accuracy float64, tbl *rules.GeometricTable) []Issue {
	divisor := tbl.MinSegment.AccuracyDivisor
	if divisor <= 0 || g.Type == sosi.GeometryTypePoint {
		return nil
	}
	minLength := accuracy / divisor

	var issues []Issue
	coords := g.LineString()
	for i := 0; i+1 < len(coords); i++ {
		d := math.Hypot(coords[i+1][0]-coords[i][0], coords[i+1][1]-coords[i][1])
		if d < minLength {
			issues = append(issues, issue("GEOM-010", "Segment %d too short (%.3fm < %.3fm)", i, d, minLength))
		}
	}
	return issues
}

// ValidatePilhoyde flags interior vertices whose distance to the chord
// between their neighbours is below the removal fraction of the
// standard's pilhøyde limit. Such vertices could be removed without
// changing the line within tolerance.
func ValidatePilhoyde(f *sosi.Feature, db *rules.Database, std Standard) []Issue {
	if f.Geometry == nil || f.Geometry.Type == sosi.GeometryTypePoint {
		return nil
	}
	if !db.Loaded(rules.GeometricRules) {
		return []Issue{issue("GEOM-000", "Geometric rules not loaded")}
	}

	limit := db.Geometric.PilhoydeLimit(string(normalizeStandard(std)))
	threshold := limit * db.Geometric.Pilhoyde.RemovalFraction

	var issues []Issue
	coords := f.Geometry.LineString()
	for i := 1; i+1 < len(coords); i++ {
		p0, p1, p2 := coords[i-1], coords[i], coords[i+1]
		chord := math.Hypot(p2[0]-p0[0], p2[1]-p0[1])
		if chord < minChord {
			continue
		}
		sagitta := math.Abs((p2[0]-p0[0])*(p1[1]-p0[1])-(p2[1]-p0[1])*(p1[0]-p0[0])) / chord
		if sagitta < threshold {
			issues = append(issues, issue("GEOM-011",
				"Point %d could be removed (pilhøyde=%.3fm < %vm)", i, sagitta, limit))
		}
	}
	return issues
}

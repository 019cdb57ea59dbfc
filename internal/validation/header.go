package validation

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/torsaan/fkb/internal/rules"
	"github.com/torsaan/fkb/internal/sosi"
)

// ValidateHeader checks the .HODE block: mandatory keys, character set,
// SOSI version, coordinate system and unit.
func ValidateHeader(h *sosi.Header, db *rules.Database) []Issue {
	if !db.Loaded(rules.SOSIFormatRules) {
		return []Issue{issue("SOSI-000", "SOSI format rules not loaded")}
	}
	rule := &db.Format.Header

	var issues []Issue
	for _, key := range rule.MandatoryAttributes {
		if !h.Has(key) {
			issues = append(issues, issue("SOSI-001", "Missing mandatory header attribute '%s'", key))
		}
	}

	if cs := h.Charset(); cs != "" && !slices.Contains(rule.Charsets, cs) {
		issues = append(issues, issue("SOSI-002", "Invalid TEGNSETT '%s'. Valid values: %s",
			cs, strings.Join(rule.Charsets, ", ")))
	}

	if version := h.Version(); version != "" {
		major, ok := majorVersion(version)
		switch {
		case !ok:
			issues = append(issues, issue("SOSI-004", "Invalid SOSI-VERSJON format: %s", version))
		case major < rule.MinMajorVersion:
			issues = append(issues, issue("SOSI-003", "Old SOSI version %s. Recommend 4.5+", version))
		}
	}

	if v, ok := h.CoordinateSystem(); ok {
		code, isInt := v.AsInt()
		if !isInt || !slices.Contains(rule.CoordinateSystems, code) {
			issues = append(issues, issue("SOSI-005", "Uncommon coordinate system %s. Typical values: [%s]",
				v.Text(), joinInts(rule.CoordinateSystems)))
		}
	} else {
		issues = append(issues, issue("SOSI-006", "Missing KOORDINATSYSTEM or KOORDSYS"))
	}

	if v, ok := h.Get("ENHET"); ok && !v.IsAbsent() {
		unit, isNum := v.AsNumber()
		if !isNum || (unit != 0 && !knownUnit(rule.Units, unit)) {
			issues = append(issues, issue("SOSI-007", "Unusual ENHET value %s. Typical: 0.01 (cm precision)", v.Text()))
		}
	}
	return issues
}

// majorVersion parses "major.minor"
func majorVersion(version string) (int, bool) {
	majorText, minorText, ok := strings.Cut(version, ".")
	if !ok {
		return 0, false
	}
	major, err := strconv.Atoi(majorText)
	if err != nil {
		return 0, false
	}
	if _, err := strconv.Atoi(minorText); err != nil {
		return 0, false
	}
	return major, true
}

func knownUnit(units []float64, unit float64) bool {
	for _, u := range units {
		if math.Abs(u-unit) <= 1e-12 {
			return true
		}
	}
	return false
}

// RawCoordinate is a coordinate in header units relative to ORIGO-NØ
type RawCoordinate struct {
	N, E float64
}

// RawCoordinates re-encodes every vertex of g through t without rounding
func RawCoordinates(g *sosi.Geometry, t sosi.Transform) []RawCoordinate {
	if g == nil {
		return nil
	}
	var out []RawCoordinate
	add := func(coords [][]float64) {
		for _, c := range coords {
			if len(c) < 2 {
				continue
			}
			n, e := t.Units(c[1], c[0])
			out = append(out, RawCoordinate{N: n, E: e})
		}
	}
	add(g.Coordinates)
	for _, h := range g.Holes {
		add(h)
	}
	return out
}

// tolerance for treating a re-encoded ordinate as a whole number
const integralTolerance = 1e-6

// ValidateCoordinateEncoding checks that raw coordinates are whole units and
// that they decode to a position inside the configured bounds.
func ValidateCoordinateEncoding(coords []RawCoordinate, t sosi.Transform, db *rules.Database) []Issue {
	if !db.Loaded(rules.SOSIFormatRules) {
		return []Issue{issue("SOSI-000", "SOSI format rules not loaded")}
	}
	bounds := &db.Format.CoordinateBounds

	var issues []Issue
	for i, c := range coords {
		if !integral(c.N) || !integral(c.E) {
			issues = append(issues, issue("SOSI-008", "Coordinate %d not encoded as integer: (%v, %v)", i, c.N, c.E))
		}
	}
	for i, c := range coords {
		northing := t.OriginN + c.N*t.Unit
		easting := t.OriginE + c.E*t.Unit
		if !bounds.Northing.Contains(northing) {
			issues = append(issues, issue("SOSI-009", "Coordinate %d northing %.2f outside Norway bounds", i, northing))
		}
		if !bounds.Easting.Contains(easting) {
			issues = append(issues, issue("SOSI-010", "Coordinate %d easting %.2f outside reasonable bounds", i, easting))
		}
	}
	return issues
}

func integral(v float64) bool {
	return math.Abs(v-math.Round(v)) <= integralTolerance
}

package validation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torsaan/fkb/internal/rules"
	"github.com/torsaan/fkb/internal/sosi"
)

// attrs builds attributes from key/raw-value pairs
func attrs(kv ...string) sosi.Attributes {
	a := sosi.Attributes{}
	for i := 0; i+1 < len(kv); i += 2 {
		a[kv[i]] = sosi.DecodeValue(kv[i+1])
	}
	return a
}

func validKvalitet() sosi.Attributes {
	return attrs(
		"MÅLEMETODE", "fot",
		"NØYAKTIGHET", "0.10",
		"SYNBARHET", "0",
		"DATAFANGSTDATO", "20200101",
		"VERIFISERINGSDATO", "20200615",
	)
}

func squareGeometry(x, y, size float64) *sosi.Geometry {
	return &sosi.Geometry{
		Type: sosi.GeometryTypePolygon,
		Coordinates: [][]float64{
			{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
		},
	}
}

func lineGeometry(coords ...[]float64) *sosi.Geometry {
	return &sosi.Geometry{Type: sosi.GeometryTypeLineString, Coordinates: coords}
}

func building() *sosi.Feature {
	return &sosi.Feature{
		Tag:        "FLATE",
		ObjectType: "Bygning",
		ID:         1,
		Attributes: attrs("OBJTYPE", "Bygning", "BYGGNR", "123", "BYGGTYP_NBR", "111", "DATAFANGSTDATO", "20200101"),
		Kvalitet:   validKvalitet(),
		Geometry:   squareGeometry(100000, 6500000, 10),
	}
}

func codes(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Code
	}
	return out
}

func TestIssue(t *testing.T) {
	is := issue("ATTR-WARN-001", "Unknown attribute '%s' for %s", "X", "Bygning")
	assert.Equal(t, "ATTR-WARN-001: Unknown attribute 'X' for Bygning", is.String())
	assert.True(t, is.Warning())
	assert.Equal(t, "ATTR", is.Category())

	assert.False(t, issue("TOPO-005", "x").Warning())
	assert.True(t, issue("TOPO-005", "x").Critical())
	assert.False(t, issue("TOPO-006", "x").Critical())
}

func TestParseStandard(t *testing.T) {
	for in, want := range map[string]Standard{"a": StandardA, " B ": StandardB, "fkb-c": StandardC, "D": StandardD} {
		got, err := ParseStandard(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseStandard("E")
	assert.Error(t, err)
	assert.Equal(t, "FKB-B", Standard("").Key())
	assert.Equal(t, "FKB-A", Standard("a").Key())
}

func TestMandatoryAttributes(t *testing.T) {
	db := rules.Default()

	assert.Empty(t, ValidateMandatoryAttributes(building(), db))

	f := building()
	delete(f.Attributes, "BYGGNR")
	issues := ValidateMandatoryAttributes(f, db)
	require.Len(t, issues, 1)
	assert.Equal(t, "ATTR-002", issues[0].Code)
	assert.Equal(t, "Missing mandatory attribute 'BYGGNR' (type: Integer) for Bygning. Building number from the cadastre.",
		issues[0].Message)

	f = building()
	f.Attributes["BYGGTYP_NBR"] = sosi.NoValue()
	assert.Equal(t, []string{"ATTR-002"}, codes(ValidateMandatoryAttributes(f, db)))

	f = building()
	delete(f.Attributes, "DATAFANGSTDATO")
	f.Kvalitet = nil
	issues = ValidateMandatoryAttributes(f, db)
	assert.Equal(t, []string{"ATTR-003", "ATTR-003"}, codes(issues))
	assert.Contains(t, issues[0].Message, "'DATAFANGSTDATO' from supertype Fellesegenskaper")
	assert.Contains(t, issues[1].Message, "'KVALITET'")

	f = building()
	f.ObjectType = "Romskip"
	assert.Equal(t, []Issue{{Code: "ATTR-001", Message: "Unknown OBJTYPE 'Romskip'"}}, ValidateMandatoryAttributes(f, db))

	assert.Equal(t, []string{"ATTR-000"}, codes(ValidateMandatoryAttributes(building(), rules.Empty())))
}

func TestOptionalAttributes(t *testing.T) {
	db := rules.Default()

	f := building()
	f.Attributes["MEDIUM"] = sosi.DecodeValue("T")
	f.Attributes["OPPDATERINGSDATO"] = sosi.DecodeValue("20210101")
	f.Attributes["REF"] = sosi.DecodeValue(":1 :2")
	assert.Empty(t, ValidateOptionalAttributes(f, db))

	f.Attributes["ZZZ"] = sosi.DecodeValue("1")
	f.Attributes["AAA"] = sosi.DecodeValue("1")
	issues := ValidateOptionalAttributes(f, db)
	assert.Equal(t, []string{"ATTR-WARN-001", "ATTR-WARN-001"}, codes(issues))
	assert.Contains(t, issues[0].Message, "'AAA'")
	assert.Contains(t, issues[1].Message, "'ZZZ'")
	for _, is := range issues {
		assert.True(t, is.Warning())
	}

	f.ObjectType = "Romskip"
	assert.Empty(t, ValidateOptionalAttributes(f, db))

	assert.Equal(t, []string{"ATTR-WARN-000"}, codes(ValidateOptionalAttributes(building(), rules.Empty())))
}

func TestGeometry(t *testing.T) {
	db := rules.Default()

	assert.Empty(t, ValidateGeometry(building(), db))

	f := building()
	f.Geometry = nil
	assert.Equal(t, []string{"GEOM-001"}, codes(ValidateGeometry(f, db)))

	f = building()
	f.Geometry = lineGeometry([]float64{0, 0}, []float64{10, 0})
	issues := ValidateGeometry(f, db)
	require.Equal(t, []string{"GEOM-004"}, codes(issues))
	assert.Equal(t, "Geometry type mismatch. Expected Polygon, got LineString for Bygning", issues[0].Message)

	f = building()
	f.Geometry = &sosi.Geometry{
		Type:        sosi.GeometryTypePolygon,
		Coordinates: [][]float64{{0, 0}, {2, 2}, {2, 0}, {0, 2}, {0, 0}},
	}
	assert.Equal(t, []string{"GEOM-003", "GEOM-007"}, codes(ValidateGeometry(f, db)))

	f = &sosi.Feature{
		ObjectType: "Takkant",
		Attributes: attrs("OBJTYPE", "Takkant"),
		Geometry:   lineGeometry([]float64{0, 0}, []float64{2, 2}, []float64{2, 0}, []float64{0, 2}),
	}
	assert.Equal(t, []string{"GEOM-005"}, codes(ValidateGeometry(f, db)))

	f = building()
	f.Geometry.Holes = [][][]float64{{{100002, 6500002}, {100004, 6500002}, {100004, 6500004}}}
	got := codes(ValidateGeometry(f, db))
	assert.Contains(t, got, "GEOM-008")
}

func TestGeometryMinSegment(t *testing.T) {
	db := rules.Default()

	f := &sosi.Feature{
		ObjectType: "Takkant",
		Attributes: attrs("OBJTYPE", "Takkant", "NØYAKTIGHET", "0.10"), // 0.01 m minimum segment
		Kvalitet:   validKvalitet(),
		Geometry:   lineGeometry([]float64{0, 0}, []float64{0.005, 0}, []float64{10, 0}),
	}
	issues := ValidateGeometry(f, db)
	require.Equal(t, []string{"GEOM-010"}, codes(issues))
	assert.Equal(t, "Segment 0 too short (0.005m < 0.010m)", issues[0].Message)

	f.Attributes["NØYAKTIGHET"] = sosi.DecodeValue("0.01")
	assert.Empty(t, ValidateGeometry(f, db))

	noRules := rules.Default()
	noRules.Geometric = nil
	assert.Equal(t, []string{"GEOM-000"}, codes(ValidateGeometry(f, noRules)))
}

func TestGeometryMinSegmentIgnoresKvalitet(t *testing.T) {
	db := rules.Default()
	kvalitet := validKvalitet()
	kvalitet["NØYAKTIGHET"] = sosi.DecodeValue("0.5")

	f := &sosi.Feature{
		ObjectType: "Takkant",
		Attributes: attrs("OBJTYPE", "Takkant"),
		Kvalitet:   kvalitet,
		Geometry:   lineGeometry([]float64{0, 0}, []float64{0.03, 0}, []float64{10, 0}),
	}
	assert.Empty(t, ValidateGeometry(f, db))

	noRules := rules.Default()
	noRules.Geometric = nil
	assert.Empty(t, ValidateGeometry(f, noRules))
}

func TestGeometryRulesMissingOnce(t *testing.T) {
	f := building()
	assert.Equal(t, []string{"GEOM-000"}, codes(ValidateGeometry(f, rules.Empty())))
}

func TestPilhoyde(t *testing.T) {
	db := rules.Default()
	f := &sosi.Feature{
		ObjectType: "Takkant",
		Geometry: lineGeometry(
			[]float64{0, 0},
			[]float64{5, 0.03}, // 3 cm off the chord
			[]float64{10, 0},
			[]float64{15, 3}, // far off the chord
			[]float64{20, 0},
		),
	}

	issues := ValidatePilhoyde(f, db, StandardB)
	require.Equal(t, []string{"GEOM-011"}, codes(issues))
	assert.Equal(t, "Point 1 could be removed (pilhøyde=0.030m < 0.1m)", issues[0].Message)

	// FKB-A removes below 2.5 cm
	assert.Empty(t, ValidatePilhoyde(f, db, "a"))

	f.Geometry = &sosi.Geometry{Type: sosi.GeometryTypePoint, Coordinates: [][]float64{{1, 1}}}
	assert.Empty(t, ValidatePilhoyde(f, db, StandardB))
	assert.Empty(t, ValidatePilhoyde(&sosi.Feature{}, db, StandardB))
	assert.Equal(t, []string{"GEOM-000"}, codes(ValidatePilhoyde(building(), rules.Empty(), StandardB)))
}

func TestAccuracy(t *testing.T) {
	db := rules.Default()

	assert.Empty(t, ValidateAccuracy(building(), db, StandardB))

	tests := []struct {
		name     string
		kvalitet sosi.Attributes
		std      Standard
		want     []string
	}{
		{"missing block", nil, StandardB, []string{"ACC-001"}},
		{"empty block", sosi.Attributes{}, StandardB, []string{"ACC-001"}},
		{"no accuracy", attrs("MÅLEMETODE", "fot"), StandardB, []string{"ACC-002"}},
		{"absent accuracy", attrs("NØYAKTIGHET", ""), StandardB, []string{"ACC-002"}},
		{"text accuracy", attrs("NØYAKTIGHET", "god"), StandardB, []string{"ACC-006"}},
		{"class 4 within D", attrs("NØYAKTIGHET", "2.5"), StandardD, nil},
		{"class 4 beyond B", attrs("NØYAKTIGHET", "2.5"), StandardB, []string{"ACC-004"}},
		{"vertical beyond", attrs("NØYAKTIGHET", "0.05", "H-NØYAKTIGHET", "0.5"), StandardA, []string{"ACC-005"}},
		{"vertical text", attrs("NØYAKTIGHET", "0.05", "H-NØYAKTIGHET", "x"), StandardA, []string{"ACC-006"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := building()
			f.Kvalitet = tt.kvalitet
			got := codes(ValidateAccuracy(f, db, tt.std))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	f := building()
	f.Kvalitet = attrs("NØYAKTIGHET", "2.5")
	issues := ValidateAccuracy(f, db, StandardB)
	require.Len(t, issues, 1)
	assert.Equal(t, "NØYAKTIGHET 2.5m exceeds FKB-B class 4 standard deviation limit 1.3m", issues[0].Message)

	assert.Equal(t, []string{"ACC-003"}, codes(ValidateAccuracy(building(), db, "E")))
	assert.Equal(t, []string{"ACC-000"}, codes(ValidateAccuracy(building(), rules.Empty(), StandardB)))
}

func TestKvalitetMissingSingleField(t *testing.T) {
	f := building()
	delete(f.Kvalitet, "VERIFISERINGSDATO")

	issues := ValidateKvalitet(f, rules.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, "META-002", issues[0].Code)
	assert.Contains(t, issues[0].Message, "VERIFISERINGSDATO")
}

func TestKvalitet(t *testing.T) {
	db := rules.Default()
	assert.Empty(t, ValidateKvalitet(building(), db))

	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"unknown method", "MÅLEMETODE", "xyz", "META-003"},
		{"numeric method code", "MÅLEMETODE", "99", ""},
		{"visibility out of range", "SYNBARHET", "7", "META-004"},
		{"visibility not an integer", "SYNBARHET", "1.0", "META-004"},
		{"visibility text", "SYNBARHET", "synlig", "META-004"},
		{"short date", "DATAFANGSTDATO", "2020011", "META-005"},
		{"date with separators", "VERIFISERINGSDATO", "2020-01-01", "META-005"},
		{"date as real", "VERIFISERINGSDATO", "20200101.5", "META-005"},
		{"quoted date", "DATAFANGSTDATO", `"20200101"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := building()
			f.Kvalitet[tt.key] = sosi.DecodeValue(tt.value)
			got := codes(ValidateKvalitet(f, db))
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, []string{tt.want}, got)
		})
	}

	f := building()
	f.Kvalitet["MÅLEMETODE"] = sosi.DecodeValue("xyz")
	issues := ValidateKvalitet(f, db)
	require.Len(t, issues, 1)
	assert.Equal(t, "Invalid MÅLEMETODE 'xyz'. Valid values: byg, ukj, pla, sat, gen, fot, dig, lan, 99", issues[0].Message)

	f = building()
	f.Kvalitet = nil
	assert.Equal(t, []string{"META-001"}, codes(ValidateKvalitet(f, db)))
	assert.Equal(t, []string{"META-000"}, codes(ValidateKvalitet(building(), rules.Empty())))
}

func TestCommonAttributes(t *testing.T) {
	assert.Empty(t, ValidateCommonAttributes(building()))

	f := &sosi.Feature{Attributes: sosi.Attributes{}}
	assert.Equal(t, []string{"META-006", "META-007"}, codes(ValidateCommonAttributes(f)))
}

func parseHeader(t *testing.T, lines ...string) *sosi.Header {
	t.Helper()
	ds, err := sosi.ParseString(".HODE\n"+strings.Join(lines, "\n")+"\n.SLUTT\n", sosi.ParseOptions{})
	require.NoError(t, err)
	return ds.Header
}

var completeHeader = []string{
	"..TEGNSETT UTF-8",
	"..SOSI-VERSJON 4.5",
	"..SOSI-NIVÅ 4",
	"..TRANSPAR",
	"...KOORDSYS 25",
	"...ORIGO-NØ 0 0",
	"...ENHET 0.01",
	"..OMRÅDE",
	"...MIN-NØ 6500000 100000",
	"...MAX-NØ 6501000 101000",
}

func TestHeader(t *testing.T) {
	db := rules.Default()
	assert.Empty(t, ValidateHeader(parseHeader(t, completeHeader...), db))

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			"bare header",
			nil,
			[]string{"SOSI-001", "SOSI-001", "SOSI-001", "SOSI-001", "SOSI-001", "SOSI-001", "SOSI-001", "SOSI-006"},
		},
		{
			"bad charset old version odd unit",
			[]string{"..TEGNSETT ASCII", "..SOSI-VERSJON 3.0", "..SOSI-NIVÅ 4", "..TRANSPAR", "...KOORDSYS 99",
				"...ORIGO-NØ 0 0", "...ENHET 0.1", "..OMRÅDE", "...MIN-NØ 0 0"},
			[]string{"SOSI-002", "SOSI-003", "SOSI-005", "SOSI-007"},
		},
		{
			"unparsable version",
			[]string{"..TEGNSETT UTF-8", "..SOSI-VERSJON 4.5.1", "..SOSI-NIVÅ 4", "..TRANSPAR", "...KOORDSYS 25",
				"...ORIGO-NØ 0 0", "...ENHET 0.01", "..OMRÅDE", "...MIN-NØ 0 0"},
			[]string{"SOSI-004"},
		},
		{
			"coordinate system outside TRANSPAR",
			[]string{"..TEGNSETT UTF-8", "..SOSI-VERSJON 4.5", "..SOSI-NIVÅ 4", "..KOORDSYS 23", "..TRANSPAR",
				"...ORIGO-NØ 0 0", "...ENHET 0.01", "..OMRÅDE", "...MIN-NØ 0 0"},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes(ValidateHeader(parseHeader(t, tt.lines...), db))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	issues := ValidateHeader(parseHeader(t, "..SOSI-VERSJON 3.1"), db)
	assert.Contains(t, Strings(issues), "SOSI-003: Old SOSI version 3.1. Recommend 4.5+")

	assert.Equal(t, []string{"SOSI-000"}, codes(ValidateHeader(parseHeader(t, completeHeader...), rules.Empty())))
	assert.NotEmpty(t, ValidateHeader(nil, db))
}

func TestCoordinateEncoding(t *testing.T) {
	db := rules.Default()
	tr := sosi.Transform{OriginN: 6500000, OriginE: 100000, Unit: 0.01}

	good := []RawCoordinate{{N: 0, E: 0}, {N: 1000, E: -500}}
	assert.Empty(t, ValidateCoordinateEncoding(good, tr, db))

	bad := []RawCoordinate{{N: 0.5, E: 0}, {N: -20000000, E: 0}, {N: 0, E: 200000000}}
	issues := ValidateCoordinateEncoding(bad, tr, db)
	assert.Equal(t, []string{"SOSI-008", "SOSI-009", "SOSI-010"}, codes(issues))
	assert.Equal(t, "Coordinate 1 northing 6300000.00 outside Norway bounds", issues[1].Message)

	g := squareGeometry(100000, 6500000, 10.005)
	raw := RawCoordinates(g, tr)
	require.Len(t, raw, 5)
	assert.Equal(t, []string{"SOSI-008", "SOSI-008", "SOSI-008"}, codes(ValidateCoordinateEncoding(raw, tr, db)))

	assert.Equal(t, []string{"SOSI-000"}, codes(ValidateCoordinateEncoding(good, tr, rules.Empty())))
}

func boundary(id int64, coords ...[]float64) *sosi.Feature {
	return &sosi.Feature{
		Tag:        "KURVE",
		ObjectType: "ArealressursGrense",
		ID:         id,
		Attributes: attrs("OBJTYPE", "ArealressursGrense"),
		Geometry:   lineGeometry(coords...),
	}
}

func unitSquareBoundaries(size float64) []*sosi.Feature {
	return []*sosi.Feature{
		boundary(2, []float64{0, 0}, []float64{size, 0}),
		boundary(3, []float64{size, 0}, []float64{size, size}),
		boundary(4, []float64{size, size}, []float64{0, size}),
		boundary(5, []float64{0, size}, []float64{0, 0}),
	}
}

func TestType2FlateExact(t *testing.T) {
	flate := &sosi.Feature{ObjectType: "ÅpentOmråde", ID: 1, Geometry: squareGeometry(0, 0, 10)}
	issues := ValidateType2Flate(flate, unitSquareBoundaries(10), rules.Default())
	assert.Empty(t, issues)
}

func TestType2FlateMismatch(t *testing.T) {
	flate := &sosi.Feature{ObjectType: "ÅpentOmråde", ID: 1, Geometry: squareGeometry(0, 0, 10)}
	issues := ValidateType2Flate(flate, unitSquareBoundaries(5), rules.Default())
	assert.Equal(t, []string{"TOPO-005", "TOPO-006"}, codes(issues))
	assert.Equal(t, "Type 2 flate area mismatch. Område: 100.00 m², Constructed: 25.00 m² (diff: 75.00 m²)", issues[0].Message)
	assert.Equal(t, "Type 2 flate geometry mismatch. Symmetric difference area: 75.00 m²", issues[1].Message)
}

func TestType2FlateTolerance(t *testing.T) {
	// 1 cm shift: symmetric difference 0.2 m², tolerance (0.5*2)^2 = 1 m²
	flate := &sosi.Feature{
		ID:       1,
		Kvalitet: attrs("NØYAKTIGHET", "0.5"),
		Geometry: squareGeometry(0.01, 0, 10),
	}
	assert.Empty(t, ValidateType2Flate(flate, unitSquareBoundaries(10), rules.Default()))

	// default accuracy 0.10: tolerance 0.04 m²
	flate.Kvalitet = nil
	assert.Equal(t, []string{"TOPO-006"}, codes(ValidateType2Flate(flate, unitSquareBoundaries(10), rules.Default())))
}

func TestType2FlateFailures(t *testing.T) {
	db := rules.Default()
	square := unitSquareBoundaries(10)

	assert.Equal(t, []string{"TOPO-001"}, codes(ValidateType2Flate(&sosi.Feature{}, square, db)))

	line := &sosi.Feature{Geometry: lineGeometry([]float64{0, 0}, []float64{1, 1})}
	assert.Equal(t, []string{"TOPO-002"}, codes(ValidateType2Flate(line, square, db)))

	flate := &sosi.Feature{Geometry: squareGeometry(0, 0, 10)}
	points := []*sosi.Feature{{Geometry: &sosi.Geometry{Type: sosi.GeometryTypePoint, Coordinates: [][]float64{{0, 0}}}}}
	assert.Equal(t, []string{"TOPO-003"}, codes(ValidateType2Flate(flate, points, db)))
	assert.Equal(t, []string{"TOPO-003"}, codes(ValidateType2Flate(flate, nil, db)))

	assert.Equal(t, []string{"TOPO-004"}, codes(ValidateType2Flate(flate, square[:3], db)))

	assert.Equal(t, []string{"TOPO-000"}, codes(ValidateType2Flate(flate, square, rules.Empty())))
}

func TestNetworkSingleDanglingEndpoint(t *testing.T) {
	// a closed loop of two lines with a stem: only the stem end is open
	features := []*sosi.Feature{
		boundary(1, []float64{0, 0}, []float64{10, 0}),
		boundary(2, []float64{10, 0}, []float64{5, 8}, []float64{0, 0}),
		boundary(3, []float64{10, 0}, []float64{20, 0}),
	}

	issues := ValidateNetwork(features, "", rules.Default())
	require.Len(t, issues, 1)
	assert.Equal(t, "TOPO-008: Dangling road endpoint at (20.00, 0.00)", issues[0].String())
}

func TestNetworkTee(t *testing.T) {
	features := []*sosi.Feature{
		boundary(1, []float64{0, 0}, []float64{5, 0}),
		boundary(2, []float64{5, 0}, []float64{10, 0}),
		boundary(3, []float64{5, 0}, []float64{5, 5}),
	}
	issues := ValidateNetwork(features, "vann", rules.Default())
	assert.Equal(t, []string{
		"TOPO-008: Dangling vann endpoint at (0.00, 0.00)",
		"TOPO-008: Dangling vann endpoint at (10.00, 0.00)",
		"TOPO-008: Dangling vann endpoint at (5.00, 5.00)",
	}, Strings(issues))
}

func TestNetworkCap(t *testing.T) {
	var features []*sosi.Feature
	for i := 0; i < 4; i++ {
		x := float64(i * 100)
		features = append(features, boundary(int64(i), []float64{x, 0}, []float64{x + 10, 0}))
	}
	issues := ValidateNetwork(features, "", rules.Default())
	require.Len(t, issues, 6)
	assert.Equal(t, "TOPO-009: Found 8 dangling endpoints (showing first 5)", issues[5].String())

	assert.Empty(t, ValidateNetwork(nil, "", rules.Default()))
	assert.Equal(t, []string{"TOPO-000"}, codes(ValidateNetwork(features, "", rules.Empty())))
}

func area(id int64, x, y, size float64) *sosi.Feature {
	return &sosi.Feature{ObjectType: "ÅpentOmråde", ID: id, Geometry: squareGeometry(x, y, size)}
}

func TestSharedBoundaries(t *testing.T) {
	features := []*sosi.Feature{
		area(1, 0, 0, 10),
		area(2, 10, 0, 10), // shares an edge with 0
		area(3, 5, 5, 10),  // overlaps 0 and 1
		boundary(4, []float64{0, 0}, []float64{1, 1}),
		area(5, 20.005, 0, 10), // 5 mm gap to 1
		area(6, 100, 100, 1),
	}

	issues, err := ValidateSharedBoundaries(context.Background(), features, rules.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"TOPO-010: Polygons 0 and 2 overlap (area: 25.00 m²)",
		"TOPO-010: Polygons 1 and 2 overlap (area: 25.00 m²)",
		"TOPO-WARN-001: Small gap (0.5 cm) between polygons 1 and 4",
	}, Strings(issues))
}

func TestSharedBoundariesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ValidateSharedBoundaries(ctx, []*sosi.Feature{area(1, 0, 0, 1)}, rules.Default())
	assert.ErrorIs(t, err, context.Canceled)

	issues, err := ValidateSharedBoundaries(context.Background(), nil, rules.Empty())
	require.NoError(t, err)
	assert.Equal(t, []string{"TOPO-000"}, codes(issues))
}

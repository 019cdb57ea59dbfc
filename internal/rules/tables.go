package rules

import (
	"gopkg.in/yaml.v3"
)

// AttributeDef declares one attribute of an object type
type AttributeDef struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// ObjectType is the rule entry for one FKB object type
type ObjectType struct {
	Name         string         `yaml:"object_type"`
	Supertype    string         `yaml:"supertype"`
	GeometryType string         `yaml:"geometry_type"`
	Mandatory    []AttributeDef `yaml:"mandatory_attributes"`
	Optional     []AttributeDef `yaml:"optional_attributes"`
}

// Known returns the names of all mandatory and optional attributes
func (o *ObjectType) Known() map[string]bool {
	known := make(map[string]bool, len(o.Mandatory)+len(o.Optional))
	for _, a := range o.Mandatory {
		known[a.Name] = true
	}
	for _, a := range o.Optional {
		known[a.Name] = true
	}
	return known
}

// MandatoryTable is 01-MANDATORY-ATTRIBUTES
type MandatoryTable struct {
	CommonAttributes []AttributeDef `yaml:"common_attributes"`
	ObjectTypes      []ObjectType   `yaml:"object_types"`

	byName map[string]*ObjectType
}

func (t *MandatoryTable) index() {
	t.byName = make(map[string]*ObjectType, len(t.ObjectTypes))
	for i := range t.ObjectTypes {
		o := &t.ObjectTypes[i]
		// first definition wins
		if _, dup := t.byName[o.Name]; !dup {
			t.byName[o.Name] = o
		}
	}
}

// Lookup returns the rule entry of an object type
func (t *MandatoryTable) Lookup(name string) (*ObjectType, bool) {
	o, ok := t.byName[name]
	return o, ok
}

// GeometricTable is 02-GEOMETRIC-RULES
type GeometricTable struct {
	MinSegment struct {
		AccuracyDivisor float64 `yaml:"accuracy_divisor"`
	} `yaml:"min_segment"`
	Pilhoyde struct {
		RemovalFraction float64            `yaml:"removal_fraction"`
		DefaultLimit    float64            `yaml:"default_limit_m"`
		Limits          map[string]float64 `yaml:"limits_m"`
	} `yaml:"pilhoyde"`
}

// PilhoydeLimit returns the maximum sagitta for an FKB standard letter
func (t *GeometricTable) PilhoydeLimit(standard string) float64 {
	if v, ok := t.Pilhoyde.Limits[standard]; ok {
		return v
	}
	if t.Pilhoyde.DefaultLimit > 0 {
		return t.Pilhoyde.DefaultLimit
	}
	return 1.0
}

// Deviation holds accuracy limits in centimetres. Nil means no limit given.
type Deviation struct {
	SystematicCM *float64 `yaml:"systematic_deviation_cm"`
	StandardCM   *float64 `yaml:"standard_deviation_cm"`
}

const unlimitedCM = 999

// StandardDeviation returns the standard deviation limit in metres
func (d Deviation) StandardDeviation() float64 {
	if d.StandardCM == nil {
		return unlimitedCM / 100.0
	}
	return *d.StandardCM / 100
}

// SystematicDeviation returns the systematic deviation limit in metres
func (d Deviation) SystematicDeviation() float64 {
	if d.SystematicCM == nil {
		return unlimitedCM / 100.0
	}
	return *d.SystematicCM / 100
}

// AccuracyStandard is one (standard, class) row of the accuracy table
type AccuracyStandard struct {
	Standard   string    `yaml:"standard"`
	Class      int       `yaml:"class"`
	Horizontal Deviation `yaml:"horizontal"`
	Vertical   Deviation `yaml:"vertical"`
}

// AccuracyTable is 03-ACCURACY-STANDARDS
type AccuracyTable struct {
	ClassThresholds []float64          `yaml:"class_thresholds_m"`
	Standards       []AccuracyStandard `yaml:"accuracy_standards"`
}

var defaultClassThresholds = []float64{0.10, 0.30, 0.60}

// ClassOf maps a NØYAKTIGHET value in metres to accuracy class 1-4
func (t *AccuracyTable) ClassOf(accuracy float64) int {
	thresholds := t.ClassThresholds
	if len(thresholds) != 3 {
		thresholds = defaultClassThresholds
	}
	for i, limit := range thresholds {
		if accuracy <= limit {
			return i + 1
		}
	}
	return 4
}

// Lookup returns the row for a standard key such as "FKB-B" and a class
func (t *AccuracyTable) Lookup(standard string, class int) (*AccuracyStandard, bool) {
	for i := range t.Standards {
		s := &t.Standards[i]
		if s.Standard == standard && s.Class == class {
			return s, true
		}
	}
	return nil, false
}

// TopologyRule describes one topology rule for reporting
type TopologyRule struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// TopologyTable is 04-TOPOLOGY-RULES
type TopologyTable struct {
	Rules      []TopologyRule `yaml:"rules"`
	Type2Flate struct {
		DefaultAccuracy float64 `yaml:"default_accuracy_m"`
		ToleranceFactor float64 `yaml:"tolerance_factor"`
	} `yaml:"type2_flate"`
	Network struct {
		MaxReported        int    `yaml:"max_reported"`
		DefaultNetworkType string `yaml:"default_network_type"`
	} `yaml:"network"`
	SharedBoundaries struct {
		GapTolerance   float64 `yaml:"gap_tolerance_m"`
		OverlapEpsilon float64 `yaml:"overlap_area_epsilon_m2"`
	} `yaml:"shared_boundaries"`
}

// codeList decodes a YAML sequence of scalars as their source text, so
// 99 and "99" are the same code.
type codeList []string

func (c *codeList) UnmarshalYAML(value *yaml.Node) error {
	var nodes []yaml.Node
	if err := value.Decode(&nodes); err != nil {
		return err
	}
	out := make(codeList, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Value)
	}
	*c = out
	return nil
}

// MetadataTable is 05-METADATA-RULES
type MetadataTable struct {
	Kvalitet struct {
		MandatoryFields []string `yaml:"mandatory_fields"`
		MethodCodes     codeList `yaml:"malemetode_codes"`
		VisibilityCodes []int64  `yaml:"synbarhet_codes"`
		DateFields      []string `yaml:"date_fields"`
		DateDigits      int      `yaml:"date_digits"`
	} `yaml:"kvalitet"`
}

// Range is a closed numeric interval
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies within the range
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FormatTable is 08-SOSI-FORMAT-RULES
type FormatTable struct {
	Header struct {
		MandatoryAttributes []string  `yaml:"mandatory_attributes"`
		Charsets            []string  `yaml:"charsets"`
		MinMajorVersion     int       `yaml:"min_major_version"`
		CoordinateSystems   []int64   `yaml:"coordinate_systems"`
		Units               []float64 `yaml:"units"`
	} `yaml:"header"`
	CoordinateBounds struct {
		Northing Range `yaml:"northing"`
		Easting  Range `yaml:"easting"`
	} `yaml:"coordinate_bounds"`
}

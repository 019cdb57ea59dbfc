package validation

import (
	"encoding/hex"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/crypto/blake2b"
)

// Report status values
const (
	StatusPass         = "PASS"
	StatusWarnings     = "PASS WITH WARNINGS"
	StatusFail         = "FAIL"
	StatusError        = "ERROR"
	failErrorsFraction = 0.1
)

// CategoryIssues holds the issues one validator found on a feature
type CategoryIssues struct {
	Category string  `json:"category"`
	Issues   []Issue `json:"issues"`
}

// FeatureResult lists the issues of one feature. Index is the position of
// the feature in the dataset and orders FeatureErrors.
type FeatureResult struct {
	Index        int              `json:"feature_index"`
	ID           int64            `json:"id"`
	ObjectType   string           `json:"objtype"`
	Line         int              `json:"line"`
	Categories   []CategoryIssues `json:"errors"`
	ErrorCount   int              `json:"error_count"`
	WarningCount int              `json:"warning_count"`
}

// Issues returns every issue of the feature in category order
func (r *FeatureResult) Issues() []Issue {
	var out []Issue
	for _, c := range r.Categories {
		out = append(out, c.Issues...)
	}
	return out
}

// Summary holds the report counters. Header issues are reported but not
// counted in TotalErrors.
type Summary struct {
	TotalFeatures      int `json:"total_features"`
	TotalErrors        int `json:"total_errors"`
	TotalWarnings      int `json:"total_warnings"`
	FeaturesWithErrors int `json:"features_with_errors"`
}

// Report is the result of validating one dataset
type Report struct {
	Source         string          `json:"source,omitempty"`
	Standard       Standard        `json:"fkb_standard"`
	Strict         bool            `json:"strict"`
	HeaderErrors   []Issue         `json:"header_errors"`
	FeatureErrors  []FeatureResult `json:"feature_errors"`
	TopologyErrors []Issue         `json:"topology_errors"`
	ParseProblems  []string        `json:"parse_problems,omitempty"`
	Error          string          `json:"error,omitempty"`
	Summary        Summary         `json:"summary"`
}

func newReport(std Standard, strict bool) *Report {
	return &Report{
		Standard:       std,
		Strict:         strict,
		HeaderErrors:   []Issue{},
		FeatureErrors:  []FeatureResult{},
		TopologyErrors: []Issue{},
	}
}

// Status rates the report: PASS without errors, PASS WITH WARNINGS while
// errors stay below a tenth of the feature count, FAIL otherwise. A source
// that could not be parsed is ERROR.
func (r *Report) Status() string {
	errs := r.Summary.TotalErrors
	switch {
	case r.Error != "":
		return StatusError
	case errs == 0:
		return StatusPass
	case float64(errs) < float64(r.Summary.TotalFeatures)*failErrorsFraction:
		return StatusWarnings
	default:
		return StatusFail
	}
}

// CriticalCount counts issues with a critical code across all buckets
func (r *Report) CriticalCount() int {
	n := 0
	for _, is := range r.HeaderErrors {
		if is.Critical() {
			n++
		}
	}
	for i := range r.FeatureErrors {
		for _, is := range r.FeatureErrors[i].Issues() {
			if is.Critical() {
				n++
			}
		}
	}
	for _, is := range r.TopologyErrors {
		if is.Critical() {
			n++
		}
	}
	return n
}

// HasErrors reports whether any bucket holds an error
func (r *Report) HasErrors() bool {
	if r.Error != "" || r.Summary.TotalErrors > 0 {
		return true
	}
	errs, _ := count(r.HeaderErrors)
	return errs > 0
}

var reportJSON = jsoniter.Config{
	EscapeHTML:    false,
	SortMapKeys:   true,
	UseNumber:     true,
	CaseSensitive: true,
}.Froze()

// JSON encodes the report with two-space indentation
func (r *Report) JSON() ([]byte, error) {
	return reportJSON.MarshalIndent(r, "", "  ")
}

// Digest returns the hex BLAKE2b-256 of the JSON encoding. Validating the
// same input twice yields the same digest.
func (r *Report) Digest() (string, error) {
	data, err := r.JSON()
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

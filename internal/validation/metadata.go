package validation

import (
	"slices"
	"strconv"
	"strings"

	"github.com/torsaan/fkb/internal/rules"
	"github.com/torsaan/fkb/internal/sosi"
)

var defaultDateFields = []string{"DATAFANGSTDATO", "VERIFISERINGSDATO"}

const defaultDateDigits = 8

// ValidateKvalitet checks that the KVALITET block of f is complete and that
// its method, visibility and date fields are well formed.
func ValidateKvalitet(f *sosi.Feature, db *rules.Database) []Issue {
	if !db.Loaded(rules.MetadataRules) {
		return []Issue{issue("META-000", "Metadata rules not loaded")}
	}
	if len(f.Kvalitet) == 0 {
		return []Issue{issue("META-001", "Missing KVALITET block")}
	}
	rule := &db.Metadata.Kvalitet
	kv := f.Kvalitet

	var issues []Issue
	for _, name := range rule.MandatoryFields {
		if !kv.Has(name) {
			issues = append(issues, issue("META-002", "Missing mandatory KVALITET attribute '%s'", name))
		}
	}

	if v, ok := kv.Get("MÅLEMETODE"); ok && v.Text() != "" {
		if !slices.Contains([]string(rule.MethodCodes), v.Text()) {
			issues = append(issues, issue("META-003", "Invalid MÅLEMETODE '%s'. Valid values: %s",
				v.Text(), strings.Join(rule.MethodCodes, ", ")))
		}
	}

	if v, ok := kv.Get("SYNBARHET"); ok && !v.IsAbsent() {
		code, isInt := v.AsInt()
		if !isInt || !slices.Contains(rule.VisibilityCodes, code) {
			issues = append(issues, issue("META-004", "Invalid SYNBARHET '%s'. Valid values: %s",
				v.Text(), joinInts(rule.VisibilityCodes)))
		}
	}

	fields := rule.DateFields
	if len(fields) == 0 {
		fields = defaultDateFields
	}
	digits := rule.DateDigits
	if digits <= 0 {
		digits = defaultDateDigits
	}
	for _, name := range fields {
		v, ok := kv.Get(name)
		if !ok || v.Text() == "" {
			continue
		}
		if !isDigits(v.Text(), digits) {
			issues = append(issues, issue("META-005", "Invalid date format for '%s': %s. Expected YYYYMMDD",
				name, v.Text()))
		}
	}
	return issues
}

// ValidateCommonAttributes checks the attributes every FKB feature carries
// at its top level
func ValidateCommonAttributes(f *sosi.Feature) []Issue {
	var issues []Issue
	if !f.Has("OBJTYPE") {
		issues = append(issues, issue("META-006", "Missing OBJTYPE attribute"))
	}
	if !f.Has("DATAFANGSTDATO") {
		issues = append(issues, issue("META-007", "Missing DATAFANGSTDATO attribute"))
	}
	return issues
}

// isDigits reports whether s is exactly n ASCII digits
func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func joinInts(vals []int64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ", ")
}

package validation

import (
	"github.com/torsaan/fkb/internal/rules"
	"github.com/torsaan/fkb/internal/sosi"
)

// ValidateAccuracy checks the KVALITET accuracy of f against the limits of
// the FKB standard. The accuracy class is derived from NØYAKTIGHET itself.
func ValidateAccuracy(f *sosi.Feature, db *rules.Database, std Standard) []Issue {
	if !db.Loaded(rules.AccuracyStandards) {
		return []Issue{issue("ACC-000", "Accuracy standards not loaded")}
	}
	if len(f.Kvalitet) == 0 {
		return []Issue{issue("ACC-001", "Missing KVALITET block")}
	}

	raw, ok := f.Quality("NØYAKTIGHET")
	if !ok || raw.IsAbsent() {
		return []Issue{issue("ACC-002", "Missing NØYAKTIGHET in KVALITET block")}
	}
	accuracy, ok := raw.AsNumber()
	if !ok {
		return []Issue{issue("ACC-006", "NØYAKTIGHET '%s' is not a number", raw.Text())}
	}

	key := std.Key()
	class := db.Accuracy.ClassOf(accuracy)
	row, ok := db.Accuracy.Lookup(key, class)
	if !ok {
		return []Issue{issue("ACC-003", "No standard found for %s class %d", key, class)}
	}

	var issues []Issue
	if limit := row.Horizontal.StandardDeviation(); accuracy > limit {
		issues = append(issues, issue("ACC-004",
			"NØYAKTIGHET %vm exceeds %s class %d standard deviation limit %vm",
			accuracy, key, class, limit))
	}

	raw, ok = f.Quality("H-NØYAKTIGHET")
	if !ok || raw.IsAbsent() {
		return issues
	}
	vertical, ok := raw.AsNumber()
	if !ok {
		return append(issues, issue("ACC-006", "H-NØYAKTIGHET '%s' is not a number", raw.Text()))
	}
	if limit := row.Vertical.StandardDeviation(); vertical > limit {
		issues = append(issues, issue("ACC-005",
			"H-NØYAKTIGHET %vm exceeds %s class %d vertical standard deviation limit %vm",
			vertical, key, class, limit))
	}
	return issues
}

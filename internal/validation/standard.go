package validation

import (
	"fmt"
	"strings"
)

// Standard is an FKB accuracy standard letter, A (urban, most precise)
// through D (wilderness)
type Standard string

const (
	StandardA Standard = "A"
	StandardB Standard = "B"
	StandardC Standard = "C"
	StandardD Standard = "D"
)

// DefaultStandard is used when no standard is given
const DefaultStandard = StandardB

// ParseStandard accepts a standard letter in any case, with or without the
// "FKB-" prefix
func ParseStandard(s string) (Standard, error) {
	std := normalizeStandard(Standard(s))
	switch std {
	case StandardA, StandardB, StandardC, StandardD:
		return std, nil
	}
	return "", fmt.Errorf("invalid FKB standard %q: want A, B, C or D", s)
}

// Key returns the accuracy table key, e.g. "FKB-B"
func (s Standard) Key() string {
	return "FKB-" + string(normalizeStandard(s))
}

func normalizeStandard(s Standard) Standard {
	v := strings.ToUpper(strings.TrimSpace(string(s)))
	v = strings.TrimPrefix(v, "FKB-")
	if v == "" {
		return DefaultStandard
	}
	return Standard(v)
}

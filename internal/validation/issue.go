// Package validation checks parsed SOSI datasets against the FKB rules.
//
// Every check returns its findings as data. A finding is an Issue with a
// stable code such as "ATTR-002" or "TOPO-WARN-001"; the prefix names the
// category (ATTR, GEOM, ACC, META, SOSI, TOPO) and a "-WARN-" infix marks a
// warning. A check whose rule table is not loaded reports a single *-000
// issue of its own category instead of passing silently.
package validation

import (
	"fmt"
	"strings"
)

// Issue is one validation finding
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Code + ": " + i.Message
}

// Warning reports whether the issue is a warning rather than an error
func (i Issue) Warning() bool {
	return strings.Contains(i.Code, "-WARN-")
}

// Category returns the code prefix, e.g. "GEOM"
func (i Issue) Category() string {
	if p, _, ok := strings.Cut(i.Code, "-"); ok {
		return p
	}
	return i.Code
}

func issue(code, format string, args ...any) Issue {
	return Issue{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Strings renders issues as "CODE: message" lines
func Strings(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.String()
	}
	return out
}

// count returns the number of errors and warnings in issues
func count(issues []Issue) (errs, warns int) {
	for _, is := range issues {
		if is.Warning() {
			warns++
		} else {
			errs++
		}
	}
	return errs, warns
}

// Codes that make a report critical regardless of error counts
var criticalCodes = map[string]bool{
	"SOSI-001": true,
	"SOSI-006": true,
	"ATTR-002": true,
	"GEOM-001": true,
	"TOPO-001": true,
	"TOPO-005": true,
}

// Critical reports whether the issue blocks use of the dataset
func (i Issue) Critical() bool {
	return criticalCodes[i.Code]
}

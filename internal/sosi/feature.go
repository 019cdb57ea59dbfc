package sosi

import (
	"fmt"
	"strconv"
	"strings"
)

// Feature represents one SOSI object, the lines from a ".<TAG> <ID>:" header
// up to the next block line.
type Feature struct {
	// Tag is the header tag, e.g. "KURVE" in ".KURVE 12:"
	Tag string
	// ObjectType is OBJTYPE. It starts as Tag and a ..OBJTYPE attribute overrides it.
	ObjectType string
	// ID is the serial number from the header line, unique per file by convention only
	ID int64
	// LineNumber is the 1-based line of the feature header
	LineNumber int
	// Attributes holds every non-geometry ..KEY, OBJTYPE included
	Attributes Attributes
	// Kvalitet is the nested ..KVALITET block, nil when absent
	Kvalitet Attributes
	// Geometry is nil when the feature had no geometry keyword
	Geometry *Geometry
	// Refs are the boundary references decoded from ..REF
	Refs []Ref
}

// Has reports whether the feature carries key with a value. KVALITET is
// satisfied by the nested block.
func (f *Feature) Has(key string) bool {
	if key == "KVALITET" {
		return f.Kvalitet != nil
	}
	return f.Attributes.Has(key)
}

// Get returns the feature attribute stored under key
func (f *Feature) Get(key string) (Value, bool) {
	return f.Attributes.Get(key)
}

// Quality returns a KVALITET sub-attribute
func (f *Feature) Quality(key string) (Value, bool) {
	if f.Kvalitet == nil {
		return NoValue(), false
	}
	return f.Kvalitet.Get(key)
}

func (f *Feature) String() string {
	return fmt.Sprintf(".%s %d: %s", f.Tag, f.ID, f.ObjectType)
}

// Ref is one entry of a ..REF list: a reference to a boundary feature by ID.
//
// In ":12 -:13 (:20 :21)" the minus reverses the referenced line and the
// parenthesised group is an interior ring.
type Ref struct {
	ID       int64
	Reversed bool
	Hole     bool
}

func (r Ref) String() string {
	s := ":" + strconv.FormatInt(r.ID, 10)
	if r.Reversed {
		s = "-" + s
	}
	return s
}

// ParseRefs decodes the text of a ..REF attribute
func ParseRefs(text string) ([]Ref, error) {
	var refs []Ref
	hole := false
	for _, tok := range strings.Fields(text) {
		if strings.HasPrefix(tok, "(") {
			hole = true
			tok = tok[1:]
		}
		closing := strings.HasSuffix(tok, ")")
		tok = strings.TrimSuffix(tok, ")")

		if tok != "" {
			ref := Ref{Hole: hole}
			if strings.HasPrefix(tok, "-") {
				ref.Reversed = true
				tok = tok[1:]
			}
			if !strings.HasPrefix(tok, ":") {
				return refs, fmt.Errorf("invalid REF token %q", tok)
			}
			id, err := strconv.ParseInt(tok[1:], 10, 64)
			if err != nil {
				return refs, fmt.Errorf("invalid REF id %q: %w", tok, err)
			}
			ref.ID = id
			refs = append(refs, ref)
		}

		if closing {
			hole = false
		}
	}
	return refs, nil
}

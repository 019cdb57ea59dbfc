package sosi

import (
	"math"
	"strconv"
	"strings"
)

// DefaultUnit is the coordinate unit used when the header has no ENHET
const DefaultUnit = 0.01

// Transform converts SOSI integer coordinates to real-world units.
//
// SOSI stores every ordinate as an integer count of Unit relative to the
// header origin (ORIGO-NØ). Heights carry no origin.
type Transform struct {
	OriginN float64
	OriginE float64
	Unit    float64
}

// DefaultTransform returns the identity origin with the default unit
func DefaultTransform() Transform {
	return Transform{Unit: DefaultUnit}
}

// TransformFromHeader builds a transform from the lifted ORIGO-NØ and ENHET
// header keys. Missing or malformed values fall back to origin (0,0) and
// unit 0.01.
func TransformFromHeader(h *Header) Transform {
	t := DefaultTransform()
	if h == nil {
		return t
	}
	if v, ok := h.Attrs.Get("ORIGO-NØ"); ok {
		if origin, ok := v.Floats(); ok && len(origin) >= 2 {
			t.OriginN, t.OriginE = origin[0], origin[1]
		}
	}
	if v, ok := h.Attrs.Get("ENHET"); ok {
		if unit, ok := v.AsNumber(); ok {
			t.Unit = unit
		}
	}
	return t
}

// Decode maps a raw (N, E, H) triple to real-world (northing, easting, height).
// The height is exactly zero when the raw height is zero.
func (t Transform) Decode(n, e, h int64) (float64, float64, float64) {
	rn := t.OriginN + float64(n)*t.Unit
	re := t.OriginE + float64(e)*t.Unit
	if h == 0 {
		return rn, re, 0
	}
	return rn, re, float64(h) * t.Unit
}

// Coordinate decodes a raw triple into geometry order: [E, N] when the
// height is zero, else [E, N, H].
func (t Transform) Coordinate(n, e, h int64) []float64 {
	rn, re, rh := t.Decode(n, e, h)
	if rh == 0 {
		return []float64{re, rn}
	}
	return []float64{re, rn, rh}
}

// Encode is the inverse of Decode for the planar ordinates, rounding to the
// nearest unit.
func (t Transform) Encode(northing, easting float64) (int64, int64) {
	n, e := t.Units(northing, easting)
	return int64(math.Round(n)), int64(math.Round(e))
}

// Units returns the unrounded raw ordinates of a real-world position. They
// are whole numbers for any position the transform can encode exactly.
func (t Transform) Units(northing, easting float64) (float64, float64) {
	if t.Unit == 0 {
		return 0, 0
	}
	return (northing - t.OriginN) / t.Unit, (easting - t.OriginE) / t.Unit
}

// EncodeHeight is the inverse of the height decoding
func (t Transform) EncodeHeight(height float64) int64 {
	if height == 0 || t.Unit == 0 {
		return 0
	}
	return int64(math.Round(height / t.Unit))
}

// parseCoordinateLine splits a coordinate line into 2 or 3 integers.
// A missing height is reported as zero.
func parseCoordinateLine(line string) (n, e, h int64, ok bool) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return 0, 0, 0, false
	}
	var err error
	if n, err = strconv.ParseInt(parts[0], 10, 64); err != nil {
		return 0, 0, 0, false
	}
	if e, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
		return 0, 0, 0, false
	}
	if len(parts) > 2 {
		if h, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
			return 0, 0, 0, false
		}
	}
	return n, e, h, true
}

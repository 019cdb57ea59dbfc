package sosi

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies which variant a Value holds
type Kind int

const (
	KindAbsent Kind = iota // key present without a value, e.g. "..KVALITET"
	KindString
	KindInt
	KindFloat
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Number is one element of a numeric list. Each token keeps its own
// integer/real distinction, decided by the presence of a '.'.
type Number struct {
	Int     int64
	Float   float64
	IsFloat bool
}

// Float64 returns the number as a float regardless of its variant
func (n Number) Float64() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// Value is a decoded SOSI attribute value.
//
// It is a closed variant: exactly one of string, int, float, numeric list
// or absent. Accessors report a mismatch through their boolean result and
// never coerce between variants, except AsNumber which accepts both int
// and float on purpose.
type Value struct {
	kind Kind
	raw  string // source text, quotes removed for strings
	str  string
	i    int64
	f    float64
	list []Number
}

// NoValue returns the absent marker
func NoValue() Value { return Value{kind: KindAbsent} }

// StringValue returns a string value
func StringValue(s string) Value { return Value{kind: KindString, raw: s, str: s} }

// IntValue returns an integer value
func IntValue(i int64) Value {
	return Value{kind: KindInt, raw: strconv.FormatInt(i, 10), i: i}
}

// FloatValue returns a real value
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, raw: strconv.FormatFloat(f, 'f', -1, 64), f: f}
}

// ListValue returns a numeric list value
func ListValue(nums ...Number) Value {
	parts := make([]string, len(nums))
	for i, n := range nums {
		if n.IsFloat {
			parts[i] = strconv.FormatFloat(n.Float, 'f', -1, 64)
		} else {
			parts[i] = strconv.FormatInt(n.Int, 10)
		}
	}
	return Value{kind: KindList, raw: strings.Join(parts, " "), list: append([]Number(nil), nums...)}
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the no-value marker
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Text returns the value as written in the source
func (v Value) Text() string { return v.raw }

func (v Value) String() string {
	if v.kind == KindAbsent {
		return "<none>"
	}
	return v.raw
}

// AsString returns the string held by v
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInt returns the integer held by v
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the real held by v
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// AsNumber returns v as a float when v is an int or a float
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsList returns the numbers held by v
func (v Value) AsList() ([]Number, bool) {
	return v.list, v.kind == KindList
}

// Floats returns a numeric list as floats
func (v Value) Floats() ([]float64, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]float64, len(v.list))
	for i, n := range v.list {
		out[i] = n.Float64()
	}
	return out, true
}

// DecodeValue turns the raw text following an attribute key into a typed value.
//
// Order of attempts: surrounding quotes, a single number (real when the text
// contains '.'), then a list of at least two numbers. Anything else is kept as
// the trimmed string.
func DecodeValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NoValue()
	}

	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return StringValue(s[1 : len(s)-1])
	}

	if n, ok := decodeNumber(s); ok {
		v := Value{raw: s}
		if n.IsFloat {
			v.kind, v.f = KindFloat, n.Float
		} else {
			v.kind, v.i = KindInt, n.Int
		}
		return v
	}

	if tokens := strings.Fields(s); len(tokens) >= 2 {
		nums := make([]Number, 0, len(tokens))
		for _, tok := range tokens {
			n, ok := decodeNumber(tok)
			if !ok {
				return StringValue(s)
			}
			nums = append(nums, n)
		}
		return Value{kind: KindList, raw: s, list: nums}
	}

	return StringValue(s)
}

func decodeNumber(tok string) (Number, bool) {
	if !looksNumeric(tok) {
		return Number{}, false
	}
	if strings.Contains(tok, ".") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Number{}, false
		}
		return Number{Float: f, IsFloat: true}, true
	}
	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return Number{}, false
	}
	return Number{Int: i}, true
}

// looksNumeric rejects tokens strconv would accept but SOSI never writes
// as numbers (hex floats, "Inf", "NaN").
func looksNumeric(tok string) bool {
	digit := false
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return digit
}

// Attributes maps attribute names to decoded values. Keys are case-sensitive.
type Attributes map[string]Value

// Get returns the value stored under key
func (a Attributes) Get(key string) (Value, bool) {
	v, ok := a[key]
	return v, ok
}

// Has reports whether key is present with a value other than absent
func (a Attributes) Has(key string) bool {
	v, ok := a[key]
	return ok && !v.IsAbsent()
}

// Keys returns the attribute names in sorted order
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// splitAttribute splits an attribute line into key and decoded value.
// level is the number of leading dots to strip.
func splitAttribute(line string, level int) (string, Value) {
	if len(line) < level {
		return "", NoValue()
	}
	content := strings.TrimSpace(line[level:])
	idx := strings.IndexFunc(content, unicode.IsSpace)
	if idx < 0 {
		return content, NoValue()
	}
	return content[:idx], DecodeValue(content[idx+1:])
}

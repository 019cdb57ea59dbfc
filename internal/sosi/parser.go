package sosi

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Parser parses SOSI files into a header and a feature list.
//
// A SOSI file is line oriented. The number of leading dots gives the
// nesting level of a line: one dot opens a block (.HODE, a feature or
// .SLUTT), two dots an attribute, three dots a sub-attribute of the
// preceding block attribute (TRANSPAR, OMRÅDE, KVALITET). Lines without a
// dot carry coordinates.
type Parser interface {
	// Parse reads a SOSI file with default options
	Parse(filename string) (*Dataset, error)

	// ParseWithOptions reads a SOSI file with custom options
	ParseWithOptions(filename string, opts ParseOptions) (*Dataset, error)

	// ParseReader reads SOSI text from r
	ParseReader(r io.Reader, opts ParseOptions) (*Dataset, error)
}

// ParseOptions configures parsing behavior
type ParseOptions struct {
	// Logger receives parse progress and skipped-feature warnings.
	// Nil disables logging.
	Logger *slog.Logger

	// Charset overrides the ..TEGNSETT sniffed from the file.
	// Empty means sniff; files without TEGNSETT are read as UTF-8.
	Charset string
}

// DefaultParseOptions returns parse options with defaults
func DefaultParseOptions() ParseOptions {
	return ParseOptions{}
}

// Dataset is the result of parsing one SOSI file
type Dataset struct {
	// Source is the file name, empty for in-memory input
	Source string
	// Lines is the number of physical lines read
	Lines    int
	Header   *Header
	Features []*Feature
	// Problems lists every feature that was skipped, in file order
	Problems []*FormatError
}

// FeatureByID returns the first feature with the given serial number
func (d *Dataset) FeatureByID(id int64) (*Feature, bool) {
	for _, f := range d.Features {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Transform returns the coordinate transform declared by the header
func (d *Dataset) Transform() Transform {
	return TransformFromHeader(d.Header)
}

type defaultParser struct{}

// NewParser creates a new SOSI parser
func NewParser() Parser {
	return &defaultParser{}
}

func (p *defaultParser) Parse(filename string) (*Dataset, error) {
	return p.ParseWithOptions(filename, DefaultParseOptions())
}

func (p *defaultParser) ParseWithOptions(filename string, opts ParseOptions) (*Dataset, error) {
	data, err := readSource(filename)
	if err != nil {
		return nil, err
	}
	ds, err := parseBytes(data, opts)
	if err != nil {
		return nil, err
	}
	ds.Source = filename
	return ds, nil
}

func (p *defaultParser) ParseReader(r io.Reader, opts ParseOptions) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &SourceError{Err: err}
	}
	data, err = decompress(data)
	if err != nil {
		return nil, &SourceError{Err: err}
	}
	return parseBytes(data, opts)
}

// ParseString parses SOSI text held in memory
func ParseString(text string, opts ParseOptions) (*Dataset, error) {
	return ParseLines(splitLines(strings.TrimPrefix(text, "\ufeff")), opts)
}

func parseBytes(data []byte, opts ParseOptions) (*Dataset, error) {
	text, err := decodeText(data, opts.Charset)
	if err != nil {
		return nil, &SourceError{Err: err}
	}
	return ParseLines(splitLines(text), opts)
}

// ParseLines parses a SOSI file already split into lines. Trailing
// whitespace is expected to be stripped.
//
// It fails only when the first line does not open the .HODE block. Every
// other defect is confined to the feature it occurs in: that feature is
// dropped, recorded in Dataset.Problems and scanning resumes on the next line.
func ParseLines(lines []string, opts ParseOptions) (*Dataset, error) {
	lp := &lineParser{lines: lines, logger: opts.Logger}

	if logEnabled(lp.logger, slog.LevelInfo) {
		lp.logger.LogAttrs(context.Background(), slog.LevelInfo, "parsing SOSI",
			slog.Int("lines", len(lines)))
	}

	header, err := lp.parseHeader()
	if err != nil {
		return nil, err
	}
	lp.transform = TransformFromHeader(header)

	features := lp.parseFeatures()

	if logEnabled(lp.logger, slog.LevelInfo) {
		lp.logger.LogAttrs(context.Background(), slog.LevelInfo, "parsed SOSI",
			slog.String("owner", header.Owner()),
			slog.String("version", header.Version()),
			slog.Int("features", len(features)),
			slog.Int("skipped", len(lp.problems)))
	}

	return &Dataset{
		Lines:    len(lines),
		Header:   header,
		Features: features,
		Problems: lp.problems,
	}, nil
}

// featureHeaderPattern matches ".<TAG> <ID>:". Tags may contain Norwegian letters.
var featureHeaderPattern = regexp.MustCompile(`^\.([\p{L}\p{N}_]+)\s+(\d+):`)

// lineParser owns the cursor over the line sequence. pos always indexes the
// next unread line.
type lineParser struct {
	lines     []string
	pos       int
	transform Transform
	logger    *slog.Logger
	problems  []*FormatError
}

// dotLevel returns the number of leading dots on a line
func dotLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '.' {
		n++
	}
	return n
}

func (p *lineParser) done() bool {
	return p.pos >= len(p.lines)
}

func (p *lineParser) parseHeader() (*Header, error) {
	if len(p.lines) == 0 || !strings.HasPrefix(p.lines[0], ".HODE") {
		return nil, &FormatError{Line: 1, Reason: ErrMissingHeader.Error(), Err: ErrMissingHeader}
	}

	h := newHeader()
	p.pos = 1
	for !p.done() {
		line := p.lines[p.pos]
		level := dotLevel(line)
		if level == 1 {
			break
		}
		if level != 2 {
			p.pos++
			continue
		}

		key, val := splitAttribute(line, 2)
		p.pos++
		if headerBlocks[key] {
			h.Blocks[key] = p.captureBlock(3)
			continue
		}
		h.Attrs[key] = val
	}
	h.lift()
	return h, nil
}

// captureBlock reads consecutive lines carrying exactly level leading dots
// into a nested attribute map.
func (p *lineParser) captureBlock(level int) Attributes {
	block := make(Attributes)
	for !p.done() && dotLevel(p.lines[p.pos]) == level {
		key, val := splitAttribute(p.lines[p.pos], level)
		block[key] = val
		p.pos++
	}
	return block
}

func (p *lineParser) parseFeatures() []*Feature {
	var features []*Feature
	for !p.done() {
		line := p.lines[p.pos]
		switch {
		case strings.TrimSpace(line) == "":
			p.pos++
		case strings.HasPrefix(line, ".SLUTT"):
			return features
		case dotLevel(line) == 1:
			if f := p.parseFeature(); f != nil {
				features = append(features, f)
			}
		default:
			p.pos++
		}
	}
	return features
}

// parseFeature parses the feature starting at the cursor. On failure it
// records the problem, moves one line past the feature header and returns nil.
func (p *lineParser) parseFeature() *Feature {
	start := p.pos
	line := p.lines[start]

	m := featureHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		p.pos++
		if strings.HasPrefix(line, ".HODE") {
			return nil
		}
		p.skip(formatErrorf(start+1, "invalid feature header: %s", line))
		return nil
	}
	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		p.pos++
		p.skip(&FormatError{Line: start + 1, Reason: "invalid feature id " + m[2], Err: err})
		return nil
	}

	f := &Feature{
		Tag:        m[1],
		ObjectType: m[1],
		ID:         id,
		LineNumber: start + 1,
		Attributes: Attributes{"OBJTYPE": StringValue(m[1])},
	}

	p.pos++
	for !p.done() {
		line := p.lines[p.pos]
		level := dotLevel(line)
		if level == 1 {
			break
		}
		if level != 2 {
			p.pos++
			continue
		}

		key, val := splitAttribute(line, 2)
		if err := p.parseFeatureAttribute(f, key, val); err != nil {
			p.pos = start + 1
			p.skip(err)
			return nil
		}
	}

	if logEnabled(p.logger, slog.LevelDebug) {
		p.logger.LogAttrs(context.Background(), slog.LevelDebug, "parsed feature",
			slog.String("objtype", f.ObjectType),
			slog.Int64("id", f.ID),
			slog.Int("line", f.LineNumber))
	}
	return f
}

// parseFeatureAttribute consumes the ..KEY line at the cursor and any lines
// belonging to it.
func (p *lineParser) parseFeatureAttribute(f *Feature, key string, val Value) *FormatError {
	keyLine := p.pos + 1
	p.pos++

	switch key {
	case "KVALITET":
		f.Kvalitet = p.captureBlock(3)

	case "PUNKT":
		g, err := p.capturePoint(keyLine, key)
		if err != nil {
			return err
		}
		f.Geometry = g

	case "KURVE":
		g, err := p.captureCurve(keyLine, key, val)
		if err != nil {
			return err
		}
		f.Geometry = g

	case "FLATE":
		g, err := p.captureFlate(keyLine)
		if err != nil {
			return err
		}
		f.Geometry = g

	case "NØ", "NØH":
		return p.captureNative(f, keyLine, key)

	case "REF":
		text := p.captureContinuation(val.Text())
		f.Attributes[key] = StringValue(text)
		refs, err := ParseRefs(text)
		if err != nil && logEnabled(p.logger, slog.LevelWarn) {
			p.logger.LogAttrs(context.Background(), slog.LevelWarn, "invalid REF",
				slog.Int("line", keyLine),
				slog.String("error", err.Error()))
		}
		f.Refs = append(f.Refs, refs...)

	case "OBJTYPE":
		f.Attributes[key] = val
		if !val.IsAbsent() {
			f.ObjectType = val.Text()
		}

	default:
		f.Attributes[key] = val
	}
	return nil
}

// captureNative handles the native SOSI coordinate keys ..NØ and ..NØH. On a
// .PUNKT feature they give the point, on a .KURVE feature each block extends
// the line. Elsewhere (the representative point of a .FLATE) the coordinates
// are not kept.
func (p *lineParser) captureNative(f *Feature, keyLine int, key string) *FormatError {
	switch f.Tag {
	case "PUNKT":
		g, err := p.capturePoint(keyLine, key)
		if err != nil {
			return err
		}
		f.Geometry = g
	case "KURVE":
		g, err := p.captureCurve(keyLine, key, NoValue())
		if err != nil {
			return err
		}
		if f.Geometry == nil || f.Geometry.Type != GeometryTypeLineString {
			f.Geometry = g
			return nil
		}
		coords := g.Coordinates
		prev := f.Geometry.Coordinates
		if len(prev) > 0 && sameCoordinate(prev[len(prev)-1], coords[0]) {
			coords = coords[1:]
		}
		f.Geometry.Coordinates = append(prev, coords...)
	default:
		for !p.done() && dotLevel(p.lines[p.pos]) == 0 {
			p.pos++
		}
	}
	return nil
}

// capturePoint reads exactly one coordinate line
func (p *lineParser) capturePoint(keyLine int, key string) (*Geometry, *FormatError) {
	if p.done() {
		return nil, formatErrorf(keyLine, "%s without coordinates", key)
	}
	n, e, h, ok := parseCoordinateLine(p.lines[p.pos])
	if !ok {
		return nil, formatErrorf(p.pos+1, "invalid %s coordinate: %q", key, p.lines[p.pos])
	}
	p.pos++
	return &Geometry{
		Type:        GeometryTypePoint,
		Coordinates: [][]float64{p.transform.Coordinate(n, e, h)},
	}, nil
}

// captureCurve reads coordinate lines until a dotted line, a line that is not
// a coordinate, or the declared point count.
func (p *lineParser) captureCurve(keyLine int, key string, count Value) (*Geometry, *FormatError) {
	expected := 0
	if n, ok := count.AsNumber(); ok && n > 0 {
		expected = int(n)
	}

	var coords [][]float64
	for !p.done() {
		line := p.lines[p.pos]
		if strings.HasPrefix(line, ".") {
			break
		}
		n, e, h, ok := parseCoordinateLine(line)
		if !ok {
			break
		}
		coords = append(coords, p.transform.Coordinate(n, e, h))
		p.pos++
		if expected > 0 && len(coords) >= expected {
			break
		}
	}

	if len(coords) == 0 {
		return nil, formatErrorf(keyLine, "no coordinates found for %s", key)
	}
	return &Geometry{Type: GeometryTypeLineString, Coordinates: coords}, nil
}

// captureFlate requires the next dotted line to be ..KURVE and closes its
// points into a ring.
func (p *lineParser) captureFlate(keyLine int) (*Geometry, *FormatError) {
	for !p.done() {
		line := p.lines[p.pos]
		if dotLevel(line) == 0 {
			p.pos++
			continue
		}
		key, val := splitAttribute(line, 2)
		if dotLevel(line) != 2 || key != "KURVE" {
			return nil, formatErrorf(p.pos+1, "FLATE without KURVE")
		}
		kurveLine := p.pos + 1
		p.pos++
		boundary, err := p.captureCurve(kurveLine, key, val)
		if err != nil {
			return nil, err
		}
		return &Geometry{
			Type:        GeometryTypePolygon,
			Coordinates: closeRing(boundary.Coordinates),
		}, nil
	}
	return nil, formatErrorf(keyLine, "unexpected end of input while parsing FLATE")
}

// captureContinuation appends the undotted lines that follow an attribute
// line to its value text.
func (p *lineParser) captureContinuation(text string) string {
	var buf bytes.Buffer
	buf.WriteString(text)
	for !p.done() {
		line := p.lines[p.pos]
		if strings.TrimSpace(line) == "" || dotLevel(line) > 0 {
			break
		}
		buf.WriteByte(' ')
		buf.WriteString(strings.TrimSpace(line))
		p.pos++
	}
	return strings.TrimSpace(buf.String())
}

func (p *lineParser) skip(err *FormatError) {
	p.problems = append(p.problems, err)
	if logEnabled(p.logger, slog.LevelWarn) {
		p.logger.LogAttrs(context.Background(), slog.LevelWarn, "skipped feature",
			slog.Int("line", err.Line),
			slog.String("reason", err.Reason))
	}
}

func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}

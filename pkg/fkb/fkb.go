package fkb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/torsaan/fkb/internal/rules"
	"github.com/torsaan/fkb/internal/sosi"
	"github.com/torsaan/fkb/internal/validation"
)

// Parsed SOSI data
type (
	Dataset      = sosi.Dataset
	Header       = sosi.Header
	Feature      = sosi.Feature
	Geometry     = sosi.Geometry
	Value        = sosi.Value
	Attributes   = sosi.Attributes
	ParseOptions = sosi.ParseOptions
	FormatError  = sosi.FormatError
	SourceError  = sosi.SourceError
)

// Validation
type (
	Rules       = rules.Database
	RuleOptions = rules.LoadOptions
	Validator   = validation.Validator
	Options     = validation.Options
	Standard    = validation.Standard
	Issue       = validation.Issue
	Report      = validation.Report
)

// FKB standards
const (
	StandardA = validation.StandardA
	StandardB = validation.StandardB
	StandardC = validation.StandardC
	StandardD = validation.StandardD
)

// Report status values
const (
	StatusPass     = validation.StatusPass
	StatusWarnings = validation.StatusWarnings
	StatusFail     = validation.StatusFail
	StatusError    = validation.StatusError
)

const zipScheme = "zip://"

// DefaultParseOptions returns parse options with defaults
func DefaultParseOptions() ParseOptions {
	return sosi.DefaultParseOptions()
}

// DefaultOptions returns validator options for a serial, non-strict FKB-B run
func DefaultOptions() Options {
	return validation.DefaultOptions()
}

// ParseStandard accepts "B", "b" or "FKB-B"
func ParseStandard(s string) (Standard, error) {
	return validation.ParseStandard(s)
}

// DefaultRules returns the rule tables embedded in the module
func DefaultRules() *Rules {
	return rules.Default()
}

// LoadRules reads the rule tables from dir. Tables that fail to load are
// unavailable; see Rules.LoadErrors.
func LoadRules(dir string, opts RuleOptions) *Rules {
	return rules.Load(dir, opts)
}

// NewValidator creates a validator. A nil rule database has no tables.
func NewValidator(db *Rules, opts Options) *Validator {
	return validation.New(db, opts)
}

// ParseFile parses a SOSI file. path may address a file inside a zip
// archive as "zip://archive.zip!entry.sos".
func ParseFile(path string, opts ParseOptions) (*Dataset, error) {
	if strings.HasPrefix(path, zipScheme) {
		return parseFromZip(path, opts)
	}
	return sosi.NewParser().ParseWithOptions(path, opts)
}

// parseFromZip streams one entry of a zip archive into the parser
func parseFromZip(zipURL string, opts ParseOptions) (*Dataset, error) {
	zipPath, entryPath, ok := strings.Cut(strings.TrimPrefix(zipURL, zipScheme), "!")
	if !ok || zipPath == "" || entryPath == "" {
		return nil, &SourceError{Path: zipURL, Err: errors.New("invalid zip URL (expected zip://path!entry)")}
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, &SourceError{Path: zipPath, Err: err}
	}
	defer r.Close()

	var entry *zip.File
	for _, f := range r.File {
		if f.Name == entryPath {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, &SourceError{Path: zipURL, Err: fmt.Errorf("file not found in zip: %s", entryPath)}
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, &SourceError{Path: zipURL, Err: err}
	}
	defer rc.Close()

	ds, err := sosi.NewParser().ParseReader(rc, opts)
	if err != nil {
		var se *SourceError
		if errors.As(err, &se) && se.Path == "" {
			se.Path = zipURL
		}
		return nil, err
	}
	ds.Source = zipURL
	return ds, nil
}

// ValidateFile parses and validates one file. A file that is not valid SOSI
// yields an ERROR report rather than an error; the error result is reserved
// for read failures and cancellation.
func ValidateFile(ctx context.Context, v *Validator, path string, opts ParseOptions) (*Report, error) {
	ds, err := ParseFile(path, opts)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			return v.ParseFailure(path, err), nil
		}
		return nil, err
	}
	return v.Validate(ctx, ds)
}

// EPSG returns the coordinate system code of the header, "unknown" when
// the header declares none
func EPSG(h *Header) string {
	if v, ok := h.CoordinateSystem(); ok && v.Text() != "" {
		return v.Text()
	}
	return "unknown"
}

// Package rules loads the FKB rule database.
//
// The database is six independent YAML tables. Each table is checked
// against a JSON schema and decoded on its own, so a missing or corrupt
// file disables only the validators that read it. A Database is immutable
// after loading and safe for concurrent use.
package rules

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultFiles embed.FS

// Table identifies one rule table
type Table int

const (
	MandatoryAttributes Table = iota
	GeometricRules
	AccuracyStandards
	TopologyRules
	MetadataRules
	SOSIFormatRules
)

// Tables lists every table in load order
var Tables = []Table{
	MandatoryAttributes,
	GeometricRules,
	AccuracyStandards,
	TopologyRules,
	MetadataRules,
	SOSIFormatRules,
}

var tableFiles = map[Table]string{
	MandatoryAttributes: "01-MANDATORY-ATTRIBUTES",
	GeometricRules:      "02-GEOMETRIC-RULES",
	AccuracyStandards:   "03-ACCURACY-STANDARDS",
	TopologyRules:       "04-TOPOLOGY-RULES",
	MetadataRules:       "05-METADATA-RULES",
	SOSIFormatRules:     "08-SOSI-FORMAT-RULES",
}

// File returns the YAML file name of the table
func (t Table) File() string {
	return tableFiles[t] + ".yaml"
}

func (t Table) String() string {
	switch t {
	case MandatoryAttributes:
		return "mandatory attributes"
	case GeometricRules:
		return "geometric rules"
	case AccuracyStandards:
		return "accuracy standards"
	case TopologyRules:
		return "topology rules"
	case MetadataRules:
		return "metadata rules"
	case SOSIFormatRules:
		return "SOSI format rules"
	default:
		return fmt.Sprintf("table(%d)", int(t))
	}
}

// LoadError records why one table is unavailable
type LoadError struct {
	Table Table
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rule table %s: %v", e.Table.File(), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadOptions configures rule loading
type LoadOptions struct {
	// Logger receives a warning for every table that fails to load.
	// Nil disables logging.
	Logger *slog.Logger
}

// Database holds the loaded rule tables. A nil table is unavailable.
type Database struct {
	Mandatory *MandatoryTable
	Geometric *GeometricTable
	Accuracy  *AccuracyTable
	Topology  *TopologyTable
	Metadata  *MetadataTable
	Format    *FormatTable

	errs []*LoadError
}

// Loaded reports whether a table is available
func (db *Database) Loaded(t Table) bool {
	if db == nil {
		return false
	}
	switch t {
	case MandatoryAttributes:
		return db.Mandatory != nil
	case GeometricRules:
		return db.Geometric != nil
	case AccuracyStandards:
		return db.Accuracy != nil
	case TopologyRules:
		return db.Topology != nil
	case MetadataRules:
		return db.Metadata != nil
	case SOSIFormatRules:
		return db.Format != nil
	}
	return false
}

// LoadErrors returns the failure of every unavailable table, in table order
func (db *Database) LoadErrors() []*LoadError {
	if db == nil {
		return nil
	}
	return append([]*LoadError(nil), db.errs...)
}

// Empty returns a database with no tables loaded
func Empty() *Database {
	return &Database{}
}

// Default returns the rule tables shipped with the module
func Default() *Database {
	sub, err := fs.Sub(defaultFiles, "defaults")
	if err != nil {
		panic(err)
	}
	return LoadFS(sub, LoadOptions{})
}

// Load reads the rule tables from a directory. It never fails as a whole;
// see Database.LoadErrors for tables that could not be loaded.
func Load(dir string, opts LoadOptions) *Database {
	return LoadFS(os.DirFS(dir), opts)
}

// LoadFS reads the rule tables from the root of fsys
func LoadFS(fsys fs.FS, opts LoadOptions) *Database {
	db := &Database{}
	for _, t := range Tables {
		if err := db.loadTable(fsys, t); err != nil {
			db.errs = append(db.errs, &LoadError{Table: t, Err: err})
			if opts.Logger != nil && opts.Logger.Enabled(context.Background(), slog.LevelWarn) {
				opts.Logger.LogAttrs(context.Background(), slog.LevelWarn, "rule table not loaded",
					slog.String("table", t.String()),
					slog.String("file", t.File()),
					slog.String("error", err.Error()))
			}
		}
	}
	return db
}

func (db *Database) loadTable(fsys fs.FS, t Table) error {
	data, err := fs.ReadFile(fsys, t.File())
	if err != nil {
		return errors.Wrapf(err, "read %s", t.File())
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, "parse %s", t.File())
	}
	if err := checkSchema(t, doc); err != nil {
		return errors.Wrapf(err, "check %s", t.File())
	}

	switch t {
	case MandatoryAttributes:
		var tbl MandatoryTable
		if err := decode(data, &tbl); err != nil {
			return err
		}
		tbl.index()
		db.Mandatory = &tbl
	case GeometricRules:
		var tbl GeometricTable
		if err := decode(data, &tbl); err != nil {
			return err
		}
		db.Geometric = &tbl
	case AccuracyStandards:
		var tbl AccuracyTable
		if err := decode(data, &tbl); err != nil {
			return err
		}
		db.Accuracy = &tbl
	case TopologyRules:
		var tbl TopologyTable
		if err := decode(data, &tbl); err != nil {
			return err
		}
		db.Topology = &tbl
	case MetadataRules:
		var tbl MetadataTable
		if err := decode(data, &tbl); err != nil {
			return err
		}
		db.Metadata = &tbl
	case SOSIFormatRules:
		var tbl FormatTable
		if err := decode(data, &tbl); err != nil {
			return err
		}
		db.Format = &tbl
	default:
		return errors.Errorf("unknown table %d", int(t))
	}
	return nil
}

func decode(data []byte, out any) error {
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}

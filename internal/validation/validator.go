package validation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/torsaan/fkb/internal/rules"
	"github.com/torsaan/fkb/internal/sosi"
)

// Category names of the per-feature validators, in report order
const (
	CategoryAttributes = "attributes"
	CategoryGeometry   = "geometry"
	CategoryAccuracy   = "accuracy"
	CategoryMetadata   = "metadata"
	CategoryCommon     = "common"
	CategoryOptional   = "optional_attrs"
	CategoryPilhoyde   = "pilhoyde"
	CategoryEncoding   = "encoding"
)

// Options configures a Validator
type Options struct {
	// Standard is the FKB standard letter; case and an "FKB-" prefix are
	// ignored. Empty means B. Anything outside A-D falls back to B and is
	// logged as a warning; use ParseStandard to reject such input instead.
	Standard Standard

	// Strict adds the unknown-attribute, pilhøyde and coordinate-encoding
	// checks.
	Strict bool

	// Workers is the number of goroutines validating features.
	// Values below 2 validate serially.
	Workers int

	// NetworkType names the network in dangling-endpoint messages.
	// Empty uses the topology table default.
	NetworkType string

	// Logger receives phase and summary logs. Nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns options for a serial, non-strict FKB-B run
func DefaultOptions() Options {
	return Options{
		Standard: DefaultStandard,
		Workers:  1,
	}
}

// Validator validates datasets against one rule database. It holds no
// per-run state and is safe for concurrent use.
type Validator struct {
	db   *rules.Database
	opts Options
}

// New creates a validator. A nil database behaves as one with no tables.
func New(db *rules.Database, opts Options) *Validator {
	if db == nil {
		db = rules.Empty()
	}
	std, err := ParseStandard(string(opts.Standard))
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("unknown FKB standard, using default",
				slog.String("standard", string(opts.Standard)),
				slog.String("default", string(DefaultStandard)))
		}
		std = DefaultStandard
	}
	opts.Standard = std
	return &Validator{db: db, opts: opts}
}

// Rules returns the rule database of the validator
func (v *Validator) Rules() *rules.Database {
	return v.db
}

// Options returns the normalised options of the validator
func (v *Validator) Options() Options {
	return v.opts
}

// ValidateFeature runs the per-feature validators on f. Categories without
// issues are omitted.
func (v *Validator) ValidateFeature(f *sosi.Feature, t sosi.Transform) []CategoryIssues {
	std := v.opts.Standard
	var out []CategoryIssues
	add := func(category string, issues []Issue) {
		if len(issues) > 0 {
			out = append(out, CategoryIssues{Category: category, Issues: issues})
		}
	}

	add(CategoryAttributes, ValidateMandatoryAttributes(f, v.db))
	add(CategoryGeometry, ValidateGeometry(f, v.db))
	add(CategoryAccuracy, ValidateAccuracy(f, v.db, std))
	add(CategoryMetadata, ValidateKvalitet(f, v.db))
	add(CategoryCommon, ValidateCommonAttributes(f))

	if v.opts.Strict {
		add(CategoryOptional, ValidateOptionalAttributes(f, v.db))
		add(CategoryPilhoyde, ValidatePilhoyde(f, v.db, std))
		if f.Geometry != nil {
			add(CategoryEncoding, ValidateCoordinateEncoding(RawCoordinates(f.Geometry, t), t, v.db))
		}
	}
	return out
}

// Validate validates a parsed dataset. It always returns a report unless
// ctx is cancelled.
func (v *Validator) Validate(ctx context.Context, ds *sosi.Dataset) (*Report, error) {
	r, err := v.ValidateFeatures(ctx, ds.Header, ds.Features, ds.Transform())
	if err != nil {
		return nil, err
	}
	r.Source = ds.Source
	for _, p := range ds.Problems {
		r.ParseProblems = append(r.ParseProblems, p.Error())
	}
	return r, nil
}

// ParseFailure returns the report for a source that could not be parsed.
// The cause is recorded as SOSI-011 in the header bucket.
func (v *Validator) ParseFailure(source string, err error) *Report {
	r := newReport(v.opts.Standard, v.opts.Strict)
	r.Source = source
	r.Error = err.Error()
	r.HeaderErrors = append(r.HeaderErrors, issue("SOSI-011", "File could not be parsed: %v", err))
	return r
}

// ValidateFeatures validates the header once, every feature, and then the
// topology of the whole feature list.
func (v *Validator) ValidateFeatures(ctx context.Context, header *sosi.Header, features []*sosi.Feature, t sosi.Transform) (*Report, error) {
	r := newReport(v.opts.Standard, v.opts.Strict)
	r.Summary.TotalFeatures = len(features)

	v.debug(ctx, "validating header")
	r.HeaderErrors = append(r.HeaderErrors, ValidateHeader(header, v.db)...)

	v.debug(ctx, "validating features", slog.Int("features", len(features)), slog.Int("workers", v.opts.Workers))
	results, err := v.validateAll(ctx, features, t)
	if err != nil {
		return nil, err
	}
	for i, cats := range results {
		if len(cats) == 0 {
			continue
		}
		f := features[i]
		fr := FeatureResult{
			Index:      i,
			ID:         f.ID,
			ObjectType: f.ObjectType,
			Line:       f.LineNumber,
			Categories: cats,
		}
		fr.ErrorCount, fr.WarningCount = count(fr.Issues())
		r.FeatureErrors = append(r.FeatureErrors, fr)
		r.Summary.TotalErrors += fr.ErrorCount
		r.Summary.TotalWarnings += fr.WarningCount
		if fr.ErrorCount > 0 {
			r.Summary.FeaturesWithErrors++
		}
	}

	v.debug(ctx, "validating topology")
	topo, err := v.validateTopology(ctx, features)
	if err != nil {
		return nil, err
	}
	r.TopologyErrors = append(r.TopologyErrors, topo...)
	errs, warns := count(topo)
	r.Summary.TotalErrors += errs
	r.Summary.TotalWarnings += warns

	if v.opts.Logger != nil && v.opts.Logger.Enabled(ctx, slog.LevelInfo) {
		v.opts.Logger.LogAttrs(ctx, slog.LevelInfo, "validation finished",
			slog.String("standard", string(v.opts.Standard)),
			slog.Int("features", r.Summary.TotalFeatures),
			slog.Int("header_issues", len(r.HeaderErrors)),
			slog.Int("errors", r.Summary.TotalErrors),
			slog.Int("warnings", r.Summary.TotalWarnings),
			slog.String("status", r.Status()))
	}
	return r, nil
}

// validateAll runs ValidateFeature over features, in parallel when
// configured, and returns the results in feature order
func (v *Validator) validateAll(ctx context.Context, features []*sosi.Feature, t sosi.Transform) ([][]CategoryIssues, error) {
	results := make([][]CategoryIssues, len(features))

	workers := v.opts.Workers
	if workers > len(features) {
		workers = len(features)
	}
	if workers < 2 {
		for i, f := range features {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = v.ValidateFeature(f, t)
		}
		return results, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// each worker writes only its own slots
				results[i] = v.ValidateFeature(features[i], t)
			}
		}()
	}

	var err error
send:
	for i := range features {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break send
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return results, nil
}

// validateTopology runs the network, shared-boundary and Type-2 checks.
// A missing topology table yields a single TOPO-000.
func (v *Validator) validateTopology(ctx context.Context, features []*sosi.Feature) ([]Issue, error) {
	if !v.db.Loaded(rules.TopologyRules) {
		return topologyNotLoaded(), nil
	}

	var issues []Issue
	issues = append(issues, ValidateNetwork(features, v.opts.NetworkType, v.db)...)

	shared, err := ValidateSharedBoundaries(ctx, features, v.db)
	if err != nil {
		return nil, err
	}
	issues = append(issues, shared...)

	byID := make(map[int64]*sosi.Feature, len(features))
	for _, f := range features {
		if _, dup := byID[f.ID]; !dup {
			byID[f.ID] = f
		}
	}
	for _, f := range features {
		if len(f.Refs) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var boundaries []*sosi.Feature
		for _, ref := range f.Refs {
			if b, ok := byID[ref.ID]; ok {
				boundaries = append(boundaries, b)
			}
		}
		for _, is := range ValidateType2Flate(f, boundaries, v.db) {
			is.Message = fmt.Sprintf("%s (flate %d)", is.Message, f.ID)
			issues = append(issues, is)
		}
	}
	return issues, nil
}

func (v *Validator) debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if v.opts.Logger != nil && v.opts.Logger.Enabled(ctx, slog.LevelDebug) {
		v.opts.Logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
	}
}

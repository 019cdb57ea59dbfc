package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/torsaan/fkb/pkg/fkb"
)

func safeParse(path string) (*fkb.Dataset, error) {
	ds, err := fkb.ParseFile(path, fkb.DefaultParseOptions())
	if err != nil {
		// Missing file, bad archive or undecodable bytes
		var se *fkb.SourceError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("cannot read %s: %w", se.Path, se.Err)
		}

		// Not a SOSI file
		var fe *fkb.FormatError
		if errors.As(err, &fe) {
			return nil, fmt.Errorf("%s is not valid SOSI (line %d): %s", path, fe.Line, fe.Reason)
		}
		return nil, err
	}

	// Features that could not be parsed are skipped and recorded
	for _, p := range ds.Problems {
		log.Printf("Warning: %s: %v", path, p)
	}
	return ds, nil
}

func main() {
	ds, err := safeParse("Bygning.sos")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}
	fmt.Printf("Successfully loaded %s: %d features\n", ds.Source, len(ds.Features))

	_, err = safeParse("NONEXISTENT.sos")
	if err != nil {
		log.Printf("Expected error: %v", err)
	}

	// A file that is not SOSI still produces a report, with status ERROR
	v := fkb.NewValidator(fkb.DefaultRules(), fkb.DefaultOptions())
	report, err := fkb.ValidateFile(context.Background(), v, "README.md", fkb.DefaultParseOptions())
	if err != nil {
		log.Printf("Read failure: %v", err)
		return
	}
	fmt.Printf("README.md: %s (%s)\n", report.Status(), report.Error)
}

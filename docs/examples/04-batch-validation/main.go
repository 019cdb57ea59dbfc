package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/torsaan/fkb/pkg/fkb"
)

func main() {
	paths, _ := filepath.Glob("data/*.sos")

	opts := fkb.DefaultOptions()
	opts.Workers = 4
	v := fkb.NewValidator(fkb.DefaultRules(), opts)

	// Validate files concurrently, reports come back in input order
	start := time.Now()
	reports, errs := fkb.ValidateFiles(context.Background(), v, paths, fkb.LoadOptions{
		Parallel:   true,
		Workers:    4,
		SkipErrors: true,
		ErrorLog:   os.Stderr,
		Progress: func(done, total int) {
			fmt.Printf("\r%d/%d", done, total)
		},
	})
	fmt.Printf("\nValidated %d files in %v (%d failed to load)\n", len(reports), time.Since(start), len(errs))

	for _, r := range reports {
		fmt.Printf("%-40s %s\n", r.Source, r.Status())
	}
}

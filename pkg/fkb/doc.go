// Package fkb parses Norwegian SOSI files and validates them against the
// FKB (Felles KartdataBase) product rules.
//
// # Basic Usage
//
//	ds, err := fkb.ParseFile("bygninger.sos", fkb.DefaultParseOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d features in EPSG:%s\n", len(ds.Features), fkb.EPSG(ds.Header))
//
// Files compressed with zstd or gzip are recognised by their magic bytes.
// A file inside a zip archive is addressed as "zip://archive.zip!path/in/zip.sos".
//
// # Validation
//
// A Validator checks a dataset against one rule database. The shipped
// defaults are embedded; a rules directory overrides them table by table.
//
//	v := fkb.NewValidator(fkb.DefaultRules(), fkb.Options{
//	    Standard: fkb.StandardB,
//	    Strict:   true,
//	    Workers:  runtime.NumCPU(),
//	})
//	report, err := fkb.ValidateFile(ctx, v, "bygninger.sos", fkb.DefaultParseOptions())
//	if err != nil {
//	    log.Fatal(err) // I/O failure or cancellation
//	}
//	fmt.Println(report.Status(), report.Summary.TotalErrors)
//
// A file that is not valid SOSI still yields a report: its status is ERROR
// and the cause is the SOSI-011 header issue.
//
// # Many Files
//
// ValidateFiles uses a worker pool and returns the reports in input order:
//
//	reports, errs := fkb.ValidateFiles(ctx, v, paths, fkb.LoadOptions{
//	    Parallel:   true,
//	    SkipErrors: true,
//	    Progress: func(done, total int) {
//	        fmt.Printf("\r%d/%d", done, total)
//	    },
//	})
//
// # GeoJSON
//
// ToGeoJSON converts the features of a dataset to a planar GeoJSON
// FeatureCollection. Heights are dropped.
package fkb

package main

import (
	"fmt"
	"log"

	"github.com/torsaan/fkb/pkg/fkb"
)

func main() {
	// Parse SOSI file
	ds, err := fkb.ParseFile("Bygning.sos", fkb.DefaultParseOptions())
	if err != nil {
		log.Fatal(err)
	}

	// Print dataset info
	fmt.Printf("File: %s\n", ds.Source)
	fmt.Printf("SOSI version: %s\n", ds.Header.Version())
	fmt.Printf("Coordinate system: EPSG:%s\n", fkb.EPSG(ds.Header))
	fmt.Printf("Features: %d\n", len(ds.Features))

	// Count object types
	counts := make(map[string]int)
	for _, f := range ds.Features {
		counts[f.ObjectType]++
	}
	for name, n := range counts {
		fmt.Printf("  %s: %d\n", name, n)
	}
}

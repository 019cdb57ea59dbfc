package main

import (
	"context"
	"fmt"
	"log"

	"github.com/torsaan/fkb/pkg/fkb"
)

func main() {
	opts := fkb.DefaultOptions()
	opts.Standard = fkb.StandardB
	opts.Strict = true

	v := fkb.NewValidator(fkb.DefaultRules(), opts)

	report, err := fkb.ValidateFile(context.Background(), v, "Bygning.sos", fkb.DefaultParseOptions())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Status: %s\n", report.Status())
	fmt.Printf("Features validated: %d\n", report.Summary.TotalFeatures)
	fmt.Printf("Errors: %d, warnings: %d\n", report.Summary.TotalErrors, report.Summary.TotalWarnings)

	for _, is := range report.HeaderErrors {
		fmt.Printf("header: %s\n", is)
	}
	for i := range report.FeatureErrors {
		fr := &report.FeatureErrors[i]
		for _, is := range fr.Issues() {
			fmt.Printf("%s %d: %s\n", fr.ObjectType, fr.ID, is)
		}
	}
	for _, is := range report.TopologyErrors {
		fmt.Printf("topology: %s\n", is)
	}
}

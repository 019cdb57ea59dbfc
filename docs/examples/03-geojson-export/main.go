package main

import (
	"log"
	"os"

	"github.com/torsaan/fkb/pkg/fkb"
)

func main() {
	// Files inside a zip archive are addressed with zip://archive!entry
	ds, err := fkb.ParseFile("zip://FKB-Bygning.zip!Bygning.sos", fkb.DefaultParseOptions())
	if err != nil {
		log.Fatal(err)
	}

	fc := fkb.ToGeoJSON(ds)
	data, err := fc.MarshalJSON()
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile("Bygning.geojson", data, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d of %d features", len(fc.Features), len(ds.Features))
}

package fkb

import (
	"github.com/paulmach/orb/geojson"

	"github.com/torsaan/fkb/internal/sosi"
)

// ToGeoJSON converts the features of ds into a FeatureCollection.
//
// Features without geometry are left out. The feature ID is the SOSI
// serial number; properties hold every attribute plus the KVALITET block
// as a nested object. The collection carries a named "crs" member
// "EPSG:<KOORDSYS>".
func ToGeoJSON(ds *Dataset) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{
		"crs": map[string]any{
			"type": "name",
			"properties": map[string]any{
				"name": "EPSG:" + EPSG(ds.Header),
			},
		},
	}

	for _, f := range ds.Features {
		if f.Geometry == nil {
			continue
		}
		gf := geojson.NewFeature(f.Geometry.Orb())
		gf.ID = f.ID
		gf.Properties = properties(f)
		fc.Append(gf)
	}
	return fc
}

func properties(f *Feature) geojson.Properties {
	props := make(geojson.Properties, len(f.Attributes)+1)
	for k, v := range f.Attributes {
		props[k] = jsonValue(v)
	}
	if f.Kvalitet != nil {
		kv := make(map[string]any, len(f.Kvalitet))
		for k, v := range f.Kvalitet {
			kv[k] = jsonValue(v)
		}
		props["KVALITET"] = kv
	}
	return props
}

// jsonValue maps a SOSI value to its natural JSON form
func jsonValue(v Value) any {
	switch v.Kind() {
	case sosi.KindAbsent:
		return nil
	case sosi.KindInt:
		i, _ := v.AsInt()
		return i
	case sosi.KindFloat:
		f, _ := v.AsFloat()
		return f
	case sosi.KindList:
		floats, _ := v.Floats()
		return floats
	default:
		return v.Text()
	}
}

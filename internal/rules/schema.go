package rules

import (
	"embed"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var (
	schemaOnce sync.Once
	schemas    map[Table]*gojsonschema.Schema
	schemaErr  error
)

func compileSchemas() {
	schemas = make(map[Table]*gojsonschema.Schema, len(Tables))
	for _, t := range Tables {
		name := "schemas/" + tableFiles[t] + ".json"
		content, err := schemaFiles.ReadFile(name)
		if err != nil {
			schemaErr = errors.Wrapf(err, "read schema %s", name)
			return
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
		if err != nil {
			schemaErr = errors.Wrapf(err, "compile schema %s", name)
			return
		}
		schemas[t] = s
	}
}

// checkSchema validates a decoded YAML document against the table schema
func checkSchema(t Table, doc any) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return schemaErr
	}

	result, err := schemas[t].Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.Wrap(err, "schema validation")
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.Errorf("schema violation: %s", strings.Join(msgs, "; "))
}

package validation

import (
	"strings"

	"github.com/torsaan/fkb/internal/rules"
	"github.com/torsaan/fkb/internal/sosi"
)

// Attributes every FKB object inherits from its supertype
var inheritedAttributes = []string{"DATAFANGSTDATO", "KVALITET"}

// Keys that never count as unknown attributes
var reservedAttributes = []string{"OBJTYPE", "KVALITET", "REF"}

// ValidateMandatoryAttributes checks that f carries every mandatory
// attribute of its object type, plus the attributes inherited from a
// supertype.
func ValidateMandatoryAttributes(f *sosi.Feature, db *rules.Database) []Issue {
	if !db.Loaded(rules.MandatoryAttributes) {
		return []Issue{issue("ATTR-000", "Rule database not loaded")}
	}

	def, ok := db.Mandatory.Lookup(f.ObjectType)
	if !ok {
		return []Issue{issue("ATTR-001", "Unknown OBJTYPE '%s'", f.ObjectType)}
	}

	var issues []Issue
	for _, attr := range def.Mandatory {
		if attr.Name == "" || f.Has(attr.Name) {
			continue
		}
		typ := attr.Type
		if typ == "" {
			typ = "unknown"
		}
		msg := issue("ATTR-002", "Missing mandatory attribute '%s' (type: %s) for %s. %s",
			attr.Name, typ, f.ObjectType, attr.Description)
		msg.Message = strings.TrimSpace(msg.Message)
		issues = append(issues, msg)
	}

	if def.Supertype != "" {
		for _, name := range inheritedAttributes {
			if !f.Has(name) {
				issues = append(issues, issue("ATTR-003",
					"Missing inherited attribute '%s' from supertype %s", name, def.Supertype))
			}
		}
	}
	return issues
}

// ValidateOptionalAttributes warns about attributes that are neither
// mandatory nor optional for the object type. Unknown object types are
// reported by ValidateMandatoryAttributes and yield no warnings here.
func ValidateOptionalAttributes(f *sosi.Feature, db *rules.Database) []Issue {
	if !db.Loaded(rules.MandatoryAttributes) {
		return []Issue{issue("ATTR-WARN-000", "Rule database not loaded")}
	}

	def, ok := db.Mandatory.Lookup(f.ObjectType)
	if !ok {
		return nil
	}

	known := def.Known()
	for _, name := range reservedAttributes {
		known[name] = true
	}
	for _, attr := range db.Mandatory.CommonAttributes {
		known[attr.Name] = true
	}

	var issues []Issue
	for _, name := range f.Attributes.Keys() {
		if known[name] {
			continue
		}
		issues = append(issues, issue("ATTR-WARN-001", "Unknown attribute '%s' for %s", name, f.ObjectType))
	}
	return issues
}

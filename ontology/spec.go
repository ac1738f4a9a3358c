package ontology

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/DecisionNerd/collie/errors"
)

// Document is the declarative ontology specification format: two tables,
// class definitions and relation definitions. When ExtendsCore is set the
// built-in CRM vocabulary is loaded first and the document's entries are
// appended, so a document can add project-specific classes and shortcuts
// without restating the core.
type Document struct {
	ExtendsCore bool       `json:"extends_core,omitempty"`
	Classes     []Class    `json:"classes"`
	Relations   []Relation `json:"relations"`
}

// documentSchema validates the structural shape of an ontology document
// before unmarshaling. Referential consistency (undeclared classes, cycles,
// inverse symmetry) is checked by Load afterwards.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "extends_core": {"type": "boolean"},
    "classes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["code"],
        "properties": {
          "code": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "parents": {"type": "array", "items": {"type": "string"}},
          "shortcuts": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["field", "relation"],
              "properties": {
                "field": {"type": "string", "minLength": 1},
                "relation": {"type": "string", "minLength": 1}
              }
            }
          }
        }
      }
    },
    "relations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["code", "domain", "range"],
        "properties": {
          "code": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "domain": {"type": "string", "minLength": 1},
          "range": {"type": "string", "minLength": 1},
          "inverse": {"type": "string"},
          "quantifier": {"type": "string", "pattern": "^[0-9]+\\.\\.([0-9]+|\\*)$"},
          "aliases": {"type": "array", "items": {"type": "string"}},
          "notes": {"type": "string"}
        }
      }
    }
  }
}`

// LoadJSON parses, schema-validates, and loads an ontology specification
// document. Schema violations and referential inconsistencies both surface
// as spec-classified errors; no partial registry is returned.
func LoadJSON(data []byte) (*Registry, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, errors.WrapSpec(err, "Registry", "LoadJSON", "schema validation")
	}
	if !result.Valid() {
		var b strings.Builder
		for _, desc := range result.Errors() {
			fmt.Fprintf(&b, "%s: %s; ", desc.Field(), desc.Description())
		}
		return nil, errors.WrapSpec(
			fmt.Errorf("%w: %s", errors.ErrInvalidConfig, strings.TrimSuffix(b.String(), "; ")),
			"Registry", "LoadJSON", "schema validation")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapSpec(err, "Registry", "LoadJSON", "document parsing")
	}

	classes := doc.Classes
	relations := doc.Relations
	if doc.ExtendsCore {
		classes = append(CoreClasses(), classes...)
		relations = append(CoreRelations(), relations...)
	}

	return Load(classes, relations)
}

// internal/screening/assemble/schema.go
package assemble

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"hiring-screener/internal/common/errors"
)

// formDocumentSchema is the gate every assembled document must pass before
// hand-off to the hosting API: a non-empty fields list, a string title,
// and type+title on every field.
const formDocumentSchema = `{
	"type": "object",
	"required": ["title", "fields"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"fields": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["type", "title"],
				"properties": {
					"type": {"type": "string", "minLength": 1},
					"title": {"type": "string", "minLength": 1},
					"ref": {"type": "string"},
					"properties": {"type": "object"}
				}
			}
		},
		"logic": {"type": "array"},
		"thankyou_screens": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["type", "title"],
				"properties": {
					"type": {"type": "string"},
					"title": {"type": "string"},
					"properties": {"type": "object"}
				}
			}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(formDocumentSchema)

// validateDocument runs the schema gate over the marshaled document and
// returns a StructureError naming every violation.
func validateDocument(doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.NewStructureError(fmt.Sprintf("document not marshalable: %v", err))
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.NewStructureError(fmt.Sprintf("schema validation failed: %v", err))
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return errors.NewStructureError(strings.Join(details, "; "))
	}

	return nil
}

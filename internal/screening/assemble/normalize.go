// internal/screening/assemble/normalize.go
package assemble

import (
	"encoding/json"

	"hiring-screener/internal/models"
)

// allowedFieldKeys is the top-level key allow-list for a question field in
// the hosting API's schema.
var allowedFieldKeys = map[string]bool{
	"id":          true,
	"ref":         true,
	"title":       true,
	"type":        true,
	"properties":  true,
	"validations": true,
	"attachment":  true,
}

// allowedProperties enumerates the property keys each field type accepts.
// Generated fields routinely carry extras (a number field with choices);
// everything outside the allow-list is stripped.
var allowedProperties = map[string]map[string]bool{
	models.FieldTypeNumber: {
		"description": true,
	},
	models.FieldTypeShortText: {
		"description": true,
	},
	models.FieldTypeEmail: {
		"description": true,
	},
	models.FieldTypePhoneNumber: {
		"description": true,
	},
	models.FieldTypeMultipleChoice: {
		"description":               true,
		"choices":                   true,
		"allow_multiple_selections": true,
		"allow_other_choice":        true,
	},
}

// allowedScreenKeys is the key allow-list for a terminal screen.
var allowedScreenKeys = map[string]bool{
	"ref":        true,
	"title":      true,
	"type":       true,
	"properties": true,
}

// NormalizeRawField converts one loosely shaped field dictionary, as
// produced by the text-completion oracle, into the strict wire shape:
// question renamed to title, choices relocated under properties, property
// keys filtered per field type, unknown keys dropped, and a properties map
// guaranteed even when empty.
func NormalizeRawField(raw map[string]interface{}) map[string]interface{} {
	field := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		field[k] = v
	}

	if q, ok := field["question"]; ok {
		if _, hasTitle := field["title"]; !hasTitle {
			field["title"] = q
		}
		delete(field, "question")
	}

	props, _ := field["properties"].(map[string]interface{})
	if props == nil {
		props = map[string]interface{}{}
	}
	if choices, ok := field["choices"]; ok {
		props["choices"] = choices
		delete(field, "choices")
	}
	field["properties"] = props

	fieldType, _ := field["type"].(string)
	if allowed, ok := allowedProperties[fieldType]; ok {
		for k := range props {
			if !allowed[k] {
				delete(props, k)
			}
		}
	}

	for k := range field {
		if !allowedFieldKeys[k] {
			delete(field, k)
		}
	}

	return field
}

// DecodeRawFields normalizes a batch of loose field dictionaries and
// decodes them into typed question fields.
func DecodeRawFields(raws []map[string]interface{}) ([]models.QuestionField, error) {
	normalized := make([]map[string]interface{}, 0, len(raws))
	for _, raw := range raws {
		normalized = append(normalized, NormalizeRawField(raw))
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}
	var fields []models.QuestionField
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	// json.Unmarshal leaves Properties nil for `"properties": {}` only
	// when the key was absent; the normalizer guarantees presence, but a
	// typed round trip must keep the invariant too.
	for i := range fields {
		if fields[i].Properties == nil {
			fields[i].Properties = map[string]interface{}{}
		}
	}
	return fields, nil
}

// NormalizeScreen forces a terminal screen into the accepted shape: the
// fixed type tag, a title, show_button defaulting to false, any top-level
// redirect target relocated into properties, and unknown keys dropped.
func NormalizeScreen(screen models.ThankyouScreen) models.ThankyouScreen {
	screen.Type = models.ThankyouScreenType
	if screen.Title == "" {
		screen.Title = "Thank you!"
	}
	if screen.Properties == nil {
		screen.Properties = map[string]interface{}{}
	}
	if _, ok := screen.Properties["show_button"]; !ok {
		screen.Properties["show_button"] = false
	}
	return screen
}

// NormalizeRawScreen applies the same screen rules to a loose dictionary,
// for screens that arrive from the oracle rather than from our own code.
func NormalizeRawScreen(raw map[string]interface{}) map[string]interface{} {
	screen := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		screen[k] = v
	}

	screen["type"] = models.ThankyouScreenType
	delete(screen, "message")
	delete(screen, "button")

	if _, ok := screen["title"]; !ok {
		screen["title"] = "Thank you!"
	}

	props, _ := screen["properties"].(map[string]interface{})
	if props == nil {
		props = map[string]interface{}{}
	}
	if redirect, ok := screen["redirect_url"]; ok {
		props["redirect_url"] = redirect
		delete(screen, "redirect_url")
	}
	if _, ok := props["show_button"]; !ok {
		props["show_button"] = false
	}
	screen["properties"] = props

	for k := range screen {
		if !allowedScreenKeys[k] {
			delete(screen, k)
		}
	}

	return screen
}

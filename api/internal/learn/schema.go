package learn

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const learningSchema = `{
	"type": "object",
	"properties": {
		"explanation": {"type": "string"},
		"examples": {"type": "array", "items": {"type": "string"}},
		"keyPoints": {"type": "array", "items": {"type": "string"}},
		"furtherReading": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["explanation", "examples", "keyPoints"]
}`

const practiceSchema = `{
	"type": "object",
	"properties": {
		"problems": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"question": {"type": "string"},
					"options": {"type": "array", "items": {"type": "string"}},
					"answer": {"type": "string"},
					"explanation": {"type": "string"},
					"hint": {"type": "string"}
				},
				"required": ["question", "answer", "explanation"]
			}
		},
		"topic": {"type": "string"},
		"difficulty": {"type": "string"}
	},
	"required": ["problems"]
}`

// validateSchema checks raw JSON against schema. An empty schema accepts anything.
func validateSchema(schema string, raw []byte) error {
	if schema == "" {
		return nil
	}
	res, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
	}
	return nil
}

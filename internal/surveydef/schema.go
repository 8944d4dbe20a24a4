package surveydef

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const documentSchemaURL = "schema://survey-template.json"

// documentSchema describes the structure of a survey template document.
// Semantic checks (answer keys, responses per kind) live in
// questiontree.Validate.
var documentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":   map[string]any{"type": "string"},
		"version": map[string]any{"type": "string"},
		"pages": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"questions": map[string]any{
						"type":  "array",
						"items": map[string]any{"$ref": "#/$defs/question"},
					},
				},
				"required":             []any{"questions"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"pages"},
	"additionalProperties": false,
	"$defs": map[string]any{
		"question": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"kind": map[string]any{
					"enum": []any{"Instruction", "MultipleChoice", "Ranked", "Text"},
				},
				"text": map[string]any{"type": "string"},
				"responses": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"params": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
				// Scalar follow-up values are accepted here and decode to
				// an ignored entry; questiontree.Validate warns about them.
				"followUps": map[string]any{
					"type": "object",
					"additionalProperties": map[string]any{
						"anyOf": []any{
							map[string]any{"$ref": "#/$defs/question"},
							map[string]any{
								"type": "array",
								"items": map[string]any{
									"anyOf": []any{
										map[string]any{"$ref": "#/$defs/question"},
										map[string]any{"$ref": "#/$defs/scalar"},
									},
								},
							},
							map[string]any{"$ref": "#/$defs/scalar"},
						},
					},
				},
			},
			"required":             []any{"kind", "text"},
			"additionalProperties": false,
		},
		"scalar": map[string]any{
			"type": []any{"string", "number", "boolean", "null"},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledSchema compiles documentSchema on first use.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go maps with typed slices.
		raw, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal template schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileErr = fmt.Errorf("parse template schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(documentSchemaURL)
	})
	return compiled, compileErr
}

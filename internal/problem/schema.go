package problem

// bankSchema is the JSON Schema every problem bank document must satisfy.
var bankSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{
			"type":    "integer",
			"minimum": 1,
		},
		"problems": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    problemSchema,
		},
	},
	"required":             []any{"version", "problems"},
	"additionalProperties": false,
}

var problemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id": map[string]any{
			"type":        "string",
			"description": "Stable identifier. Generated when omitted.",
		},
		"title":  map[string]any{"type": "string", "minLength": 1},
		"prompt": map[string]any{"type": "string", "minLength": 1},
		"topic":  map[string]any{"type": "string"},
		"kind": map[string]any{
			"type": "string",
			"enum": []any{"text", "number", "list"},
		},
		"expected": map[string]any{
			"description": "A string, a number, or an array of strings matching kind.",
			"oneOf": []any{
				map[string]any{"type": "string"},
				map[string]any{"type": "number"},
				map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"type": "string"},
				},
			},
		},
		"tolerance": map[string]any{
			"type":    "number",
			"minimum": 0,
		},
		"hints": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "string", "minLength": 1},
					"text": map[string]any{"type": "string", "minLength": 1},
				},
				"required":             []any{"id", "text"},
				"additionalProperties": false,
			},
		},
		"solution": map[string]any{"type": "string"},
		"difficulty": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": 5,
		},
	},
	"required":             []any{"title", "prompt", "kind", "expected", "difficulty"},
	"additionalProperties": false,
}

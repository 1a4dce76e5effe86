package bank

// bankSchema is the JSON Schema a raw bank document must satisfy before
// normalization. It checks structure only; answer-to-index mapping and the
// non-empty-correct-set invariant are enforced by the normalizer, which can
// produce per-question errors the schema cannot express.
var bankSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"exam_info": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":           map[string]any{"type": "string"},
				"total_questions": map[string]any{"type": "integer"},
				"topics": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"title"},
		},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":       map[string]any{"type": "integer"},
					"question": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items":    map[string]any{"type": "string"},
					},
					// Literal answer text, an index, or a list of either.
					"correctAnswer": map[string]any{
						"type": []any{"string", "integer", "array"},
					},
					"correct_answer": map[string]any{
						"type": []any{"string", "integer", "array"},
					},
					"explanation": map[string]any{"type": "string"},
					"topic":       map[string]any{"type": "string", "minLength": 1},
					"exhibit":     map[string]any{"type": "string"},
				},
				"required": []any{"id", "question", "options", "topic"},
			},
		},
	},
	"required": []any{"exam_info", "questions"},
}

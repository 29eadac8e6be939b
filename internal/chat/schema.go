package chat

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Recipe is one structured recipe suggestion.
type Recipe struct {
	Title         string   `json:"title"`
	Ingredients   []string `json:"ingredients"`
	Steps         []string `json:"steps"`
	EstimatedTime string   `json:"estimatedTime,omitempty"`
	Servings      int      `json:"servings,omitempty"`
}

// Reply is the structured shape the assistant must produce. Command carries a
// navigation instruction ("navigate") with Payload as the target route.
type Reply struct {
	ReplyText  string   `json:"replyText"`
	Recipes    []Recipe `json:"recipes"`
	SafetyTips []string `json:"safetyTips"`
	Command    *string  `json:"command"`
	Payload    *string  `json:"payload,omitempty"`
}

// ReplySchema is fed both to the model as the response schema and to the
// validator on the way back.
var ReplySchema = map[string]any{
	"type":     "object",
	"required": []any{"replyText"},
	"properties": map[string]any{
		"replyText": map[string]any{"type": "string"},
		"recipes": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"title", "ingredients", "steps"},
				"properties": map[string]any{
					"title":         map[string]any{"type": "string"},
					"ingredients":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"steps":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"estimatedTime": map[string]any{"type": "string"},
					"servings":      map[string]any{"type": "integer"},
				},
			},
		},
		"safetyTips": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"command": map[string]any{"type": []any{"string", "null"}},
		"payload": map[string]any{"type": []any{"string", "null"}},
	},
}

// ValidateReply validates raw model output against ReplySchema.
func ValidateReply(data []byte) error {
	b, err := json.Marshal(ReplySchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("reply.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("reply.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal reply: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("reply does not match schema: %w", err)
	}
	return nil
}

// ParseReply leniently extracts the structured reply from model output. The
// model is asked for bare JSON, but fenced or prose-wrapped output still
// happens, so look for the outermost object before giving up.
func ParseReply(text string) (*Reply, error) {
	candidates := extractJSONCandidates(text)
	for _, c := range candidates {
		if err := ValidateReply([]byte(c)); err != nil {
			continue
		}
		var r Reply
		if err := json.Unmarshal([]byte(c), &r); err != nil {
			continue
		}
		if r.Recipes == nil {
			r.Recipes = []Recipe{}
		}
		if r.SafetyTips == nil {
			r.SafetyTips = []string{}
		}
		return &r, nil
	}
	return nil, fmt.Errorf("no valid reply object in model output")
}

package chat

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

// Turn is one prior exchange message. Role is "user" or "model".
type Turn struct {
	Role    string
	Content string
}

// Generator produces the raw model output for a conversation. Narrow on
// purpose so the service can be tested without the Gemini SDK.
type Generator interface {
	Generate(ctx context.Context, system string, history []Turn, message string) (string, error)
}

// GeminiClient implements Generator over the Google Gemini SDK with
// structured JSON output.
type GeminiClient struct {
	client *genai.Client
	cfg    common.ChatConfig
}

func NewGeminiClient(ctx context.Context, cfg common.ChatConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, cfg: cfg}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, system string, history []Turn, message string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(c.cfg.MaxTokens),
		ResponseMIMEType: "application/json",
		ResponseSchema:   buildSchema(ReplySchema),
	}
	if c.cfg.Temperature > 0 {
		temp := c.cfg.Temperature
		config.Temperature = &temp
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		role := "user"
		if t.Role == "model" || t.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: message}},
	})

	result, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return result.Text(), nil
}

// buildSchema converts a JSON Schema definition map to a genai.Schema.
// Nullable union types like ["string","null"] collapse to the non-null type.
func buildSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	switch t := def["type"].(type) {
	case string:
		schema.Type = mapType(t)
	case []any:
		for _, u := range t {
			if s, ok := u.(string); ok && s != "null" {
				schema.Type = mapType(s)
				nullable := true
				schema.Nullable = &nullable
				break
			}
		}
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for k, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				schema.Properties[k] = buildSchema(propDef)
			}
		}
	}

	if req, ok := def["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildSchema(items)
	}

	return schema
}

func mapType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// Package foods holds the per-food prediction flows: one predictor per food
// type, each a straight-line sequence of validate, rules, encode, classify,
// compose. The encoding tables and rule thresholds live here as static data;
// the mechanics they parameterize live in feature, rules, and classifier.
package foods

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/verdict"
)

// Predictor is the uniform contract a food endpoint drives. Payload is the
// decoded request body; field names and value domains are food-specific.
type Predictor interface {
	Food() constants.FoodType
	Predict(ctx context.Context, payload map[string]any) (*verdict.Verdict, error)
}

// requireFields reports every missing required field in one error, the way
// callers expect ("Missing required fields for milk: a, b").
func requireFields(payload map[string]any, food constants.FoodType, fields ...string) error {
	var missing []string
	for _, f := range fields {
		if _, ok := payload[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return common.ValidationErrorf("missing required fields for %s: %s",
			strings.ToLower(string(food)), strings.Join(missing, ", "))
	}
	return nil
}

// numField parses a numeric field that may arrive as a JSON number or a
// numeric string.
func numField(payload map[string]any, field string) (float64, error) {
	v, ok := payload[field]
	if !ok {
		return 0, common.FieldError(field, "is required")
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, common.FieldError(field, "must be a number")
		}
		return f, nil
	default:
		return 0, common.FieldError(field, "must be a number")
	}
}

// nonNegativeField parses a numeric field and rejects negative values.
func nonNegativeField(payload map[string]any, field string) (float64, error) {
	f, err := numField(payload, field)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, common.FieldError(field, "cannot be negative")
	}
	return f, nil
}

// enumField parses a categorical field against its closed enumeration.
func enumField(payload map[string]any, field string, levels []string) (string, error) {
	v, ok := payload[field]
	if !ok {
		return "", common.FieldError(field, "is required")
	}
	s, ok := v.(string)
	if !ok {
		return "", common.FieldError(field, "must be a string")
	}
	for _, l := range levels {
		if s == l {
			return s, nil
		}
	}
	return "", common.FieldError(field, fmt.Sprintf("has invalid value %q (expected one of: %s)",
		s, strings.Join(levels, ", ")))
}

// boolField accepts the permissive truthy forms clients send: booleans,
// numbers, and strings like "true"/"yes"/"Yes".
func boolField(payload map[string]any, field string) (bool, error) {
	v, ok := payload[field]
	if !ok {
		return false, common.FieldError(field, "is required")
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "yes", nil
	default:
		return false, common.FieldError(field, "must be a boolean")
	}
}

// optionalEnumField is enumField for fields that may be absent entirely.
func optionalEnumField(payload map[string]any, field string, levels []string) (string, bool, error) {
	if _, ok := payload[field]; !ok {
		return "", false, nil
	}
	v, err := enumField(payload, field, levels)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

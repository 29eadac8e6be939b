// Package feature turns validated food observations into the fixed-order
// numeric vectors the trained classifiers expect. Encoding is a pure function
// of the observation plus static per-food tables: ordinal categoricals encode
// to their rank, nominal categoricals expand to named indicator columns, and a
// designated column subset may be standardized by an artifact-backed scaler.
package feature

import (
	"encoding/json"
	"os"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

// Schema is the feature-vector contract for one food's classifier: the exact
// column order it was trained with, and the subset of columns the scaler
// standardizes before the vector is finalized.
type Schema struct {
	Columns []string `json:"columns"`
	Scaled  []string `json:"scaled,omitempty"`
}

// LoadSchema reads a column-order artifact (paneer and roti ship theirs as
// JSON next to the model instead of hard-coding it).
func LoadSchema(path string) (Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, common.ConfigurationErrorf("read schema %s: %v", path, err)
	}
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return Schema{}, common.ConfigurationErrorf("decode schema %s: %v", path, err)
	}
	if len(s.Columns) == 0 {
		return Schema{}, common.ConfigurationErrorf("schema %s has no columns", path)
	}
	return s, nil
}

// Vector aligns named feature values to the schema's column order, applying
// the scaler to the scaled subset. Columns absent from values default to 0,
// mirroring the fillna(0) alignment the models were trained against.
func (s Schema) Vector(values map[string]float64, sc *Scaler) ([]float64, error) {
	scaled := make(map[string]bool, len(s.Scaled))
	for _, c := range s.Scaled {
		if sc == nil {
			return nil, common.ConfigurationErrorf("schema requires scaler for column %q but none is loaded", c)
		}
		scaled[c] = true
	}

	out := make([]float64, len(s.Columns))
	for i, col := range s.Columns {
		v := values[col]
		if scaled[col] {
			t, ok := sc.Transform(col, v)
			if !ok {
				return nil, common.ConfigurationErrorf("scaler has no parameters for column %q", col)
			}
			v = t
		}
		out[i] = v
	}
	return out, nil
}

// Ordinal returns the rank of v within levels; index position is the rank
// (0 = least severe). The second return is false when v is not a level.
func Ordinal(levels []string, v string) (float64, bool) {
	for i, l := range levels {
		if l == v {
			return float64(i), true
		}
	}
	return 0, false
}

// Indicator is a one-hot cell: 1 when the observed category matches the
// column's category, else 0.
func Indicator(v, category string) float64 {
	if v == category {
		return 1
	}
	return 0
}

// OneHot writes "<field>_<category>" indicator columns into values for every
// listed category. At most one cell is set; an observed value outside the
// listed categories leaves every indicator at zero (implicit base category).
func OneHot(values map[string]float64, field, v string, categories ...string) {
	for _, c := range categories {
		values[field+"_"+c] = Indicator(v, c)
	}
}

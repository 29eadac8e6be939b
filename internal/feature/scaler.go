package feature

import (
	"encoding/json"
	"os"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

// Scaler standardizes designated columns with mean/scale parameters exported
// from the training pipeline. Parameters are positional: Mean[i] and Scale[i]
// belong to Columns[i].
type Scaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`

	index map[string]int
}

// LoadScaler reads a scaler artifact (JSON sidecar exported alongside the
// model). A malformed artifact is a configuration failure for that food only.
func LoadScaler(path string) (*Scaler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.ConfigurationErrorf("read scaler %s: %v", path, err)
	}
	var sc Scaler
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, common.ConfigurationErrorf("decode scaler %s: %v", path, err)
	}
	if err := sc.init(); err != nil {
		return nil, common.ConfigurationErrorf("scaler %s: %v", path, err)
	}
	return &sc, nil
}

// NewScaler builds a scaler from in-memory parameters (tests).
func NewScaler(columns []string, mean, scale []float64) (*Scaler, error) {
	sc := &Scaler{Columns: columns, Mean: mean, Scale: scale}
	if err := sc.init(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *Scaler) init() error {
	if len(sc.Columns) == 0 {
		return common.ValidationErrorf("scaler has no columns")
	}
	if len(sc.Mean) != len(sc.Columns) || len(sc.Scale) != len(sc.Columns) {
		return common.ValidationErrorf("scaler parameter lengths do not match columns (%d columns, %d means, %d scales)",
			len(sc.Columns), len(sc.Mean), len(sc.Scale))
	}
	for i, s := range sc.Scale {
		if s == 0 {
			return common.ValidationErrorf("scaler column %q has zero scale", sc.Columns[i])
		}
	}
	sc.index = make(map[string]int, len(sc.Columns))
	for i, c := range sc.Columns {
		sc.index[c] = i
	}
	return nil
}

// Transform standardizes one value. The second return is false when the
// scaler carries no parameters for the column.
func (sc *Scaler) Transform(column string, v float64) (float64, bool) {
	i, ok := sc.index[column]
	if !ok {
		return v, false
	}
	return (v - sc.Mean[i]) / sc.Scale[i], true
}

// Covers reports whether the scaler has parameters for the column.
func (sc *Scaler) Covers(column string) bool {
	_, ok := sc.index[column]
	return ok
}

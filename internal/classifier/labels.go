package classifier

import (
	"encoding/json"
	"os"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

// Labels maps model class indices back to string labels. Dal's training
// pipeline label-encodes its target and exports the class list alongside the
// model; the index order here must match that encoder.
type Labels struct {
	Classes []string `json:"classes"`
}

// LoadLabels reads a label-encoder dump.
func LoadLabels(path string) (*Labels, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.ConfigurationErrorf("read labels %s: %v", path, err)
	}
	var l Labels
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, common.ConfigurationErrorf("decode labels %s: %v", path, err)
	}
	if len(l.Classes) == 0 {
		return nil, common.ConfigurationErrorf("labels %s has no classes", path)
	}
	return &l, nil
}

// Label resolves a class index. The second return is false for indices the
// encoder never produced; callers treat those as unknown and unsafe.
func (l *Labels) Label(i int) (string, bool) {
	if i < 0 || i >= len(l.Classes) {
		return "", false
	}
	return l.Classes[i], true
}

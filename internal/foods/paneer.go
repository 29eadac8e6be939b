package foods

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/classifier"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/feature"
	"github.com/anna-sampada/spoilage-backend/internal/verdict"
)

// PaneerDaysCap is the absolute ceiling in days since purchase or cooking.
const PaneerDaysCap = 14

// Paneer status tags include guidance in the tag itself; that is the shape
// clients were built against.
const (
	paneerStatusFresh   constants.VerdictStatus = "Fresh"
	paneerStatusGood    constants.VerdictStatus = "Good (Use Soon)"
	paneerStatusStale   constants.VerdictStatus = "Stale (Use with Caution)"
	paneerStatusSpoiled constants.VerdictStatus = "Spoiled (Do Not Eat)"
)

// paneerSpoiledCode is the first class index that is unsafe to eat.
const paneerSpoiledCode = 3

var (
	paneerSmellLevels   = []string{"Normal/Sweetish", "Sour/Acidic", "Foul/Ammoniacal", "Soapy/Rancid"}
	paneerTextureLevels = []string{"Normal/Firm", "Hard/Rubbery", "Slimy/Sticky"}
	paneerCookedLevels  = []string{"Cooked (in a dish)", "Raw (in a block)"}
	paneerTypeLevels    = []string{"Packaged/Branded", "Loose/Local"}
	paneerStorageLevels = []string{"Refrigerator", "Room Temperature"}
	paneerContainers    = []string{"Airtight container", "Original packaging", "Submerged in water"}
)

var paneerStatuses = map[int]constants.VerdictStatus{
	0: paneerStatusFresh,
	1: paneerStatusGood,
	2: paneerStatusStale,
	3: paneerStatusSpoiled,
}

// paneerConfig mirrors the artifact layout: the config file names the model
// and the trained column list, so redeploying a retrained model is a data
// change only.
type paneerConfig struct {
	ModelFile   string `json:"model_file"`
	ColumnsFile string `json:"columns_file"`
}

type paneerObservation struct {
	Days         float64
	IsCooked     string
	PaneerType   string
	Storage      string
	Smell        string
	Texture      string
	RawContainer string
	HasContainer bool
}

// Paneer predicts paneer spoilage with a config-driven column schema.
type Paneer struct {
	model  classifier.Model
	schema feature.Schema
	logger *slog.Logger
}

// NewPaneer loads the paneer artifacts named by the food's config file.
func NewPaneer(dir string, logger *slog.Logger) (*Paneer, error) {
	base := filepath.Join(dir, "paneer")
	raw, err := os.ReadFile(filepath.Join(base, "config.json"))
	if err != nil {
		return nil, common.ConfigurationErrorf("read paneer config: %v", err)
	}
	var cfg paneerConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, common.ConfigurationErrorf("decode paneer config: %v", err)
	}
	if cfg.ModelFile == "" || cfg.ColumnsFile == "" {
		return nil, common.ConfigurationErrorf("paneer config must name model_file and columns_file")
	}

	model, err := classifier.LoadEnsemble(filepath.Join(base, cfg.ModelFile))
	if err != nil {
		return nil, err
	}
	schema, err := feature.LoadSchema(filepath.Join(base, cfg.ColumnsFile))
	if err != nil {
		return nil, err
	}
	return &Paneer{model: model, schema: schema, logger: logger}, nil
}

func (p *Paneer) Food() constants.FoodType { return constants.FoodPaneer }

func (p *Paneer) Predict(_ context.Context, payload map[string]any) (*verdict.Verdict, error) {
	obs, err := parsePaneer(payload)
	if err != nil {
		return nil, err
	}

	if obs.Days > PaneerDaysCap {
		return &verdict.Verdict{
			Status:         paneerStatusSpoiled,
			Message:        fmt.Sprintf("Paneer is unsafe after %d days. Do not consume.", PaneerDaysCap),
			IsSafe:         verdict.Safe(false),
			Confidence:     verdict.RuleConfidence,
			PredictionCode: verdict.Code(paneerSpoiledCode),
		}, nil
	}

	vec, err := p.encode(obs)
	if err != nil {
		return nil, err
	}
	res, err := p.model.Predict(vec)
	if err != nil {
		return nil, err
	}

	status, ok := paneerStatuses[res.Class]
	if !ok {
		status = constants.StatusUnknown
	}
	return &verdict.Verdict{
		Status:         status,
		Message:        fmt.Sprintf("Prediction: %s. Confidence: %s", status, verdict.FormatConfidence(res.Confidence)),
		IsSafe:         verdict.Safe(ok && res.Class < paneerSpoiledCode),
		Confidence:     verdict.FormatConfidence(res.Confidence),
		PredictionCode: verdict.Code(res.Class),
	}, nil
}

func parsePaneer(payload map[string]any) (paneerObservation, error) {
	if err := requireFields(payload, constants.FoodPaneer,
		"days_since_purchase_or_cooked", "is_cooked", "paneer_type",
		"storage_location", "observed_smell", "texture_surface"); err != nil {
		return paneerObservation{}, err
	}

	var obs paneerObservation
	var err error

	if obs.Days, err = nonNegativeField(payload, "days_since_purchase_or_cooked"); err != nil {
		return obs, err
	}
	if obs.IsCooked, err = enumField(payload, "is_cooked", paneerCookedLevels); err != nil {
		return obs, err
	}
	if obs.PaneerType, err = enumField(payload, "paneer_type", paneerTypeLevels); err != nil {
		return obs, err
	}
	if obs.Storage, err = enumField(payload, "storage_location", paneerStorageLevels); err != nil {
		return obs, err
	}
	if obs.Smell, err = enumField(payload, "observed_smell", paneerSmellLevels); err != nil {
		return obs, err
	}
	if obs.Texture, err = enumField(payload, "texture_surface", paneerTextureLevels); err != nil {
		return obs, err
	}
	if obs.RawContainer, obs.HasContainer, err = optionalEnumField(payload, "storage_container_raw", paneerContainers); err != nil {
		return obs, err
	}
	return obs, nil
}

// encode writes ordinal ranks under their trained column names and indicator
// cells as "<field>_<value>"; alignment to the config-driven column list
// drops baseline categories the training dummies excluded.
func (p *Paneer) encode(obs paneerObservation) ([]float64, error) {
	smell, _ := feature.Ordinal(paneerSmellLevels, obs.Smell)
	texture, _ := feature.Ordinal(paneerTextureLevels, obs.Texture)

	vals := map[string]float64{
		"days_since_purchase_or_cooked": obs.Days,
		"observed_smell":                smell,
		"texture_surface":               texture,
	}
	feature.OneHot(vals, "is_cooked", obs.IsCooked, paneerCookedLevels...)
	feature.OneHot(vals, "paneer_type", obs.PaneerType, paneerTypeLevels...)
	feature.OneHot(vals, "storage_location", obs.Storage, paneerStorageLevels...)
	if obs.HasContainer {
		feature.OneHot(vals, "storage_container_raw", obs.RawContainer, paneerContainers...)
	}

	return p.schema.Vector(vals, nil)
}

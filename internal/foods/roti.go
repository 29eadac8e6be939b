package foods

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/classifier"
	"github.com/anna-sampada/spoilage-backend/internal/feature"
	"github.com/anna-sampada/spoilage-backend/internal/rules"
	"github.com/anna-sampada/spoilage-backend/internal/verdict"
)

// RotiHoursCap is the absolute ceiling; roti does not survive past 72 hours
// under any storage.
const RotiHoursCap = 72

var (
	rotiStorageLevels    = []string{"Room Temperature", "Refrigerator", "Freezer", "Open Counter", "Lunchbox"}
	rotiContainerLevels  = []string{"Airtight Box", "Aluminium Foil Wrap", "Cloth/Basket", "Ziploc Bag", "Open Plate"}
	rotiFatLevels        = []string{"Low (0-5%)", "Medium (5-10%)", "High (>10%)"}
	rotiSeasonLevels     = []string{"Warm & Humid", "Cool & Dry", "Neutral", "Monsoon (Very Humid)"}
	rotiTextureLevels    = []string{"Soft & Pliable", "Slightly Hardened", "Dry & Brittle", "Slimy/Sticky", "Fuzzy/Mold"}
	rotiAppearanceLevels = []string{"Golden Brown", "Lightly Spotted", "Dark Patches", "Oil Separation/Condensation", "Visible Fuzz/Growth"}
)

type rotiObservation struct {
	TimeHours  float64
	Storage    string
	Container  string
	Fat        string
	Season     string
	Texture    string
	Appearance string
}

var rotiRules = []rules.Rule[rotiObservation]{
	{
		Name:  "absolute_ceiling",
		Fires: func(o rotiObservation) bool { return o.TimeHours > RotiHoursCap },
		Reason: func(rotiObservation) string {
			return fmt.Sprintf("time since cooking exceeds the absolute safe limit of %d hours", RotiHoursCap)
		},
	},
	{
		Name: "mold_or_slime_texture",
		Fires: func(o rotiObservation) bool {
			return o.Texture == "Slimy/Sticky" || o.Texture == "Fuzzy/Mold"
		},
		Reason: func(o rotiObservation) string {
			return fmt.Sprintf("reported %s texture, a spoilage-defining observation", o.Texture)
		},
	},
	{
		Name:  "visible_growth",
		Fires: func(o rotiObservation) bool { return o.Appearance == "Visible Fuzz/Growth" },
		Reason: func(rotiObservation) string {
			return "visible fuzz or growth on the roti"
		},
	},
}

// Roti predicts roti spoilage. The trained pipeline owns the one-hot layout,
// so the column order ships as an artifact next to the model.
type Roti struct {
	model  classifier.Model
	schema feature.Schema
	logger *slog.Logger
}

// NewRoti loads the roti artifacts from dir.
func NewRoti(dir string, logger *slog.Logger) (*Roti, error) {
	base := filepath.Join(dir, "roti")
	model, err := classifier.LoadEnsemble(filepath.Join(base, "model.xgb"))
	if err != nil {
		return nil, err
	}
	schema, err := feature.LoadSchema(filepath.Join(base, "columns.json"))
	if err != nil {
		return nil, err
	}
	return &Roti{model: model, schema: schema, logger: logger}, nil
}

func (r *Roti) Food() constants.FoodType { return constants.FoodRoti }

func (r *Roti) Predict(_ context.Context, payload map[string]any) (*verdict.Verdict, error) {
	obs, err := parseRoti(payload)
	if err != nil {
		return nil, err
	}

	if reason, fired := rules.FirstMatch(rotiRules, obs); fired {
		return &verdict.Verdict{
			Status:     constants.StatusSpoiled,
			Message:    fmt.Sprintf("Spoiled - Unsafe to consume. (Food Safety Rule: %s)", reason),
			IsSafe:     verdict.Safe(false),
			Confidence: verdict.RuleConfidence,
		}, nil
	}

	vec, err := r.encode(obs)
	if err != nil {
		return nil, err
	}
	res, err := r.model.Predict(vec)
	if err != nil {
		return nil, err
	}

	conf := verdict.FormatConfidence(res.Confidence)
	if res.Class == 1 {
		return &verdict.Verdict{
			Status:     constants.StatusSpoiled,
			Message:    fmt.Sprintf("Spoiled - Unsafe to consume. (Confidence: %s)", conf),
			IsSafe:     verdict.Safe(false),
			Confidence: conf,
		}, nil
	}
	return &verdict.Verdict{
		Status:     constants.StatusFresh,
		Message:    fmt.Sprintf("Fresh - Safe to consume. (Confidence: %s)", conf),
		IsSafe:     verdict.Safe(true),
		Confidence: conf,
	}, nil
}

func parseRoti(payload map[string]any) (rotiObservation, error) {
	if err := requireFields(payload, constants.FoodRoti,
		"time_since_cooking_hr", "storage_location", "storage_container",
		"fat_content", "ambient_season", "observed_texture", "observed_appearance"); err != nil {
		return rotiObservation{}, err
	}

	var obs rotiObservation
	var err error

	if obs.TimeHours, err = nonNegativeField(payload, "time_since_cooking_hr"); err != nil {
		return obs, err
	}
	if obs.Storage, err = enumField(payload, "storage_location", rotiStorageLevels); err != nil {
		return obs, err
	}
	if obs.Container, err = enumField(payload, "storage_container", rotiContainerLevels); err != nil {
		return obs, err
	}
	if obs.Fat, err = enumField(payload, "fat_content", rotiFatLevels); err != nil {
		return obs, err
	}
	if obs.Season, err = enumField(payload, "ambient_season", rotiSeasonLevels); err != nil {
		return obs, err
	}
	if obs.Texture, err = enumField(payload, "observed_texture", rotiTextureLevels); err != nil {
		return obs, err
	}
	if obs.Appearance, err = enumField(payload, "observed_appearance", rotiAppearanceLevels); err != nil {
		return obs, err
	}
	return obs, nil
}

func (r *Roti) encode(obs rotiObservation) ([]float64, error) {
	vals := map[string]float64{
		"time_since_cooking_hr": obs.TimeHours,
	}
	feature.OneHot(vals, "storage_location", obs.Storage, rotiStorageLevels...)
	feature.OneHot(vals, "storage_container", obs.Container, rotiContainerLevels...)
	feature.OneHot(vals, "fat_content", obs.Fat, rotiFatLevels...)
	feature.OneHot(vals, "ambient_season", obs.Season, rotiSeasonLevels...)
	feature.OneHot(vals, "observed_texture", obs.Texture, rotiTextureLevels...)
	feature.OneHot(vals, "observed_appearance", obs.Appearance, rotiAppearanceLevels...)

	return r.schema.Vector(vals, nil)
}

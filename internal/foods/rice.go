package foods

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/classifier"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/feature"
	"github.com/anna-sampada/spoilage-backend/internal/rules"
	"github.com/anna-sampada/spoilage-backend/internal/verdict"
)

// RiceHoursCap is the absolute time ceiling: beyond it the rice is molded
// regardless of anything else and the classifier is never consulted.
const RiceHoursCap = 168

var (
	riceSmellLevels      = []string{"Normal", "Stale/Slightly Off", "Sour/Fermented", "Foul/Musty"}
	riceAppearanceLevels = []string{"Normal/Glossy", "Dull/Dry", "Slimy/Discolored", "Visible Mold"}
	riceStorageLevels    = []string{"Refrigerator", "Room Temperature"}
	riceCoolingLevels    = []string{"Cooled in shallow container", "Left to cool in deep pot", "Not Applicable"}
)

// riceColumns is the exact order the rice classifier was trained with.
var riceColumns = feature.Schema{
	Columns: []string{
		"hours_since_cooking",
		"initial_hours_at_room_temp",
		"smell_encoded",
		"appearance_encoded",
		"storage_location_Refrigerator",
		"storage_location_Room Temperature",
		"cooling_method_Cooled in shallow container",
		"cooling_method_Left to cool in deep pot",
		"cooling_method_Not Applicable",
	},
	Scaled: []string{"hours_since_cooking", "initial_hours_at_room_temp"},
}

var riceOutcomes = map[int]verdict.Outcome{
	0: {Status: constants.StatusFresh, Message: "Fresh - Safe to consume", IsSafe: true},
	1: {Status: constants.StatusStale, Message: "Stale - Safe but reduced quality", IsSafe: true},
	2: {Status: constants.StatusUnsafe, Message: "Potentially Unsafe - Risk of toxins", IsSafe: false},
	3: {Status: constants.StatusSpoiled, Message: "Spoiled - Do not consume", IsSafe: false},
	4: {Status: constants.StatusMolded, Message: "Extremely Spoiled - Do not consume", IsSafe: false},
}

type riceObservation struct {
	HoursSinceCooking float64
	InitialRoomHours  float64
	Storage           string
	Cooling           string
	Smell             string
	Appearance        string
}

// Sensory overrides grouped by the terminal outcome they force.
var riceMoldRules = []rules.Rule[riceObservation]{
	{
		Name:   "visible_mold",
		Fires:  func(o riceObservation) bool { return o.Appearance == "Visible Mold" },
		Reason: func(riceObservation) string { return "visible mold on the rice" },
	},
}

var riceSpoiledRules = []rules.Rule[riceObservation]{
	{
		Name:   "slimy_appearance",
		Fires:  func(o riceObservation) bool { return o.Appearance == "Slimy/Discolored" },
		Reason: func(riceObservation) string { return "slimy or discolored appearance" },
	},
	{
		Name: "fermented_smell",
		Fires: func(o riceObservation) bool {
			return o.Smell == "Sour/Fermented" || o.Smell == "Foul/Musty"
		},
		Reason: func(o riceObservation) string { return "spoilage-defining smell" },
	},
}

// Rice predicts cooked-rice spoilage.
type Rice struct {
	model  classifier.Model
	scaler *feature.Scaler
	logger *slog.Logger
}

// NewRice loads the rice artifacts from dir. A failure disables rice only.
func NewRice(dir string, logger *slog.Logger) (*Rice, error) {
	model, err := classifier.LoadEnsemble(filepath.Join(dir, "rice", "model.xgb"))
	if err != nil {
		return nil, err
	}
	scaler, err := feature.LoadScaler(filepath.Join(dir, "rice", "scaler.json"))
	if err != nil {
		return nil, err
	}
	return &Rice{model: model, scaler: scaler, logger: logger}, nil
}

func (r *Rice) Food() constants.FoodType { return constants.FoodRice }

func (r *Rice) Predict(_ context.Context, payload map[string]any) (*verdict.Verdict, error) {
	obs, err := parseRice(payload)
	if err != nil {
		return nil, err
	}

	if obs.HoursSinceCooking > RiceHoursCap {
		return riceRuleVerdict(4), nil
	}
	if _, fired := rules.FirstMatch(riceMoldRules, obs); fired {
		return riceRuleVerdict(4), nil
	}
	if _, fired := rules.FirstMatch(riceSpoiledRules, obs); fired {
		return riceRuleVerdict(3), nil
	}

	vec, err := r.encode(obs)
	if err != nil {
		return nil, err
	}
	res, err := r.model.Predict(vec)
	if err != nil {
		return nil, err
	}

	out, ok := riceOutcomes[res.Class]
	if !ok {
		return verdict.Unmapped(), nil
	}
	return &verdict.Verdict{
		Status:  out.Status,
		Message: out.Message,
		IsSafe:  verdict.Safe(out.IsSafe),
	}, nil
}

func parseRice(payload map[string]any) (riceObservation, error) {
	var obs riceObservation
	var err error

	if obs.HoursSinceCooking, err = nonNegativeField(payload, "hours_since_cooking"); err != nil {
		return obs, err
	}
	if obs.InitialRoomHours, err = nonNegativeField(payload, "initial_hours_at_room_temp"); err != nil {
		return obs, err
	}
	if obs.Storage, err = enumField(payload, "storage_location", riceStorageLevels); err != nil {
		return obs, err
	}
	if obs.Cooling, err = enumField(payload, "cooling_method", riceCoolingLevels); err != nil {
		return obs, err
	}
	if obs.Smell, err = enumField(payload, "observed_smell", riceSmellLevels); err != nil {
		return obs, err
	}
	if obs.Appearance, err = enumField(payload, "observed_appearance", riceAppearanceLevels); err != nil {
		return obs, err
	}
	if obs.InitialRoomHours > obs.HoursSinceCooking {
		return obs, common.ValidationErrorf("'Hours at Room Temp' cannot be greater than 'Total Hours Since Cooking'")
	}
	return obs, nil
}

func (r *Rice) encode(obs riceObservation) ([]float64, error) {
	smell, _ := feature.Ordinal(riceSmellLevels, obs.Smell)
	appearance, _ := feature.Ordinal(riceAppearanceLevels, obs.Appearance)

	vals := map[string]float64{
		"hours_since_cooking":        obs.HoursSinceCooking,
		"initial_hours_at_room_temp": obs.InitialRoomHours,
		"smell_encoded":              smell,
		"appearance_encoded":         appearance,
	}
	feature.OneHot(vals, "storage_location", obs.Storage, riceStorageLevels...)
	feature.OneHot(vals, "cooling_method", obs.Cooling, riceCoolingLevels...)

	return riceColumns.Vector(vals, r.scaler)
}

func riceRuleVerdict(code int) *verdict.Verdict {
	out := riceOutcomes[code]
	return &verdict.Verdict{
		Status:     out.Status,
		Message:    out.Message,
		IsSafe:     verdict.Safe(out.IsSafe),
		Confidence: verdict.RuleConfidence,
	}
}

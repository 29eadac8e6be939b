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

// MilkDaysCap is the absolute ceiling in days since opening or purchase.
const MilkDaysCap = 14

var (
	milkTypes = []string{"Pasteurized (Pouch/Bottle)", "UHT (Carton)", "Raw/Loose"}

	// Ordered by severity; index position is the ordinal rank the model
	// was trained with.
	milkSmellLevels       = []string{"Normal/Fresh", "Sour", "Bitter/Unpleasant", "Rancid/Soapy"}
	milkConsistencyLevels = []string{"Normal/Smooth", "Thicker than usual", "Small Lumps", "Thick Curds"}
	milkStorageLevels     = []string{"Refrigerator", "Room Temperature"}
)

var milkColumns = feature.Schema{
	Columns: []string{
		"days_since_open_or_purchase",
		"was_boiled",
		"cumulative_hours_at_room_temp",
		"observed_smell",
		"observed_consistency",
		"milk_type_Raw/Loose",
		"milk_type_UHT (Carton)",
		"storage_location_Room Temperature",
	},
	Scaled: []string{
		"days_since_open_or_purchase",
		"cumulative_hours_at_room_temp",
		"observed_smell",
		"observed_consistency",
	},
}

var milkOutcomes = map[int]verdict.Outcome{
	0: {Status: constants.StatusFresh, Message: "✅ Fresh - Safe to consume", IsSafe: true},
	2: {Status: constants.StatusSpoiled, Message: "🚫 Spoiled - Do not consume", IsSafe: false},
}

// milkIntermediateClass is the "starting to spoil" class whose safety flag is
// further conditioned on whether the milk was boiled.
const milkIntermediateClass = 1

type milkObservation struct {
	MilkType      string
	Days          float64
	WasBoiled     bool
	Storage       string
	RoomTempHours float64
	Smell         string
	Consistency   string
}

var milkRules = []rules.Rule[milkObservation]{
	{
		Name:   "rancid_smell",
		Fires:  func(o milkObservation) bool { return o.Smell == "Rancid/Soapy" },
		Reason: func(milkObservation) string { return "rancid or soapy smell" },
	},
	{
		Name:   "curdled",
		Fires:  func(o milkObservation) bool { return o.Consistency == "Thick Curds" },
		Reason: func(milkObservation) string { return "thick curds in the milk" },
	},
}

// Milk predicts milk spoilage with the reboil refinement on the intermediate
// class.
type Milk struct {
	model  classifier.Model
	scaler *feature.Scaler
	// roomTempSlackHours is the tolerance when checking cumulative
	// room-temperature hours against total days.
	roomTempSlackHours float64
	logger             *slog.Logger
}

// NewMilk loads the milk artifacts from dir.
func NewMilk(dir string, roomTempSlackHours float64, logger *slog.Logger) (*Milk, error) {
	model, err := classifier.LoadEnsemble(filepath.Join(dir, "milk", "model.xgb"))
	if err != nil {
		return nil, err
	}
	scaler, err := feature.LoadScaler(filepath.Join(dir, "milk", "scaler.json"))
	if err != nil {
		return nil, err
	}
	return &Milk{
		model:              model,
		scaler:             scaler,
		roomTempSlackHours: roomTempSlackHours,
		logger:             logger,
	}, nil
}

func (m *Milk) Food() constants.FoodType { return constants.FoodMilk }

func (m *Milk) Predict(_ context.Context, payload map[string]any) (*verdict.Verdict, error) {
	obs, err := m.parse(payload)
	if err != nil {
		return nil, err
	}

	if obs.Days > MilkDaysCap || obs.RoomTempHours > MilkDaysCap*24 {
		return milkRuleVerdict(2), nil
	}
	if _, fired := rules.FirstMatch(milkRules, obs); fired {
		return milkRuleVerdict(2), nil
	}

	vec, err := m.encode(obs)
	if err != nil {
		return nil, err
	}
	res, err := m.model.Predict(vec)
	if err != nil {
		return nil, err
	}

	if res.Class == milkIntermediateClass {
		if obs.WasBoiled {
			return &verdict.Verdict{
				Status:  constants.StatusStarting,
				Message: "⚠️ Starting to Spoil - Consume soon only after re-boiling thoroughly.",
				IsSafe:  nil, // safe only under the stated condition
			}, nil
		}
		return &verdict.Verdict{
			Status:  constants.StatusUnsafe,
			Message: "❌ Potentially Unsafe - Discard. Do not consume raw or unboiled milk.",
			IsSafe:  verdict.Safe(false),
		}, nil
	}

	out, ok := milkOutcomes[res.Class]
	if !ok {
		return verdict.Unmapped(), nil
	}
	return &verdict.Verdict{
		Status:  out.Status,
		Message: out.Message,
		IsSafe:  verdict.Safe(out.IsSafe),
	}, nil
}

func (m *Milk) parse(payload map[string]any) (milkObservation, error) {
	if err := requireFields(payload, constants.FoodMilk,
		"milk_type", "days_since_open_or_purchase", "was_boiled", "storage_location",
		"cumulative_hours_at_room_temp", "observed_smell", "observed_consistency"); err != nil {
		return milkObservation{}, err
	}

	var obs milkObservation
	var err error

	if obs.Days, err = nonNegativeField(payload, "days_since_open_or_purchase"); err != nil {
		return obs, err
	}
	if obs.RoomTempHours, err = nonNegativeField(payload, "cumulative_hours_at_room_temp"); err != nil {
		return obs, err
	}
	if obs.WasBoiled, err = boolField(payload, "was_boiled"); err != nil {
		return obs, err
	}
	if obs.MilkType, err = enumField(payload, "milk_type", milkTypes); err != nil {
		return obs, err
	}
	if obs.Storage, err = enumField(payload, "storage_location", milkStorageLevels); err != nil {
		return obs, err
	}
	if obs.Smell, err = enumField(payload, "observed_smell", milkSmellLevels); err != nil {
		return obs, err
	}
	if obs.Consistency, err = enumField(payload, "observed_consistency", milkConsistencyLevels); err != nil {
		return obs, err
	}

	if obs.RoomTempHours > obs.Days*24+m.roomTempSlackHours {
		return obs, common.ValidationErrorf("'Cumulative Hours at Room Temp' cannot be greater than total 'Days Since Purchase'")
	}
	return obs, nil
}

func (m *Milk) encode(obs milkObservation) ([]float64, error) {
	smell, _ := feature.Ordinal(milkSmellLevels, obs.Smell)
	consistency, _ := feature.Ordinal(milkConsistencyLevels, obs.Consistency)

	boiled := 0.0
	if obs.WasBoiled {
		boiled = 1
	}

	vals := map[string]float64{
		"days_since_open_or_purchase":       obs.Days,
		"was_boiled":                        boiled,
		"cumulative_hours_at_room_temp":     obs.RoomTempHours,
		"observed_smell":                    smell,
		"observed_consistency":              consistency,
		"milk_type_Raw/Loose":               feature.Indicator(obs.MilkType, "Raw/Loose"),
		"milk_type_UHT (Carton)":            feature.Indicator(obs.MilkType, "UHT (Carton)"),
		"storage_location_Room Temperature": feature.Indicator(obs.Storage, "Room Temperature"),
	}
	return milkColumns.Vector(vals, m.scaler)
}

func milkRuleVerdict(code int) *verdict.Verdict {
	out := milkOutcomes[code]
	return &verdict.Verdict{
		Status:     out.Status,
		Message:    out.Message,
		IsSafe:     verdict.Safe(out.IsSafe),
		Confidence: verdict.RuleConfidence,
	}
}

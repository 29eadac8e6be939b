package foods

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/classifier"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/feature"
	"github.com/anna-sampada/spoilage-backend/internal/rules"
	"github.com/anna-sampada/spoilage-backend/internal/verdict"
)

// Dal thresholds. Cooked dal is the least forgiving of the five foods; these
// come from established food-safety limits, not the model.
const (
	DalHoursCap           = 120 // absolute, regardless of storage
	dalRoomTempHoursCap   = 24
	dalRoomTempAcidityHrs = 8
	dalFridgeAcidityHrs   = 72
)

var (
	dalStorageLevels     = []string{"Room Temperature", "Refrigerator", "Freezer"}
	dalSmellLevels       = []string{"Normal", "Slightly Sour", "Very Sour", "Musty", "Foul"}
	dalConsistencyLevels = []string{"Normal", "Slightly Thickened", "Watery", "Slimy"}
	dalAcidityLevels     = []string{"Low/Normal", "Moderate", "High"}
	dalContainerLevels   = []string{"Steel/Metal", "Plastic", "Ceramic/Glass", "Other"}
)

var dalColumns = feature.Schema{
	Columns: []string{
		"Time_since_preparation_hours",
		"Oil_separation",
		"Storage_place_Room Temperature",
		"Storage_place_Refrigerator",
		"Storage_place_Freezer",
		"Acidity_source_Low/Normal",
		"Acidity_source_Moderate",
		"Acidity_source_High",
		"Consistency_Normal",
		"Consistency_Slightly Thickened",
		"Consistency_Watery",
		"Consistency_Slimy",
		"Container_type_Steel/Metal",
		"Container_type_Plastic",
		"Container_type_Ceramic/Glass",
		"Container_type_Other",
		"Smell_Normal",
		"Smell_Slightly Sour",
		"Smell_Very Sour",
		"Smell_Musty",
		"Smell_Foul",
	},
	Scaled: []string{"Time_since_preparation_hours", "Oil_separation"},
}

type dalObservation struct {
	TimeHours     float64
	Storage       string
	Acidity       string
	Consistency   string
	ContainerType string
	Smell         string
	OilSeparation float64
}

// Dal surfaces every firing reason rather than short-circuiting; rule order
// here is the order reasons appear in the message.
var dalRules = []rules.Rule[dalObservation]{
	{
		Name: "room_temp_ceiling",
		Fires: func(o dalObservation) bool {
			return o.Storage == "Room Temperature" && o.TimeHours > dalRoomTempHoursCap
		},
		Reason: func(dalObservation) string {
			return "Stored at room temperature for over 24 hours."
		},
	},
	{
		Name:  "absolute_ceiling",
		Fires: func(o dalObservation) bool { return o.TimeHours > DalHoursCap },
		Reason: func(dalObservation) string {
			return fmt.Sprintf("Time since preparation exceeds the absolute safe limit of %d hours.", DalHoursCap)
		},
	},
	{
		Name: "room_temp_acidity",
		Fires: func(o dalObservation) bool {
			return o.Storage == "Room Temperature" && o.TimeHours >= dalRoomTempAcidityHrs &&
				(o.Acidity == "High" || o.Acidity == "Moderate")
		},
		Reason: func(dalObservation) string {
			return "Stored at room temperature for 8+ hours with high acidity."
		},
	},
	{
		Name: "fridge_acidity",
		Fires: func(o dalObservation) bool {
			return o.Storage == "Refrigerator" && o.TimeHours >= dalFridgeAcidityHrs && o.Acidity == "High"
		},
		Reason: func(dalObservation) string {
			return "Stored in the refrigerator for 72+ hours with reported high acidity."
		},
	},
	{
		Name: "spoilage_smell",
		Fires: func(o dalObservation) bool {
			return o.Smell == "Very Sour" || o.Smell == "Musty" || o.Smell == "Foul"
		},
		Reason: func(o dalObservation) string {
			return fmt.Sprintf("Reported %s smell, a strong spoilage indicator.", o.Smell)
		},
	},
	{
		Name:  "slimy_consistency",
		Fires: func(o dalObservation) bool { return o.Consistency == "Slimy" },
		Reason: func(dalObservation) string {
			return "Reported slimy consistency, a clear sign of microbial growth."
		},
	},
}

// Dal predicts cooked-dal spoilage.
type Dal struct {
	model  classifier.Model
	scaler *feature.Scaler
	labels *classifier.Labels
	logger *slog.Logger
}

// NewDal loads the dal artifacts from dir, including the label-encoder dump
// the training pipeline exports.
func NewDal(dir string, logger *slog.Logger) (*Dal, error) {
	base := filepath.Join(dir, "dal")
	model, err := classifier.LoadEnsemble(filepath.Join(base, "model.xgb"))
	if err != nil {
		return nil, err
	}
	scaler, err := feature.LoadScaler(filepath.Join(base, "scaler.json"))
	if err != nil {
		return nil, err
	}
	labels, err := classifier.LoadLabels(filepath.Join(base, "labels.json"))
	if err != nil {
		return nil, err
	}
	return &Dal{model: model, scaler: scaler, labels: labels, logger: logger}, nil
}

func (d *Dal) Food() constants.FoodType { return constants.FoodDal }

func (d *Dal) Predict(_ context.Context, payload map[string]any) (*verdict.Verdict, error) {
	obs, err := parseDal(payload)
	if err != nil {
		return nil, err
	}

	if reasons := rules.Reasons(dalRules, obs); len(reasons) > 0 {
		return verdict.FromRule(constants.StatusSpoiled, "Spoiled (Food Safety Rule)", reasons...), nil
	}

	vec, err := d.encode(obs)
	if err != nil {
		return nil, err
	}
	res, err := d.model.Predict(vec)
	if err != nil {
		return nil, err
	}

	label, ok := d.labels.Label(res.Class)
	if !ok {
		return verdict.Unmapped(), nil
	}
	// Confidence is the probability of whichever class the model actually
	// predicted, consistent with the label.
	conf := verdict.FormatConfidence(res.Confidence)
	if label == "Spoiled" {
		return &verdict.Verdict{
			Status:     constants.StatusSpoiled,
			Message:    fmt.Sprintf("ML Result: Spoiled. (Confidence: %s)", conf),
			IsSafe:     verdict.Safe(false),
			Confidence: conf,
		}, nil
	}
	return &verdict.Verdict{
		Status:     constants.StatusFresh,
		Message:    fmt.Sprintf("ML Result: Fresh. (Confidence: %s)", conf),
		IsSafe:     verdict.Safe(true),
		Confidence: conf,
	}, nil
}

func parseDal(payload map[string]any) (dalObservation, error) {
	if err := requireFields(payload, constants.FoodDal,
		"Time_since_preparation_hours", "Storage_place", "Acidity_source",
		"Consistency", "Container_type", "Smell", "Oil_separation"); err != nil {
		return dalObservation{}, err
	}

	var obs dalObservation
	var err error

	if obs.TimeHours, err = nonNegativeField(payload, "Time_since_preparation_hours"); err != nil {
		return obs, err
	}
	if obs.OilSeparation, err = nonNegativeField(payload, "Oil_separation"); err != nil {
		return obs, err
	}
	if obs.OilSeparation > 1 {
		return obs, common.FieldError("Oil_separation", "must be between 0.0 and 1.0")
	}
	if obs.Storage, err = enumField(payload, "Storage_place", dalStorageLevels); err != nil {
		return obs, err
	}
	if obs.Acidity, err = enumField(payload, "Acidity_source", dalAcidityLevels); err != nil {
		return obs, err
	}
	if obs.Consistency, err = enumField(payload, "Consistency", dalConsistencyLevels); err != nil {
		return obs, err
	}
	if obs.ContainerType, err = enumField(payload, "Container_type", dalContainerLevels); err != nil {
		return obs, err
	}
	if obs.Smell, err = enumField(payload, "Smell", dalSmellLevels); err != nil {
		return obs, err
	}
	return obs, nil
}

func (d *Dal) encode(obs dalObservation) ([]float64, error) {
	vals := map[string]float64{
		"Time_since_preparation_hours": obs.TimeHours,
		"Oil_separation":               obs.OilSeparation,
	}
	feature.OneHot(vals, "Storage_place", obs.Storage, dalStorageLevels...)
	feature.OneHot(vals, "Acidity_source", obs.Acidity, dalAcidityLevels...)
	feature.OneHot(vals, "Consistency", obs.Consistency, dalConsistencyLevels...)
	feature.OneHot(vals, "Container_type", obs.ContainerType, dalContainerLevels...)
	feature.OneHot(vals, "Smell", obs.Smell, dalSmellLevels...)

	return dalColumns.Vector(vals, d.scaler)
}

package foods

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/classifier"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/feature"
	"github.com/anna-sampada/spoilage-backend/internal/verdict"
)

// paneerTestColumns mirrors a trained dummies layout with baselines dropped.
var paneerTestColumns = feature.Schema{
	Columns: []string{
		"days_since_purchase_or_cooked",
		"observed_smell",
		"texture_surface",
		"is_cooked_Raw (in a block)",
		"paneer_type_Loose/Local",
		"storage_location_Room Temperature",
		"storage_container_raw_Original packaging",
		"storage_container_raw_Submerged in water",
	},
}

func newTestPaneer(model *stubModel) *Paneer {
	return &Paneer{model: model, schema: paneerTestColumns, logger: testLogger()}
}

func paneerPayload(overrides map[string]any) map[string]any {
	p := map[string]any{
		"days_since_purchase_or_cooked": 3.0,
		"is_cooked":                     "Raw (in a block)",
		"paneer_type":                   "Packaged/Branded",
		"storage_location":              "Refrigerator",
		"observed_smell":                "Normal/Sweetish",
		"texture_surface":               "Normal/Firm",
	}
	for k, v := range overrides {
		p[k] = v
	}
	return p
}

func TestPaneerDaysCap(t *testing.T) {
	model := &stubModel{}
	p := newTestPaneer(model)

	v, err := p.Predict(context.Background(), paneerPayload(map[string]any{
		"days_since_purchase_or_cooked": 20.0,
	}))
	require.NoError(t, err)

	assert.Equal(t, constants.VerdictStatus("Spoiled (Do Not Eat)"), v.Status)
	assert.Equal(t, "Paneer is unsafe after 14 days. Do not consume.", v.Message)
	require.NotNil(t, v.IsSafe)
	assert.False(t, *v.IsSafe)
	assert.Equal(t, "100.00%", v.Confidence)
	require.NotNil(t, v.PredictionCode)
	assert.Equal(t, 3, *v.PredictionCode)
	assert.False(t, model.called)
}

func TestPaneerClassifierStatuses(t *testing.T) {
	tests := []struct {
		class      int
		wantStatus constants.VerdictStatus
		wantSafe   bool
	}{
		{0, "Fresh", true},
		{1, "Good (Use Soon)", true},
		{2, "Stale (Use with Caution)", true},
		{3, "Spoiled (Do Not Eat)", false},
	}

	for _, tt := range tests {
		model := &stubModel{result: classifier.Result{Class: tt.class, Confidence: 0.76}}
		p := newTestPaneer(model)

		v, err := p.Predict(context.Background(), paneerPayload(nil))
		require.NoError(t, err)

		assert.Equal(t, tt.wantStatus, v.Status)
		require.NotNil(t, v.IsSafe)
		assert.Equal(t, tt.wantSafe, *v.IsSafe)
		assert.Equal(t, "76.00%", v.Confidence)
		assert.Contains(t, v.Message, string(tt.wantStatus))
		assert.Contains(t, v.Message, "76.00%")
		require.NotNil(t, v.PredictionCode)
		assert.Equal(t, tt.class, *v.PredictionCode)
	}
}

func TestPaneerUnknownClassUnsafe(t *testing.T) {
	model := &stubModel{result: classifier.Result{Class: 7, Confidence: 0.5}}
	p := newTestPaneer(model)

	v, err := p.Predict(context.Background(), paneerPayload(nil))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusUnknown, v.Status)
	require.NotNil(t, v.IsSafe)
	assert.False(t, *v.IsSafe)
}

func TestPaneerOptionalContainer(t *testing.T) {
	model := &stubModel{result: classifier.Result{Class: 0, Confidence: 0.9}}
	p := newTestPaneer(model)

	_, err := p.Predict(context.Background(), paneerPayload(map[string]any{
		"storage_container_raw": "Submerged in water",
	}))
	require.NoError(t, err)
	// last column is the submerged indicator
	assert.Equal(t, 1.0, model.gotVec[len(model.gotVec)-1])

	model2 := &stubModel{result: classifier.Result{Class: 0, Confidence: 0.9}}
	p2 := newTestPaneer(model2)
	_, err = p2.Predict(context.Background(), paneerPayload(nil))
	require.NoError(t, err)
	assert.Equal(t, 0.0, model2.gotVec[len(model2.gotVec)-1])
}

func TestPaneerInvalidContainer(t *testing.T) {
	p := newTestPaneer(&stubModel{})

	_, err := p.Predict(context.Background(), paneerPayload(map[string]any{
		"storage_container_raw": "Shoebox",
	}))
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
}

func TestPaneerRuleVerdictMatchesFormat(t *testing.T) {
	model := &stubModel{}
	p := newTestPaneer(model)

	v, err := p.Predict(context.Background(), paneerPayload(map[string]any{
		"days_since_purchase_or_cooked": 14.5,
	}))
	require.NoError(t, err)
	assert.Equal(t, verdict.RuleConfidence, v.Confidence)
}

// Package classifier wraps the opaque pre-trained classification capability
// behind a uniform contract: predict an encoded feature vector, get back a
// class index and a probability distribution. Models are gradient-boosted
// ensembles exported by the training pipeline and loaded once at startup.
package classifier

import (
	"math"

	"github.com/dmitryikh/leaves"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

// Result is one classification outcome, valid for the lifetime of a request.
type Result struct {
	Class         int
	Probabilities []float64
	// Confidence is the probability mass of the predicted class, not of any
	// particular "spoiled" class.
	Confidence float64
}

// Model is the narrow inference contract the prediction flow depends on.
type Model interface {
	Predict(vector []float64) (Result, error)
	NumFeatures() int
}

// Ensemble adapts a leaves-loaded boosted-tree model. The raw margins are
// turned into probabilities here (sigmoid for binary, softmax for multiclass)
// so the artifact can be a plain booster dump.
type Ensemble struct {
	model *leaves.Ensemble
}

// LoadEnsemble reads a booster dump produced by the external training
// pipeline. Load failure disables only the owning food's endpoint.
func LoadEnsemble(path string) (*Ensemble, error) {
	m, err := leaves.XGEnsembleFromFile(path, false)
	if err != nil {
		return nil, common.ConfigurationErrorf("load model %s: %v", path, err)
	}
	return &Ensemble{model: m}, nil
}

// NumFeatures reports the trained input width.
func (e *Ensemble) NumFeatures() int { return e.model.NFeatures() }

// Predict runs inference on one encoded vector. The adapter does not validate
// the vector against the trained schema; a mismatch surfaces as a generic
// inference error.
func (e *Ensemble) Predict(vector []float64) (Result, error) {
	groups := e.model.NOutputGroups()
	if groups <= 1 {
		margin := e.model.PredictSingle(vector, 0)
		if math.IsNaN(margin) {
			return Result{}, common.InferenceErrorf("model produced NaN margin")
		}
		p := sigmoid(margin)
		return pick([]float64{1 - p, p}), nil
	}

	margins := make([]float64, groups)
	if err := e.model.Predict(vector, 0, margins); err != nil {
		return Result{}, common.InferenceErrorf("predict: %v", err)
	}
	return pick(softmax(margins)), nil
}

func pick(probs []float64) Result {
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return Result{Class: best, Probabilities: probs, Confidence: probs[best]}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(margins []float64) []float64 {
	max := margins[0]
	for _, m := range margins[1:] {
		if m > max {
			max = m
		}
	}
	var sum float64
	out := make([]float64, len(margins))
	for i, m := range margins {
		out[i] = math.Exp(m - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

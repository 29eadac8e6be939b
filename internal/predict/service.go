package predict

import (
	"context"
	"log/slog"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/async"
	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/foods"
	"github.com/anna-sampada/spoilage-backend/internal/metrics"
	"github.com/anna-sampada/spoilage-backend/internal/repository"
	"github.com/anna-sampada/spoilage-backend/internal/verdict"
)

// Service routes prediction requests to the per-food predictors. A food whose
// artifacts failed to load stays registered as disabled so the rest of the
// service keeps working.
type Service struct {
	predictors map[constants.FoodType]foods.Predictor
	disabled   map[constants.FoodType]error

	preds   repository.PredictionRepository
	queue   *async.LogQueue
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Options struct {
	Predictions repository.PredictionRepository
	Queue       *async.LogQueue
	Metrics     *metrics.Metrics
}

// NewService builds the registry from the model directory. Loading is
// per-food fail-soft: a broken artifact disables that food only.
func NewService(modelDir string, milkSlackHours float64, logger *slog.Logger, opts Options) *Service {
	s := &Service{
		predictors: make(map[constants.FoodType]foods.Predictor),
		disabled:   make(map[constants.FoodType]error),
		preds:      opts.Predictions,
		queue:      opts.Queue,
		metrics:    opts.Metrics,
		logger:     logger,
	}

	loaders := []struct {
		food constants.FoodType
		load func() (foods.Predictor, error)
	}{
		{constants.FoodRice, func() (foods.Predictor, error) { return foods.NewRice(modelDir, logger) }},
		{constants.FoodMilk, func() (foods.Predictor, error) { return foods.NewMilk(modelDir, milkSlackHours, logger) }},
		{constants.FoodPaneer, func() (foods.Predictor, error) { return foods.NewPaneer(modelDir, logger) }},
		{constants.FoodDal, func() (foods.Predictor, error) { return foods.NewDal(modelDir, logger) }},
		{constants.FoodRoti, func() (foods.Predictor, error) { return foods.NewRoti(modelDir, logger) }},
	}
	for _, l := range loaders {
		p, err := l.load()
		if err != nil {
			logger.Error("model.load.failed", "food", l.food, "error", err)
			s.disabled[l.food] = err
			continue
		}
		logger.Info("model.load.ok", "food", l.food)
		s.predictors[l.food] = p
	}
	return s
}

// NewServiceWithPredictors wires an explicit registry, used by tests.
func NewServiceWithPredictors(ps []foods.Predictor, logger *slog.Logger, opts Options) *Service {
	s := &Service{
		predictors: make(map[constants.FoodType]foods.Predictor),
		disabled:   make(map[constants.FoodType]error),
		preds:      opts.Predictions,
		queue:      opts.Queue,
		metrics:    opts.Metrics,
		logger:     logger,
	}
	for _, p := range ps {
		s.predictors[p.Food()] = p
	}
	return s
}

// Available reports whether the food's model loaded.
func (s *Service) Available(food constants.FoodType) bool {
	_, ok := s.predictors[food]
	return ok
}

// Availability returns the load state of every known food.
func (s *Service) Availability() map[constants.FoodType]bool {
	out := make(map[constants.FoodType]bool, len(constants.AllFoods))
	for _, f := range constants.AllFoods {
		_, ok := s.predictors[f]
		out[f] = ok
	}
	return out
}

func (s *Service) Predict(ctx context.Context, food constants.FoodType, payload map[string]any) (*verdict.Verdict, error) {
	p, ok := s.predictors[food]
	if !ok {
		return nil, common.UnavailableErrorf("%s prediction model is not available", food)
	}

	v, err := p.Predict(ctx, payload)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PredictionsTotal.WithLabelValues(string(food), string(v.Status)).Inc()
		if v.Confidence == verdict.RuleConfidence {
			s.metrics.RuleOverridesTotal.WithLabelValues(string(food)).Inc()
		}
	}
	s.logger.Info("predict.ok", "food", food, "status", v.Status, "is_safe", v.IsSafe)

	s.logPrediction(food, payload, v)
	return v, nil
}

// logPrediction hands the row to the background queue. A missing repository
// or a failed write never affects the response.
func (s *Service) logPrediction(food constants.FoodType, payload map[string]any, v *verdict.Verdict) {
	if s.preds == nil || s.queue == nil {
		return
	}
	s.queue.Enqueue(async.Job{
		Name: "prediction_log",
		Run: func(ctx context.Context) error {
			return s.preds.Insert(ctx, food, payload, v)
		},
	})
}

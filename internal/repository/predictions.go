package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anna-sampada/spoilage-backend/constants"
	"github.com/anna-sampada/spoilage-backend/internal/verdict"
)

type Prediction struct {
	ID        uuid.UUID
	FoodType  constants.FoodType
	Input     json.RawMessage
	Verdict   json.RawMessage
	CreatedAt time.Time
}

type PredictionRepository interface {
	Insert(ctx context.Context, food constants.FoodType, input map[string]any, v *verdict.Verdict) error
	RecentByFood(ctx context.Context, food constants.FoodType, limit int) ([]*Prediction, error)
}

type predictionRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPredictionRepository(pool *pgxpool.Pool, logger *slog.Logger) PredictionRepository {
	return &predictionRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *predictionRepository) Insert(ctx context.Context, food constants.FoodType, input map[string]any, v *verdict.Verdict) error {
	rawInput, err := json.Marshal(input)
	if err != nil {
		return err
	}
	rawVerdict, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO predictions (id, food_type, input, verdict) VALUES ($1, $2, $3, $4)`,
		uuid.New(), string(food), rawInput, rawVerdict)
	if err != nil {
		r.logger.Error("failed to insert prediction", "food", food, "error", err)
		return err
	}
	return nil
}

func (r *predictionRepository) RecentByFood(ctx context.Context, food constants.FoodType, limit int) ([]*Prediction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, food_type, input, verdict, created_at
		 FROM predictions WHERE food_type = $1
		 ORDER BY created_at DESC LIMIT $2`, string(food), limit)
	if err != nil {
		r.logger.Error("failed to list predictions", "food", food, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.ID, &p.FoodType, &p.Input, &p.Verdict, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

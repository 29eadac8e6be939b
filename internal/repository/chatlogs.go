package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatLog struct {
	ID        uuid.UUID
	UserID    string
	Mode      string
	Message   string
	Reply     string
	CreatedAt time.Time
}

type ChatLogRepository interface {
	Insert(ctx context.Context, userID, mode, message, reply string) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]*ChatLog, error)
}

type chatLogRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewChatLogRepository(pool *pgxpool.Pool, logger *slog.Logger) ChatLogRepository {
	return &chatLogRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *chatLogRepository) Insert(ctx context.Context, userID, mode, message, reply string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_logs (id, user_id, mode, message, reply) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), userID, mode, message, reply)
	if err != nil {
		r.logger.Error("failed to insert chat log", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// RecentByUser returns the newest logs first, capped at limit.
func (r *chatLogRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]*ChatLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, mode, message, reply, created_at
		 FROM chat_logs WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		r.logger.Error("failed to list chat logs", "user_id", userID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*ChatLog
	for rows.Next() {
		var c ChatLog
		if err := rows.Scan(&c.ID, &c.UserID, &c.Mode, &c.Message, &c.Reply, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

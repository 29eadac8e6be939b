package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anna-sampada/spoilage-backend/internal/repository"
)

// HistoryStore recalls a user's recent exchanges for conversational memory.
type HistoryStore interface {
	Recall(ctx context.Context, userID string, limit int) []Turn
	Remember(ctx context.Context, userID string, message, reply string)
}

// dbHistory reads from the chat log table, optionally fronted by Redis so
// the hot path skips Postgres for active conversations. Both lookups are
// best effort; a cold or broken store just means less memory.
type dbHistory struct {
	logs   repository.ChatLogRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewHistoryStore(logs repository.ChatLogRepository, cache *redis.Client, ttl time.Duration, logger *slog.Logger) HistoryStore {
	return &dbHistory{logs: logs, cache: cache, ttl: ttl, logger: logger}
}

func historyKey(userID string) string { return "chat:history:" + userID }

func (h *dbHistory) Recall(ctx context.Context, userID string, limit int) []Turn {
	if userID == "" || limit <= 0 {
		return nil
	}

	if h.cache != nil {
		raw, err := h.cache.Get(ctx, historyKey(userID)).Bytes()
		if err == nil {
			var turns []Turn
			if json.Unmarshal(raw, &turns) == nil {
				if len(turns) > 2*limit {
					turns = turns[len(turns)-2*limit:]
				}
				return turns
			}
		} else if err != redis.Nil {
			h.logger.Warn("chat.history.cache_get_failed", "error", err)
		}
	}

	if h.logs == nil {
		return nil
	}
	rows, err := h.logs.RecentByUser(ctx, userID, limit)
	if err != nil {
		h.logger.Warn("chat.history.db_failed", "user_id", userID, "error", err)
		return nil
	}

	// Rows arrive newest first; the model wants oldest first.
	turns := make([]Turn, 0, 2*len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		turns = append(turns,
			Turn{Role: "user", Content: rows[i].Message},
			Turn{Role: "model", Content: rows[i].Reply},
		)
	}

	h.cacheSet(ctx, userID, turns)
	return turns
}

func (h *dbHistory) Remember(ctx context.Context, userID, message, reply string) {
	if userID == "" || h.cache == nil {
		return
	}
	raw, err := h.cache.Get(ctx, historyKey(userID)).Bytes()
	var turns []Turn
	if err == nil {
		_ = json.Unmarshal(raw, &turns)
	}
	turns = append(turns, Turn{Role: "user", Content: message}, Turn{Role: "model", Content: reply})
	h.cacheSet(ctx, userID, turns)
}

func (h *dbHistory) cacheSet(ctx context.Context, userID string, turns []Turn) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(turns)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, historyKey(userID), raw, h.ttl).Err(); err != nil {
		h.logger.Warn("chat.history.cache_set_failed", "error", err)
	}
}

package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

const headerRequestID = "X-Request-ID"

// RequestID attaches a request id to the context and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), id))
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// AccessLog emits one structured line per request.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		reqID := common.RequestIDFromContext(c.Request.Context())
		logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", reqID,
		)
	}
}

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anna-sampada/spoilage-backend/internal/chat"
	"github.com/anna-sampada/spoilage-backend/internal/common"
)

const genericErrorMessage = "An unexpected error occurred."

// userMessage extracts the caller-safe message from an error.
func userMessage(err error) string {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return genericErrorMessage
}

// writePredictError renders prediction failures. Validation failures keep the
// verdict-ish envelope the frontend expects.
func writePredictError(c *gin.Context, err error) {
	switch {
	case common.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   userMessage(err),
			"status":  "Error",
			"is_safe": false,
		})
	case common.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": userMessage(err)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
	}
}

// writeError renders non-prediction failures.
func writeError(c *gin.Context, err error) {
	switch {
	case common.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": userMessage(err)})
	case errors.Is(err, common.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": userMessage(err)})
	case errors.Is(err, chat.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to reach Gemini service."})
	case common.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": userMessage(err)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
	}
}

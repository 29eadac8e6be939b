package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anna-sampada/spoilage-backend/constants"
)

// handlePredict returns the handler for one food's endpoint. The payload is
// taken as a loose map; the predictor owns field validation.
func (s *Server) handlePredict(food constants.FoodType) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.predictions == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": strings.ToLower(string(food)) + " prediction model is not available",
			})
			return
		}

		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil || len(payload) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "No input data provided for " + strings.ToLower(string(food)),
			})
			return
		}

		v, err := s.predictions.Predict(c.Request.Context(), food, payload)
		if err != nil {
			writePredictError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

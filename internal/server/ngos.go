package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anna-sampada/spoilage-backend/internal/ngo"
)

func (s *Server) handleGetNGOs(c *gin.Context) {
	if s.locator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Maps service is not configured"})
		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude and longitude are required"})
		return
	}

	ngos, err := s.locator.Nearby(c.Request.Context(), lat, lng)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ngos)
}

func (s *Server) handleNotifyNGO(c *gin.Context) {
	if s.notifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Email service not configured on server."})
		return
	}

	var d ngo.Donation
	_ = c.ShouldBindJSON(&d)
	if d.NGOName == "" || d.DonorContact == "" || d.FoodDetails == "" || d.PickupAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing key in request: ngo_name, donorContact, foodDetails, and pickupAddress are required"})
		return
	}

	if err := s.notifier.Notify(c.Request.Context(), d); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Notification successfully sent to " + d.NGOName,
	})
}

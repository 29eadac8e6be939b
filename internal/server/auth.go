package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleSignup(c *gin.Context) {
	if s.auth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not initialized"})
		return
	}

	var req credentialsRequest
	_ = c.ShouldBindJSON(&req)

	account, err := s.auth.Signup(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"email":  account.Email,
		"role":   account.Role,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	if s.auth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not initialized"})
		return
	}

	var req credentialsRequest
	_ = c.ShouldBindJSON(&req)

	account, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"email":  account.Email,
		"role":   account.Role,
	})
}

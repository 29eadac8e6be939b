package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anna-sampada/spoilage-backend/internal/chat"
)

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string     `json:"message"`
	Mode    string     `json:"mode"`
	History []chatTurn `json:"history"`
	UserID  string     `json:"userId"`
}

func (s *Server) handleChat(c *gin.Context) {
	if s.chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Gemini API not configured on server."})
		return
	}

	var req chatRequest
	_ = c.ShouldBindJSON(&req)

	history := make([]chat.Turn, 0, len(req.History))
	for _, t := range req.History {
		role := "model"
		if t.Role == "user" {
			role = "user"
		}
		history = append(history, chat.Turn{Role: role, Content: t.Content})
	}

	resp, err := s.chat.Chat(c.Request.Context(), chat.Request{
		Message: req.Message,
		Mode:    req.Mode,
		History: history,
		UserID:  req.UserID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

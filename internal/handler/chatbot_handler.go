package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bluedata/analytics-backend-go/internal/service"
	"github.com/bluedata/analytics-backend-go/pkg/response"
)

// ChatbotHandler handles HTTP requests for the canned-response chatbot.
type ChatbotHandler struct {
	chatbotService *service.ChatbotService
}

// NewChatbotHandler creates a new chatbot handler.
func NewChatbotHandler(chatbotService *service.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{chatbotService: chatbotService}
}

type chatbotRequest struct {
	Query string `json:"query" binding:"required"`
}

// PostChatbot handles POST /api/v1/chatbot.
func (h *ChatbotHandler) PostChatbot(c *gin.Context) {
	var req chatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Request body must include a query")
		return
	}

	answer, err := h.chatbotService.Answer(req.Query)
	if err != nil {
		respondServiceError(c, err, "Failed to answer query")
		return
	}
	response.Success(c, answer)
}

package chatbot

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swasthya/medrec-api/internal/handler"
	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/service/chatbot"
	"github.com/swasthya/medrec-api/pkg/errors"
)

type Handler struct {
	service chatbot.ChatbotService
}

func NewHandler(service chatbot.ChatbotService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chatbot/webhook", h.Webhook)
}

func (h *Handler) Webhook(c *gin.Context) {
	var req model.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("invalid webhook payload"))
		return
	}
	c.JSON(http.StatusOK, h.service.Handle(c.Request.Context(), &req))
}

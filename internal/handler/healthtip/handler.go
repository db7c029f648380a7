package healthtip

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swasthya/medrec-api/internal/handler"
	"github.com/swasthya/medrec-api/internal/service/healthtip"
)

type Handler struct {
	service healthtip.HealthTipService
}

func NewHandler(service healthtip.HealthTipService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	tips := r.Group("/health-tips")
	{
		tips.GET("/random", h.Random)
		tips.GET("/category/:category", h.ByCategory)
	}
}

func (h *Handler) Random(c *gin.Context) {
	tip, err := h.service.Random(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tip)
}

func (h *Handler) ByCategory(c *gin.Context) {
	tips, err := h.service.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": tips})
}

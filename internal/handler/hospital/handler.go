package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/handler"
	"github.com/swasthya/medrec-api/internal/middleware"
	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/service/hospital"
	"github.com/swasthya/medrec-api/pkg/errors"
)

type Handler struct {
	service hospital.HospitalService
}

func NewHandler(service hospital.HospitalService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hospitalGroup := r.Group("/hospital")
	{
		profile := hospitalGroup.Group("/profile")
		{
			profile.GET("", h.GetProfile)
			profile.GET("/credentials", h.GetCredentials)

			profile.PATCH("/credentials", h.UpdateCredentials)
			profile.PATCH("/documents", h.UpdateDocuments)
			profile.PATCH("/photo", h.UpdatePhoto)
			profile.PATCH("/email", h.UpdateEmail)
			profile.PATCH("/phone", h.UpdatePhone)
			profile.PATCH("/password", h.UpdatePassword)
		}
	}
}

func claims(c *gin.Context) (model.TokenClaims, bool) {
	tc, ok := middleware.ClaimsFromContext(c)
	if !ok {
		handler.Error(c, errors.Unauthenticated("authorization token required", nil))
	}
	return tc, ok
}

func (h *Handler) GetProfile(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var targetID *uuid.UUID
	if raw := c.Query("hospital_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.Error(c, errors.Validation("hospital_id must be a valid uuid"))
			return
		}
		targetID = &id
	}
	profile, err := h.service.Profile(c.Request.Context(), tc, targetID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) GetCredentials(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	creds, err := h.service.Credentials(c.Request.Context(), tc)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, creds)
}

func (h *Handler) UpdateCredentials(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req model.UpdateHospitalCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("license_no, address, phone_no, type, license_valid_till and founded_on are required"))
		return
	}
	if err := h.service.UpdateCredentials(c.Request.Context(), tc, &req); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Credentials updated successfully", nil)
}

func (h *Handler) UpdateDocuments(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewDocuments string `json:"newDocuments" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("newDocuments is required"))
		return
	}
	if err := h.service.UpdateVerificationDocuments(c.Request.Context(), tc, req.NewDocuments); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Verification documents updated successfully", nil)
}

func (h *Handler) UpdatePhoto(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewPhoto string `json:"newPhoto" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("newPhoto is required"))
		return
	}
	if err := h.service.UpdatePhoto(c.Request.Context(), tc, req.NewPhoto); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Photo updated successfully", nil)
}

func (h *Handler) UpdateEmail(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewEmail string `json:"newEmail" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("a valid newEmail is required"))
		return
	}
	if err := h.service.UpdateEmail(c.Request.Context(), tc, req.NewEmail); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Email updated successfully", nil)
}

func (h *Handler) UpdatePhone(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewPhone string `json:"newPhone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("newPhone is required"))
		return
	}
	if err := h.service.UpdatePhone(c.Request.Context(), tc, req.NewPhone); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Phone number updated successfully", nil)
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		NewPassword string `json:"newPassword" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("newPassword must be at least 8 characters"))
		return
	}
	if err := h.service.UpdatePassword(c.Request.Context(), tc, req.NewPassword); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Password updated successfully", nil)
}

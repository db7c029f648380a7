package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/handler"
	"github.com/swasthya/medrec-api/internal/middleware"
	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/service/doctor"
	"github.com/swasthya/medrec-api/pkg/errors"
)

type Handler struct {
	service doctor.DoctorService
}

func NewHandler(service doctor.DoctorService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctorGroup := r.Group("/doctor")
	{
		profile := doctorGroup.Group("/profile")
		{
			profile.GET("", h.GetProfile)
			profile.GET("/credentials", h.GetCredentials)
			profile.GET("/basic", h.GetBasicDetails)

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
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.Error(c, errors.Validation("doctor_id must be a valid uuid"))
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

func (h *Handler) GetBasicDetails(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	details, err := h.service.BasicDetails(c.Request.Context(), tc)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) UpdateCredentials(c *gin.Context) {
	tc, ok := claims(c)
	if !ok {
		return
	}
	var req struct {
		Specialization  string `json:"specialization" binding:"required"`
		Qualification   string `json:"qualification"`
		LicenseNo       string `json:"license_no" binding:"required"`
		ExperienceYears int    `json:"experience_years"`
		HospitalName    string `json:"hospital_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("specialization and license_no are required"))
		return
	}
	creds := model.DoctorCredentials{
		Specialization:  req.Specialization,
		Qualification:   req.Qualification,
		LicenseNo:       req.LicenseNo,
		ExperienceYears: req.ExperienceYears,
		HospitalName:    req.HospitalName,
	}
	if err := h.service.UpdateCredentials(c.Request.Context(), tc, creds); err != nil {
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

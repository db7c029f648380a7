package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/swasthya/medrec-api/internal/handler"
	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/service/auth"
	"github.com/swasthya/medrec-api/pkg/errors"
)

type Handler struct {
	service auth.AuthService
}

func NewHandler(service auth.AuthService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signin", h.Signin)
		authGroup.POST("/signup", h.Signup)
	}
}

func (h *Handler) Signin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("email, password and role are required"))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User logged in successfully",
		"token":   resp.Token,
	})
}

// signupEnvelope peels the role off the signup body before the role-specific
// binding happens on the raw remainder.
type signupEnvelope struct {
	Role string `json:"role" binding:"required,role"`
}

func bindJSON(raw []byte, obj interface{}) error {
	return binding.JSON.BindBody(raw, obj)
}

func (h *Handler) Signup(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		handler.Error(c, errors.Validation("invalid request body"))
		return
	}

	var envelope signupEnvelope
	if err := bindJSON(raw, &envelope); err != nil {
		if envelope.Role == "" {
			handler.Error(c, errors.Validation("role is required"))
		} else {
			handler.Error(c, errors.Validation("invalid role specified"))
		}
		return
	}
	role, err := model.ParseRole(envelope.Role)
	if err != nil {
		handler.Error(c, errors.Validation("invalid role specified"))
		return
	}

	var resp *model.TokenResponse
	switch role {
	case model.RolePatient:
		var req model.SignupPatientRequest
		if err := bindJSON(raw, &req); err != nil {
			handler.Error(c, errors.Validation(err.Error()))
			return
		}
		resp, err = h.service.SignupPatient(c.Request.Context(), &req)
	case model.RoleDoctor:
		var req model.SignupDoctorRequest
		if err := bindJSON(raw, &req); err != nil {
			handler.Error(c, errors.Validation(err.Error()))
			return
		}
		resp, err = h.service.SignupDoctor(c.Request.Context(), &req)
	case model.RoleHospital:
		var req model.SignupHospitalRequest
		if err := bindJSON(raw, &req); err != nil {
			handler.Error(c, errors.Validation(err.Error()))
			return
		}
		resp, err = h.service.SignupHospital(c.Request.Context(), &req)
	case model.RoleExtern:
		var req model.SignupExternRequest
		if err := bindJSON(raw, &req); err != nil {
			handler.Error(c, errors.Validation(err.Error()))
			return
		}
		resp, err = h.service.SignupExtern(c.Request.Context(), &req)
	}
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   resp.Token,
		"data":    resp.User,
	})
}

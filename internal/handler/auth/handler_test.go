package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/validator"
)

type stubAuthService struct {
	lastLogin   *model.LoginRequest
	lastPatient *model.SignupPatientRequest
	lastDoctor  *model.SignupDoctorRequest
	loginErr    error
}

func (s *stubAuthService) Login(_ context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	s.lastLogin = req
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &model.TokenResponse{Token: "signed-token"}, nil
}

func (s *stubAuthService) SignupPatient(_ context.Context, req *model.SignupPatientRequest) (*model.TokenResponse, error) {
	s.lastPatient = req
	return &model.TokenResponse{Token: "patient-token", User: gin.H{"full_name": req.FullName}}, nil
}

func (s *stubAuthService) SignupDoctor(_ context.Context, req *model.SignupDoctorRequest) (*model.TokenResponse, error) {
	s.lastDoctor = req
	return &model.TokenResponse{Token: "doctor-token"}, nil
}

func (s *stubAuthService) SignupHospital(_ context.Context, _ *model.SignupHospitalRequest) (*model.TokenResponse, error) {
	return &model.TokenResponse{Token: "hospital-token"}, nil
}

func (s *stubAuthService) SignupExtern(_ context.Context, _ *model.SignupExternRequest) (*model.TokenResponse, error) {
	return &model.TokenResponse{Token: "extern-token"}, nil
}

func newAuthRouter(service *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		panic(err)
	}
	router := gin.New()
	NewHandler(service).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSigninReturnsToken(t *testing.T) {
	service := &stubAuthService{}
	router := newAuthRouter(service)

	w := post(router, "/api/v1/auth/signin",
		`{"email":"asha@example.com","password":"supersecret","role":"patient"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User logged in successfully","token":"signed-token"}`, w.Body.String())
	require.NotNil(t, service.lastLogin)
	assert.Equal(t, "asha@example.com", service.lastLogin.Email)
}

func TestSigninValidatesBody(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := post(router, "/api/v1/auth/signin", `{"email":"not-an-email","password":"x","role":"patient"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")

	w = post(router, "/api/v1/auth/signin", `{"email":"asha@example.com","password":"x","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSigninMapsServiceErrors(t *testing.T) {
	service := &stubAuthService{loginErr: errors.Unauthenticated("invalid credentials", nil)}
	router := newAuthRouter(service)

	w := post(router, "/api/v1/auth/signin",
		`{"email":"asha@example.com","password":"wrong","role":"patient"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())
}

func TestSignupDispatchesOnRole(t *testing.T) {
	service := &stubAuthService{}
	router := newAuthRouter(service)

	w := post(router, "/api/v1/auth/signup", `{
		"role": "patient",
		"full_name": "Asha Rao",
		"email": "asha@example.com",
		"password": "supersecret",
		"phone_no": "9876543210",
		"date_of_birth": "1990-06-15",
		"gender": "female"
	}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"patient-token"`)
	assert.Contains(t, w.Body.String(), "User created successfully")
	require.NotNil(t, service.lastPatient)
	assert.Equal(t, "Asha Rao", service.lastPatient.FullName)
	assert.Nil(t, service.lastDoctor)

	w = post(router, "/api/v1/auth/signup", `{
		"role": "doctor",
		"full_name": "Dr. Mehta",
		"email": "mehta@example.com",
		"password": "supersecret",
		"phone_no": "9876543211",
		"date_of_birth": "1980-01-01",
		"specialization": "cardiology",
		"license_no": "LIC-42"
	}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"doctor-token"`)
	require.NotNil(t, service.lastDoctor)
	assert.Equal(t, "cardiology", service.lastDoctor.Specialization)
}

func TestSignupRequiresRole(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := post(router, "/api/v1/auth/signup", `{"email":"asha@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"role is required"}`, w.Body.String())
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := post(router, "/api/v1/auth/signup", `{"role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid role specified"}`, w.Body.String())
}

func TestSignupValidatesRoleSpecificBody(t *testing.T) {
	service := &stubAuthService{}
	router := newAuthRouter(service)

	// Missing the required patient fields.
	w := post(router, "/api/v1/auth/signup", `{"role":"patient","email":"asha@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, service.lastPatient)

	// Dates must be YYYY-MM-DD at the binding layer already.
	w = post(router, "/api/v1/auth/signup", `{
		"role": "patient",
		"full_name": "Asha Rao",
		"email": "asha@example.com",
		"password": "supersecret",
		"phone_no": "9876543210",
		"date_of_birth": "15/06/1990",
		"gender": "female"
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, service.lastPatient)
}

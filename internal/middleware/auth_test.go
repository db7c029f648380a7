package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/pkg/auth"
)

func newAuthRouter(t *testing.T) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewJWTService("test-secret")
	router := gin.New()
	router.GET("/secure", NewAuthMiddleware(tokens).Authenticate(), func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": claims.ID, "role": claims.Role})
	})
	return router, tokens
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingHeader(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := request(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"authorization token required"}`, w.Body.String())
}

func TestAuthenticateBadHeaderFormat(t *testing.T) {
	router, tokens := newAuthRouter(t)
	token, err := tokens.Generate(uuid.New(), model.RolePatient)
	require.NoError(t, err)

	for _, header := range []string{"Basic abc", token, "Bearer " + token + " extra"} {
		w := request(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.JSONEq(t, `{"error":"invalid authorization format"}`, w.Body.String())
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := request(router, "Bearer not-a-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"invalid or expired token"}`, w.Body.String())
}

func TestAuthenticateRejectsForeignSecret(t *testing.T) {
	router, _ := newAuthRouter(t)
	forged, err := auth.NewJWTService("other-secret").Generate(uuid.New(), model.RolePatient)
	require.NoError(t, err)

	w := request(router, "Bearer "+forged)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthenticateStoresClaims(t *testing.T) {
	router, tokens := newAuthRouter(t)
	id := uuid.New()
	token, err := tokens.Generate(id, model.RoleDoctor)
	require.NoError(t, err)

	w := request(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())
	assert.Contains(t, w.Body.String(), string(model.RoleDoctor))
}

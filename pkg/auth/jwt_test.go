package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/internal/model"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	id := uuid.New()

	token, err := svc.Generate(id, model.RolePatient)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ID)
	assert.Equal(t, model.RolePatient, claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").Generate(uuid.New(), model.RoleDoctor)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret")
	_, err := svc.Verify("not.a.token")
	assert.Error(t, err)
}

func TestGenerateRejectsUnknownRole(t *testing.T) {
	svc := NewJWTService("test-secret")
	_, err := svc.Generate(uuid.New(), model.Role("superuser"))
	assert.Error(t, err)
}

func TestExpiryWindowIsSet(t *testing.T) {
	svc := NewJWTService("test-secret").(*jwtService)
	assert.Equal(t, TokenExpiry, svc.expiry)
}

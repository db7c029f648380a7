package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{Validation("missing field"), http.StatusBadRequest},
		{Unauthenticated("bad token", nil), http.StatusUnauthorized},
		{Forbidden("wrong role"), http.StatusForbidden},
		{NotFound("patient", nil), http.StatusNotFound},
		{Conflict("email", nil), http.StatusConflict},
		{Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode())
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	err := fmt.Errorf("driver: bad connection")
	appErr := From(err)
	assert.Equal(t, ErrInternal, appErr.Code)
	assert.ErrorIs(t, appErr, err)
}

func TestFromKeepsAppErrors(t *testing.T) {
	orig := NotFound("record", nil)
	wrapped := fmt.Errorf("list records: %w", orig)
	assert.Same(t, orig, From(wrapped))
	assert.True(t, Is(wrapped, ErrNotFound))
	assert.False(t, Is(wrapped, ErrConflict))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("unique_violation")
	err := Conflict("phone", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "phone")
}

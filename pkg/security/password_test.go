package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/pkg/errors"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse battery"))
	assert.Error(t, hasher.Compare(hash, "wrong password"))
}

func TestHashRejectsShortPasswords(t *testing.T) {
	hasher := NewBcryptHasher(4)

	_, err := hasher.Hash(strings.Repeat("x", MinPasswordLen-1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = hasher.Hash(strings.Repeat("x", MinPasswordLen))
	assert.NoError(t, err)
}

func TestInvalidCostFallsBackToDefault(t *testing.T) {
	hasher := NewBcryptHasher(99)
	hash, err := hasher.Hash("long enough password")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "long enough password"))
}

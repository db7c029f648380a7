package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/swasthya/medrec-api/pkg/errors"
)

// MinPasswordLen is the password length floor. The min=8 binding tags on the
// signup and password-update bodies mirror this value.
const MinPasswordLen = 8

// PasswordHasher hashes credentials at rest and verifies login attempts.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed hasher. A cost outside bcrypt's
// supported range falls back to the default.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", errors.Validation(fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", errors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	return string(hash), nil
}

func (b *bcryptHasher) Compare(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}

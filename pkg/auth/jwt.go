package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/model"
)

// TokenExpiry is the validity window of every issued session token.
const TokenExpiry = 24 * time.Hour

// Claims is the wire shape of a session token: the entity's role-specific
// primary key plus the role string.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies session tokens.
type JWTService interface {
	Generate(id uuid.UUID, role model.Role) (string, error)
	Verify(token string) (model.TokenClaims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService creates a token service signing with the given secret.
func NewJWTService(secret string) JWTService {
	return &jwtService{secret: []byte(secret), expiry: TokenExpiry}
}

func (s *jwtService) Generate(id uuid.UUID, role model.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("cannot issue token for role %q", role)
	}
	now := time.Now()
	claims := Claims{
		ID:   id.String(),
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtService) Verify(tokenString string) (model.TokenClaims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return model.TokenClaims{}, fmt.Errorf("invalid token")
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("invalid id in token: %w", err)
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("invalid role in token: %w", err)
	}

	return model.TokenClaims{ID: id, Role: role}, nil
}

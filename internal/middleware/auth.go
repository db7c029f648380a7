package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/pkg/auth"
)

const contextClaims = "token_claims"

type AuthMiddleware struct {
	tokens auth.JWTService
}

func NewAuthMiddleware(tokens auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token and stores the claims in the
// request context. A missing token is 401, a token that fails verification
// is 403.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(contextClaims, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the verified claims stored by Authenticate.
func ClaimsFromContext(c *gin.Context) (model.TokenClaims, bool) {
	value, ok := c.Get(contextClaims)
	if !ok {
		return model.TokenClaims{}, false
	}
	claims, ok := value.(model.TokenClaims)
	return claims, ok
}

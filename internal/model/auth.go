package model

import "github.com/google/uuid"

// TokenClaims is the verified identity of the caller, threaded explicitly
// into every service call that acts on its behalf.
type TokenClaims struct {
	ID   uuid.UUID
	Role Role
}

// LoginRequest is the signin body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,role"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user,omitempty"`
}

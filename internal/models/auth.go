package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the access token payload minted by the identity provider.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Handle string   `json:"handle,omitempty"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the caller holds the admin role.
func (c *JWTClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of a Directus access token's claims shown to
// the user. The signature is never checked; these are for display only.
type TokenClaims struct {
	UserID    string `json:"id"`
	Role      string `json:"role"`
	AppAccess bool   `json:"app_access"`
	jwt.RegisteredClaims
}

// ExpiresAt returns the token expiry, or the zero time when the claim is absent.
func (c *TokenClaims) ExpiresAt() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// Inspect decodes the claims of a JWT access token without verifying it.
func Inspect(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

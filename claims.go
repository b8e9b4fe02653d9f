package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType discriminates access tokens from refresh tokens.
type TokenType = string

const (
	// TokenTypeAccess is the short-lived bearer credential.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh is the long-lived rotation credential. Refresh tokens
	// carry only subject and type, never email or role.
	TokenTypeRefresh TokenType = "refresh"
)

// AuthClaims represents the validated claims of a decoded token
type AuthClaims interface {
	Subject() string
	Email() string
	Role() string
	Type() TokenType
	TokenID() string
	Expires() time.Time
	IssuedAt() time.Time
	IsAccess() bool
	IsRefresh() bool
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UserEmail string    `json:"email,omitempty"`
	UserRole  string    `json:"role,omitempty"`
	TokenType TokenType `json:"type,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Email returns the email claim; empty for refresh tokens
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// Role returns the role claim; empty for refresh tokens
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// Type returns the token type discriminator
func (c *JWTClaims) Type() TokenType {
	return c.TokenType
}

// TokenID returns the jti claim
func (c *JWTClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// IsAccess reports whether the token is an access token
func (c *JWTClaims) IsAccess() bool {
	return c.TokenType == TokenTypeAccess
}

// IsRefresh reports whether the token is a refresh token
func (c *JWTClaims) IsRefresh() bool {
	return c.TokenType == TokenTypeRefresh
}

// ensureTokenID assigns a fresh jti when none is present. Every minted token
// gets a distinct id so revocation sets can track it.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}

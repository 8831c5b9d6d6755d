package blog

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose distinguishes the two token flavors minted by the issuer.
// A reset token can never be presented as a session token or vice versa.
type TokenPurpose string

const (
	// PurposeSession is the long-lived bearer token (30 days)
	PurposeSession TokenPurpose = "session"
	// PurposePasswordReset is the short-lived reset token (1 hour)
	PurposePasswordReset TokenPurpose = "password_reset"
)

// AuthClaims is the decoded payload of a validated token: just the subject
// identifier, the purpose, and the validity window. Roles are never read
// from the token; the Authorizer loads them fresh from the store.
type AuthClaims interface {
	Subject() string
	UserID() string
	Purpose() TokenPurpose
	Expires() time.Time
	IssuedAt() time.Time
}

// SessionClaims is the concrete implementation of AuthClaims
type SessionClaims struct {
	jwt.RegisteredClaims
	UID          string `json:"uid,omitempty"`
	TokenPurpose string `json:"purpose,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*SessionClaims)(nil)

// Subject returns the subject claim
func (c *SessionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Purpose returns the token flavor, defaulting to session for tokens
// minted before the purpose claim existed
func (c *SessionClaims) Purpose() TokenPurpose {
	if c.TokenPurpose == "" {
		return PurposeSession
	}
	return TokenPurpose(c.TokenPurpose)
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

package blog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, error)
	Authenticate(ctx context.Context, bearerHeaderValue string) (AuthClaims, error)
}

// Authorizer decides access for a resolved identity claim. Role checks
// re-read the current role on every call so privilege changes take effect
// on the next request.
type Authorizer interface {
	AuthorizeAdmin(ctx context.Context, claims AuthClaims) error
	AuthorizeOwnerOrAdmin(ctx context.Context, claims AuthClaims, ownerID uuid.UUID) error
}

// SessionIssuer mints signed tokens and revokes them on sign-out
type SessionIssuer interface {
	IssueSession(ctx context.Context, identityID string) (string, error)
	IssueResetToken(ctx context.Context, identityID string) (string, error)
	ConsumeResetToken(ctx context.Context, token, newPassword string) error
	SignOut(ctx context.Context, token string) error
}

// TokenService signs and validates JWTs
type TokenService interface {
	SignClaims(claims *SessionClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
	Mint(identityID string, purpose TokenPurpose, ttl time.Duration) (string, time.Time, error)
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// IdentityProvider ensures we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// TokenBlacklist is the revoked-token store. IsRevoked matches the literal
// token string and deliberately does not filter by entry expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	PurgeExpired(ctx context.Context) (int, error)
}

// IdentityStore is the slice of the credential store the Authorizer needs
type IdentityStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetSessionDuration() int
	GetResetTokenDuration() int
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] BLOG "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] BLOG "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] BLOG "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] BLOG "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

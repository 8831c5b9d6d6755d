package blog

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes attached to the auth error taxonomy. The HTTP layer surfaces
// these verbatim so clients can branch without parsing messages.
const (
	TextCodeMissingCredential     = "MISSING_CREDENTIAL"
	TextCodeRevokedCredential     = "REVOKED_CREDENTIAL"
	TextCodeInvalidCredential     = "INVALID_CREDENTIAL"
	TextCodeTokenExpired          = "TOKEN_EXPIRED"
	TextCodeIdentityNotFound      = "IDENTITY_NOT_FOUND"
	TextCodeInsufficientRole      = "INSUFFICIENT_ROLE"
	TextCodeNotAuthorized         = "NOT_AUTHORIZED"
	TextCodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
)

// ErrMissingCredential means no bearer token was supplied
var ErrMissingCredential = errors.New("missing authentication credential", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeMissingCredential)

// ErrRevokedCredential means the token is blacklisted, regardless of its
// remaining cryptographic validity
var ErrRevokedCredential = errors.New("authentication credential has been revoked", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeRevokedCredential)

// ErrInvalidCredential means signature verification failed
var ErrInvalidCredential = errors.New("invalid authentication credential", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCredential)

// ErrTokenExpired means the token's exp claim is in the past
var ErrTokenExpired = errors.New("authentication credential has expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrIdentityNotFound is returned when a token's subject no longer exists
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeIdentityNotFound)

// ErrInsufficientRole is the admin-check failure
var ErrInsufficientRole = errors.New("insufficient role for this operation", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeInsufficientRole)

// ErrNotAuthorized is the ownership-check failure
var ErrNotAuthorized = errors.New("not authorized to access this resource", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeNotAuthorized)

// ErrInvalidOrExpiredToken is the reset-token specific failure: bad
// signature, consumed, overwritten, or past the stored expiry
var ErrInvalidOrExpiredToken = errors.New("invalid or expired password reset token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidOrExpiredToken)

// ErrMismatchedHashAndPassword is the login failure; deliberately the same
// for unknown identifier and wrong password
var ErrMismatchedHashAndPassword = errors.New("invalid credentials provided", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("value must not be an empty string", errors.CategoryValidation)

// WrapPersistence marks a store failure. The Authenticator treats these
// fail-closed: authentication is denied, never skipped.
func WrapPersistence(err error, msg string) *errors.Error {
	return errors.Wrap(err, errors.CategoryInternal, msg)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

package blog

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// Auther implements Authenticator. The blacklist lookup runs before the
// signature check so a revoked-but-still-valid token is rejected uniformly,
// independent of whether the key or verification path later changes.
type Auther struct {
	provider     IdentityProvider
	blacklist    TokenBlacklist
	issuer       SessionIssuer
	tokenService TokenService
	authScheme   string
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, blacklist TokenBlacklist, issuer SessionIssuer, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	scheme := opts.GetAuthScheme()
	if scheme == "" {
		scheme = "Bearer"
	}

	return &Auther{
		provider:     provider,
		blacklist:    blacklist,
		issuer:       issuer,
		tokenService: tokenService,
		authScheme:   scheme,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService sets a custom token service, mainly for tests
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the identifier/password pair and mints a session token
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrIdentityNotFound
	}

	token, err := s.issuer.IssueSession(ctx, identity.ID())
	if err != nil {
		s.logger.Error("Login failed to issue session", "error", err)
		return "", err
	}

	s.logger.Info("login succeeded", "user_id", identity.ID())

	return token, nil
}

// Authenticate resolves a bearer header value into an identity claim.
// Order matters: blacklist first, then signature and expiry, then decode.
// A blacklist store failure denies authentication (fail-closed).
func (s *Auther) Authenticate(ctx context.Context, bearerHeaderValue string) (AuthClaims, error) {
	raw, err := ExtractBearerToken(bearerHeaderValue, s.authScheme)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, raw)
	if err != nil {
		return nil, WrapPersistence(err, "blacklist lookup failed")
	}
	if revoked {
		return nil, ErrRevokedCredential
	}

	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		return nil, err
	}

	if claims.Purpose() != PurposeSession {
		return nil, ErrInvalidCredential
	}

	s.logger.Info("authenticated request", "subject", claims.Subject(), "expires", claims.Expires().Format(time.RFC3339))

	return claims, nil
}

// ExtractBearerToken pulls the raw token out of an Authorization header
// value of the form "<scheme> <token>"
func ExtractBearerToken(headerValue, scheme string) (string, error) {
	if scheme == "" {
		scheme = "Bearer"
	}

	value := strings.TrimSpace(headerValue)
	if value == "" {
		return "", ErrMissingCredential
	}

	prefix := scheme + " "
	if len(value) <= len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return "", ErrMissingCredential
	}

	token := strings.TrimSpace(value[len(prefix):])
	if token == "" {
		return "", ErrMissingCredential
	}

	return token, nil
}

// Package authware is the fiber middleware that guards protected routes.
// It delegates the whole decision to an Authenticator: blacklist first,
// then signature, then claim decoding. Claims end up in both fiber Locals
// and the request's standard context.
package authware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultContextKey is where validated claims are stored in fiber Locals
const DefaultContextKey = "auth_claims"

// AuthClaims mirrors the claims interface from the root package to avoid
// an import cycle
type AuthClaims interface {
	Subject() string
	UserID() string
	Expires() time.Time
	IssuedAt() time.Time
}

// Authenticator mirrors the root Authenticate contract
type Authenticator interface {
	Authenticate(ctx context.Context, bearerHeaderValue string) (AuthClaims, error)
}

// ContextEnricher propagates claims into the standard Go context
type ContextEnricher func(ctx context.Context, claims AuthClaims) context.Context

type Config struct {
	// Filter skips the middleware when it returns true
	Filter func(*fiber.Ctx) bool
	// Authenticator is required
	Authenticator Authenticator
	// ContextKey is the fiber Locals key for validated claims
	ContextKey string
	// ErrorHandler translates auth failures into responses
	ErrorHandler fiber.ErrorHandler
	// ContextEnricher, when set, is applied to the request context after
	// successful validation
	ContextEnricher ContextEnricher
}

// New returns the auth middleware
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)

		claims, err := cfg.Authenticator.Authenticate(c.UserContext(), header)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return c.Next()
	}
}

// ClaimsFromContext extracts validated claims from fiber Locals
func ClaimsFromContext(c *fiber.Ctx, key ...string) (AuthClaims, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}

	raw := c.Locals(k)
	if raw == nil {
		return nil, false
	}

	claims, ok := raw.(AuthClaims)
	return claims, ok
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		panic("authware: missing configuration")
	}

	cfg := config[0]

	if cfg.Authenticator == nil {
		panic("authware: an Authenticator is required")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": fiber.Map{"message": "unauthorized"},
			})
		}
	}

	return cfg
}

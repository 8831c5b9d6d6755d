package authware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-blog/middleware/authware"
)

type stubClaims struct {
	subject string
}

func (s stubClaims) Subject() string     { return s.subject }
func (s stubClaims) UserID() string      { return s.subject }
func (s stubClaims) Expires() time.Time  { return time.Now().Add(time.Hour) }
func (s stubClaims) IssuedAt() time.Time { return time.Now() }

type stubAuthenticator struct {
	claims     authware.AuthClaims
	err        error
	lastHeader string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, bearerHeaderValue string) (authware.AuthClaims, error) {
	s.lastHeader = bearerHeaderValue
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newTestApp(auther authware.Authenticator, cfg ...func(*authware.Config)) *fiber.App {
	config := authware.Config{
		Authenticator: auther,
	}
	for _, fn := range cfg {
		fn(&config)
	}

	app := fiber.New()
	app.Use(authware.New(config))
	app.Get("/protected", func(c *fiber.Ctx) error {
		claims, ok := authware.ClaimsFromContext(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"subject": claims.Subject()})
	})

	return app
}

func TestAuthware(t *testing.T) {
	t.Run("passes the raw header to the authenticator", func(t *testing.T) {
		auther := &stubAuthenticator{claims: stubClaims{subject: "user-1"}}
		app := newTestApp(auther)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer some-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Bearer some-token", auther.lastHeader)
	})

	t.Run("rejects when the authenticator fails", func(t *testing.T) {
		auther := &stubAuthenticator{err: errors.New("nope")}
		app := newTestApp(auther)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("custom error handler decides the response", func(t *testing.T) {
		auther := &stubAuthenticator{err: errors.New("nope")}
		app := newTestApp(auther, func(cfg *authware.Config) {
			cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
				return c.SendStatus(fiber.StatusTeapot)
			}
		})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	})

	t.Run("filter skips authentication", func(t *testing.T) {
		auther := &stubAuthenticator{err: errors.New("should not be called")}
		app := fiber.New()
		app.Use(authware.New(authware.Config{
			Authenticator: auther,
			Filter:        func(c *fiber.Ctx) bool { return true },
		}))
		app.Get("/open", func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, auther.lastHeader)
	})

	t.Run("context enricher sees the claims", func(t *testing.T) {
		auther := &stubAuthenticator{claims: stubClaims{subject: "user-2"}}

		var enriched authware.AuthClaims
		app := newTestApp(auther, func(cfg *authware.Config) {
			cfg.ContextEnricher = func(ctx context.Context, claims authware.AuthClaims) context.Context {
				enriched = claims
				return ctx
			}
		})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer some-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, enriched)
		assert.Equal(t, "user-2", enriched.Subject())
	})

	t.Run("panics without an authenticator", func(t *testing.T) {
		assert.Panics(t, func() {
			authware.New(authware.Config{})
		})
	})
}

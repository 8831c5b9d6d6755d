// Package server wires the blog HTTP surface: auth endpoints, post,
// comment, and category CRUD, the auth middleware, rate limiting, and the
// translation of the error taxonomy into the fixed JSON response shape.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/middleware/authware"
)

// Options carries the collaborators the server needs. Everything is
// injected; the server owns no connections.
type Options struct {
	Repo          blog.RepositoryManager
	Auth          blog.Authenticator
	Authorizer    blog.Authorizer
	Issuer        blog.SessionIssuer
	Logger        blog.Logger
	AuthScheme    string
	RateLimit     int
	RateLimitExpr time.Duration
	// Debug attaches internal error detail to responses; keep off in
	// production
	Debug bool
}

type Server struct {
	app        *fiber.App
	repo       blog.RepositoryManager
	auth       blog.Authenticator
	authorizer blog.Authorizer
	issuer     blog.SessionIssuer
	logger     blog.Logger
	authScheme string
	debug      bool

	register   *blog.RegisterUserHandler
	resetInit  *blog.InitializePasswordResetHandler
	resetFinal *blog.FinalizePasswordResetHandler
}

// New builds the fiber app with all routes registered
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	scheme := opts.AuthScheme
	if scheme == "" {
		scheme = "Bearer"
	}

	s := &Server{
		repo:       opts.Repo,
		auth:       opts.Auth,
		authorizer: opts.Authorizer,
		issuer:     opts.Issuer,
		logger:     logger,
		authScheme: scheme,
		debug:      opts.Debug,
		register:   blog.NewRegisterUserHandler(opts.Repo),
		resetInit:  blog.NewInitializePasswordResetHandler(opts.Repo, opts.Issuer).WithLogger(logger),
		resetFinal: blog.NewFinalizePasswordResetHandler(opts.Issuer).WithLogger(logger),
	}

	app := fiber.New(fiber.Config{
		AppName:      "go-blog",
		ErrorHandler: s.errorHandler,
	})

	app.Use(recover.New())

	max := opts.RateLimit
	if max <= 0 {
		max = 60
	}
	expiration := opts.RateLimitExpr
	if expiration <= 0 {
		expiration = time.Minute
	}

	// off-the-shelf sliding window keyed by client address
	app.Use(limiter.New(limiter.Config{
		Max:                    max,
		Expiration:             expiration,
		LimiterMiddleware:      limiter.SlidingWindow{},
		SkipSuccessfulRequests: false,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(errorBody("too many requests", "RATE_LIMITED", ""))
		},
	}))

	s.app = app
	s.routes()

	return s
}

// App exposes the fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	protected := s.protected()

	auth := s.app.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Post("/sign-out", s.SignOut)
	auth.Post("/password-reset", s.PasswordResetInit)
	auth.Post("/password-reset/confirm", s.PasswordResetConfirm)
	auth.Get("/me", protected, s.Me)

	posts := s.app.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Get("/:id", s.ShowPost)
	posts.Post("/", protected, s.CreatePost)
	posts.Put("/:id", protected, s.UpdatePost)
	posts.Delete("/:id", protected, s.DeletePost)

	posts.Get("/:id/comments", s.ListComments)
	posts.Post("/:id/comments", protected, s.CreateComment)
	s.app.Put("/comments/:id", protected, s.UpdateComment)
	s.app.Delete("/comments/:id", protected, s.DeleteComment)

	categories := s.app.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Post("/", protected, s.CreateCategory)
	categories.Put("/:id", protected, s.UpdateCategory)
	categories.Delete("/:id", protected, s.DeleteCategory)
}

func (s *Server) protected() fiber.Handler {
	return authware.New(authware.Config{
		Authenticator: autherAdapter{auth: s.auth},
		ContextKey:    authware.DefaultContextKey,
		ErrorHandler:  s.errorHandler,
		ContextEnricher: func(ctx context.Context, claims authware.AuthClaims) context.Context {
			if ac, ok := claims.(blog.AuthClaims); ok {
				return blog.WithClaimsContext(ctx, ac)
			}
			return ctx
		},
	})
}

// autherAdapter narrows the root Authenticator to the middleware contract
type autherAdapter struct {
	auth blog.Authenticator
}

func (a autherAdapter) Authenticate(ctx context.Context, bearerHeaderValue string) (authware.AuthClaims, error) {
	claims, err := a.auth.Authenticate(ctx, bearerHeaderValue)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// claims pulls the validated claims for a protected handler. The
// middleware guarantees presence; a miss means a wiring bug.
func (s *Server) claims(c *fiber.Ctx) (blog.AuthClaims, error) {
	raw, ok := authware.ClaimsFromContext(c)
	if !ok {
		return nil, blog.ErrMissingCredential
	}

	claims, ok := raw.(blog.AuthClaims)
	if !ok {
		return nil, blog.ErrMissingCredential
	}

	return claims, nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Package config reads runtime configuration from the environment. A
// local .env file, when present, is loaded first so development setups
// need no exported variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load pulls a dotenv file into the process environment. A missing file
// is not an error; real environment variables always win.
func Load(files ...string) {
	godotenv.Load(files...)
}

func IsDebug() bool {
	return os.Getenv("BLOG_DEBUG") == "true"
}

func GetLogLevel() string {
	level := os.Getenv("BLOG_LOG_LEVEL")
	if level == "" {
		if IsDebug() {
			return "debug"
		}
		return "info"
	}
	return level
}

func GetServerAddr() string {
	addr := os.Getenv("BLOG_SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return addr
}

func GetDatabaseDSN() string {
	dsn := os.Getenv("BLOG_DATABASE_DSN")
	if dsn == "" {
		dsn = "file:blog.db?cache=shared&mode=rwc"
	}
	return dsn
}

func GetRateLimit() int {
	return getInt("BLOG_RATE_LIMIT", 60)
}

// Auth holds the token signing options handed to the authenticator and
// the session issuer.
type Auth struct {
	SigningKey         string
	SigningMethod      string
	ContextKey         string
	SessionDuration    int
	ResetTokenDuration int
	AuthScheme         string
	Issuer             string
	Audience           []string
}

// GetAuth builds the auth options from the environment.
// BLOG_SIGNING_KEY has no default; the caller decides whether an empty
// key is fatal.
func GetAuth() *Auth {
	return &Auth{
		SigningKey:         os.Getenv("BLOG_SIGNING_KEY"),
		SigningMethod:      getString("BLOG_SIGNING_METHOD", "HS256"),
		ContextKey:         getString("BLOG_CONTEXT_KEY", "auth_claims"),
		SessionDuration:    getInt("BLOG_SESSION_DURATION_HOURS", 0),
		ResetTokenDuration: getInt("BLOG_RESET_TOKEN_DURATION_HOURS", 0),
		AuthScheme:         getString("BLOG_AUTH_SCHEME", "Bearer"),
		Issuer:             getString("BLOG_TOKEN_ISSUER", "go-blog"),
		Audience:           getList("BLOG_TOKEN_AUDIENCE", []string{"go-blog"}),
	}
}

func (a *Auth) GetSigningKey() string      { return a.SigningKey }
func (a *Auth) GetSigningMethod() string   { return a.SigningMethod }
func (a *Auth) GetContextKey() string      { return a.ContextKey }
func (a *Auth) GetSessionDuration() int    { return a.SessionDuration }
func (a *Auth) GetResetTokenDuration() int { return a.ResetTokenDuration }
func (a *Auth) GetAuthScheme() string      { return a.AuthScheme }
func (a *Auth) GetIssuer() string          { return a.Issuer }
func (a *Auth) GetAudience() []string      { return a.Audience }

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func getList(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

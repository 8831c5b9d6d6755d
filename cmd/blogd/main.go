package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/config"
	"github.com/goliatone/go-blog/server"
)

func main() {
	config.Load()

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(logLevel()),
		glog.WithName("blogd"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	authCfg := config.GetAuth()
	if authCfg.GetSigningKey() == "" {
		log.Fatal("BLOG_SIGNING_KEY is required")
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(map[string]any{
		"addr":       config.GetServerAddr(),
		"dsn":        config.GetDatabaseDSN(),
		"issuer":     authCfg.GetIssuer(),
		"audience":   authCfg.GetAudience(),
		"scheme":     authCfg.GetAuthScheme(),
		"rate_limit": config.GetRateLimit(),
		"debug":      config.IsDebug(),
	}))
	fmt.Println("============")

	ctx := context.Background()

	db, err := openDatabase(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	repo := blog.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.Fatal(err)
	}

	blacklist := repo.RevokedTokens()

	provider := blog.NewUserProvider(blog.NewUserStore(repo.Users())).
		WithLogger(lgr.GetLogger("auth:prv"))

	tokens := blog.NewTokenService(
		[]byte(authCfg.GetSigningKey()),
		authCfg.GetIssuer(),
		authCfg.GetAudience(),
		lgr.GetLogger("auth:jwt"),
	)

	issuer := blog.NewIssuer(tokens, blacklist, repo, authCfg).
		WithLogger(lgr.GetLogger("auth:issuer"))

	auther := blog.NewAuthenticator(provider, blacklist, issuer, authCfg).
		WithTokenService(tokens).
		WithLogger(lgr.GetLogger("auth:authn"))

	authorizer := blog.NewAuthorizer(repo.Users()).
		WithLogger(lgr.GetLogger("auth:authz"))

	srv := server.New(server.Options{
		Repo:       repo,
		Auth:       auther,
		Authorizer: authorizer,
		Issuer:     issuer,
		Logger:     lgr.GetLogger("http"),
		AuthScheme: authCfg.GetAuthScheme(),
		RateLimit:  config.GetRateLimit(),
		Debug:      config.IsDebug(),
	})

	go purgeExpiredTokens(ctx, blacklist, lgr.GetLogger("blacklist"))

	go func() {
		if err := srv.Listen(config.GetServerAddr()); err != nil {
			log.Fatal(err)
		}
	}()

	WaitExitSignal()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lgr.GetLogger("http").Error("shutdown error", "error", err)
	}
}

func openDatabase(ctx context.Context) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, config.GetDatabaseDSN())
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := bootstrapSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// bootstrapSchema creates missing tables. Idempotent, safe on every start.
func bootstrapSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*blog.User)(nil),
		(*blog.RevokedToken)(nil),
		(*blog.Category)(nil),
		(*blog.Post)(nil),
		(*blog.Comment)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

// purgeExpiredTokens trims the blacklist once an hour. Rows past their
// expiry can no longer match a live token.
func purgeExpiredTokens(ctx context.Context, blacklist blog.TokenBlacklist, logger glog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := blacklist.PurgeExpired(ctx)
			if err != nil {
				logger.Error("blacklist purge failed", "error", err)
				continue
			}
			if purged > 0 {
				logger.Info("purged expired blacklist entries", "count", purged)
			}
		}
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

func logLevel() string {
	switch config.GetLogLevel() {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "warn":
		return glog.Warn
	case "error":
		return glog.Error
	default:
		return glog.Info
	}
}

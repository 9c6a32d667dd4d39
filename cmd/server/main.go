package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-credentials"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// AppConfig is loaded from the environment and satisfies credentials.Config.
type AppConfig struct {
	SigningKey string        `env:"CREDENTIALS_SIGNING_KEY"`
	ContextKey string        `env:"CREDENTIALS_CONTEXT_KEY" envDefault:"user"`
	TokenTTL   time.Duration `env:"CREDENTIALS_TOKEN_TTL" envDefault:"1h"`
	Issuer     string        `env:"CREDENTIALS_ISSUER" envDefault:"go-credentials"`
	Audience   []string      `env:"CREDENTIALS_AUDIENCE" envSeparator:","`
	DSN        string        `env:"CREDENTIALS_DSN" envDefault:"file:credentials.db"`
	Addr       string        `env:"CREDENTIALS_ADDR" envDefault:":8572"`
	Debug      bool          `env:"CREDENTIALS_DEBUG" envDefault:"false"`
}

func (c AppConfig) GetSigningKey() string      { return c.SigningKey }
func (c AppConfig) GetSigningMethod() string   { return "HS256" }
func (c AppConfig) GetContextKey() string      { return c.ContextKey }
func (c AppConfig) GetTokenTTL() time.Duration { return c.TokenTTL }
func (c AppConfig) GetTokenLookup() string     { return "header:" + router.HeaderAuthorization }
func (c AppConfig) GetAuthScheme() string      { return "Bearer" }
func (c AppConfig) GetIssuer() string          { return c.Issuer }
func (c AppConfig) GetAudience() []string      { return c.Audience }

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("credentials"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.SigningKey == "" {
		log.Fatal("CREDENTIALS_SIGNING_KEY is required")
	}

	ctx := context.Background()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}

	bundb := bun.NewDB(sqldb, sqlitedialect.New())

	if err := credentials.RunMigrations(ctx, bundb); err != nil {
		log.Fatal(err)
	}

	repo := credentials.NewRepositoryManager(bundb)
	repo.MustValidate()

	tokens, err := credentials.NewTokenServiceFromConfig(cfg, lgr.GetLogger("tokens"))
	if err != nil {
		log.Fatal(err)
	}

	svc := credentials.NewService(repo, tokens).
		WithLogger(lgr.GetLogger("service"))

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: cfg.Debug,
			StrictRouting:     false,
		}))
	})

	guard := credentials.ProtectedRoute(cfg, tokens, nil)

	credentials.RegisterAuthRoutes(
		srv.Router(),
		guard,
		credentials.WithControllerService(svc),
		credentials.WithControllerLogger(lgr.GetLogger("http")),
		credentials.WithControllerDebug(cfg.Debug),
	)

	srv.Serve(cfg.Addr)

	WaitExitSignal()
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

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-library/auth"
	"github.com/diewo77/go-library/internal/config"
	"github.com/diewo77/go-library/internal/db"
	"github.com/diewo77/go-library/internal/logger"
	"github.com/diewo77/go-library/internal/policy"
	"github.com/rs/zerolog"
)

var (
	configFlag      = flag.String("config", "", "Optional YAML config file")
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Load fixtures and exit")
	fixturesFlag    = flag.Bool("fixtures", false, "Load fixtures before serving")
)

func main() {
	flag.Parse()
	started := time.Now()

	var opts []config.Option
	if *configFlag != "" {
		opts = append(opts, config.WithFile(*configFlag))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("load configuration")
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log, started); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger, started time.Time) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.Database, logger.Component(log, "db"))
	if err != nil {
		return err
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(conn); err != nil {
			return err
		}
		log.Info().Msg("migrations completed")
		return nil
	}
	if cfg.App.Migrations {
		if err := db.Migrate(conn); err != nil {
			return err
		}
		log.Info().Msg("migrations completed")
	}

	if *seedOnlyFlag || *fixturesFlag {
		n, err := db.LoadFixtures(ctx, conn, cfg.App.FixturesPath)
		if err != nil {
			return err
		}
		log.Info().Int("records", n).Str("path", cfg.App.FixturesPath).Msg("fixtures loaded")
		if *seedOnlyFlag {
			return nil
		}
	}

	verifier, err := auth.NewVerifier(auth.Config{
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		JWKSURL:  cfg.Auth.JWKSEndpoint(),
		Secret:   cfg.Auth.Secret,
	})
	if err != nil {
		return err
	}

	routerCfg, err := policy.NewRouterConfig(conn, log, started)
	if err != nil {
		return err
	}
	app, err := NewApp(routerCfg, verifier, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.App.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

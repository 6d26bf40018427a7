package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/solvento/hrcore/internal/api"
	"github.com/solvento/hrcore/internal/app"
	"github.com/solvento/hrcore/internal/app/maintenance"
	"github.com/solvento/hrcore/internal/auth"
	"github.com/solvento/hrcore/internal/database"
	"github.com/solvento/hrcore/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("orgadmin", flag.ContinueOnError)
	configPath := flags.String("config", "", "directory containing config.yaml")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.WithModule("server")

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.SeedDefaults(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return err
	}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.Auth.JWTSecret,
		Issuer:         cfg.Auth.JWTIssuer,
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
	})
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(db, jwtService)

	if cfg.Maintenance.Enabled {
		cleaner := maintenance.NewCleaner(db,
			maintenance.WithSchedule(cfg.Maintenance.Schedule),
			maintenance.WithRetention(cfg.Maintenance.Retention),
		)
		if err := cleaner.Start(); err != nil {
			return err
		}
		defer cleaner.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

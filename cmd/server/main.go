package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/config"
	"github.com/LilianBoulard/FrenchBirthRates2019/internal/handlers"
	"github.com/LilianBoulard/FrenchBirthRates2019/internal/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting births dashboard", "year", cfg.Data.Year, "births_file", cfg.Data.BirthsPath())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// All aggregation happens here, before the server comes up. A load
	// failure is fatal; the dashboard never serves partial data.
	birthsService := services.NewBirthsService(cfg.Data.BirthsPath(), logger)
	if err := birthsService.Load(); err != nil {
		return fmt.Errorf("loading births: %w", err)
	}

	geoService := services.NewGeoService(cfg.Data.BoundariesURL, cfg.Data.BoundariesPath(), cfg.Data.FetchTimeout, logger)
	departments, err := geoService.LoadDepartments(ctx)
	if err != nil {
		return fmt.Errorf("loading boundaries: %w", err)
	}

	statsService := services.NewStatsService(birthsService.Records(), cfg.Data.Year)
	summary := statsService.BuildSummary(departments)

	handler, err := handlers.NewDashboardHandler(summary, departments, logger)
	if err != nil {
		return fmt.Errorf("building dashboard: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("dashboard listening", "addr", cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

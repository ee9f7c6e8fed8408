package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"tmyreport/internal/config"
	"tmyreport/internal/fetchers"
	"tmyreport/internal/logger"
	"tmyreport/internal/observability"
	"tmyreport/internal/reports"
	"tmyreport/internal/scheduler"
	"tmyreport/internal/server"
	"tmyreport/internal/storage"
)

// buildServer wires storage, fetcher and generator for cfg and registers metrics with reg
func buildServer(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*server.Server, error) {
	def, err := config.LoadReport(cfg)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics(reg)
	fetcher := fetchers.NewFromConfig(cfg, metrics)
	generator := reports.NewReportGenerator(def, fetcher, client, reports.WithMetrics(metrics))

	return server.NewServer(generator, client, server.WithMetrics(metrics, reg)), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		logger.Fatal("Invalid logging configuration", err)
	}

	logger.Info("Starting TMY report service", map[string]interface{}{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"deployment":  cfg.DeploymentMode,
		"mockup_mode": cfg.MockupMode,
		"version":     config.GetVersion(),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := buildServer(ctx, cfg, reg)
	if err != nil {
		logger.Fatal("Failed to create server", err)
	}
	defer srv.Close()

	if cfg.ReportInterval > 0 {
		sched := scheduler.New(cfg.ReportInterval, cfg.HTTPTimeout*2, func(ctx context.Context) error {
			_, err := srv.Generate(ctx)
			return err
		})
		if err := sched.Start(); err != nil {
			logger.Fatal("Failed to start scheduler", err)
		}
		defer sched.Stop()
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}
	logger.Info("Server stopped")
}

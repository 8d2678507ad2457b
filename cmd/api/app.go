package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"raptor.opentransit.org/internal/app"
	"raptor.opentransit.org/internal/appconf"
	"raptor.opentransit.org/internal/clock"
	"raptor.opentransit.org/internal/gtfs"
	"raptor.opentransit.org/internal/logging"
	"raptor.opentransit.org/internal/metrics"
	"raptor.opentransit.org/internal/restapi"
	"raptor.opentransit.org/internal/webui"
)

// ParseAPIKeys splits a comma-separated flag value into trimmed keys.
func ParseAPIKeys(flagValue string) []string {
	if flagValue == "" {
		return []string{}
	}
	keys := strings.Split(flagValue, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}
	return keys
}

// BuildApplication assembles the shared application dependencies: logger,
// transit data manager, metrics, and clock.
func BuildApplication(cfg appconf.Config, gtfsCfg gtfs.Config) (*app.Application, error) {
	logLevel := slog.LevelInfo
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := logging.NewStructuredLogger(os.Stdout, logLevel)
	slog.SetDefault(logger)

	gtfsManager, err := gtfs.InitGTFSManager(gtfsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GTFS manager: %w", err)
	}

	appMetrics := metrics.NewWithLogger(logger)
	gtfsManager.SetMetrics(appMetrics)

	return &app.Application{
		Config:      cfg,
		GtfsConfig:  gtfsCfg,
		Logger:      logger,
		GtfsManager: gtfsManager,
		Clock:       clock.RealClock{},
		Metrics:     appMetrics,
	}, nil
}

// CreateServer builds the HTTP server with all routes and middleware wired.
// The returned RestAPI must be shut down when the server stops.
func CreateServer(coreApp *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.New(coreApp)

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	webui.New(coreApp).SetRoutes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(coreApp.Metrics.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Middleware(mux),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(coreApp.Logger.Handler(), slog.LevelError),
	}

	return srv, api
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func Run(cfg appconf.Config, gtfsCfg gtfs.Config) error {
	coreApp, err := BuildApplication(cfg, gtfsCfg)
	if err != nil {
		return err
	}
	defer coreApp.GtfsManager.Shutdown()
	defer coreApp.Metrics.Shutdown()

	srv, api := CreateServer(coreApp, cfg)
	defer api.Shutdown()

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit

		logging.LogOperation(coreApp.Logger, "shutting_down_server",
			slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	logging.LogOperation(coreApp.Logger, "starting_server",
		slog.String("addr", srv.Addr),
		slog.String("env", cfg.Env.String()))

	err = srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	logging.LogOperation(coreApp.Logger, "server_stopped")
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/rre-dashboard/internal/api"
	v1 "github.com/stacklok/rre-dashboard/internal/api/v1"
	"github.com/stacklok/rre-dashboard/internal/config"
	"github.com/stacklok/rre-dashboard/internal/sync/coordinator"
	"github.com/stacklok/rre-dashboard/internal/telemetry"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the evaluation server and serve the control API",
	Long: `Poll the evaluation server on a fixed interval, merge every list into the
in-memory dashboard state and serve it over the control API until interrupted.`,
	RunE: runWatch,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	// selection changes fetch a whole branch synchronously
	serverRequestTimeout = 60 * time.Second
	serverReadTimeout    = 10 * time.Second
	serverWriteTimeout   = 65 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout    = 60 * time.Second
)

func init() {
	watchCmd.Flags().Bool("open", false, "Open the evaluation server in a browser once running")
	watchCmd.Flags().Bool("full-cascade", false, "Refresh every selected branch on every cycle")
	watchCmd.Flags().Duration("interval", config.DefaultInterval, "Polling interval")
	watchCmd.Flags().String("address", config.DefaultAPIAddress, "Control API listen address")

	bindFlag(watchCmd, "sync.fullCascade", "full-cascade")
	bindFlag(watchCmd, "sync.interval", "interval")
	bindFlag(watchCmd, "api.address", "address")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		slog.Error("Failed to bind flag", "flag", flag, "error", err)
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tel, err := telemetry.New(ctx,
		telemetry.WithTelemetryConfig(cfg.Telemetry),
		telemetry.WithUpstreamURL(cfg.Server.URL),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	comps, err := buildComponents(cfg, tel)
	if err != nil {
		return err
	}

	coord := coordinator.New(comps.synchronizer, cfg.Sync.Interval,
		coordinator.WithSyncMetrics(comps.syncMetrics))
	coordErr := make(chan error, 1)
	go func() {
		coordErr <- coord.Start(ctx)
	}()

	var server *http.Server
	if cfg.API.Enabled {
		server, err = newHTTPServer(cfg, comps, tel)
		if err != nil {
			_ = coord.Stop()
			return err
		}
		go func() {
			slog.Info("Control API listening", "address", cfg.API.Address)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Control API failed", "error", err)
				stop()
			}
		}()
	}

	if open, _ := cmd.Flags().GetBool("open"); open {
		if err := browser.OpenURL(cfg.Server.URL); err != nil {
			slog.Warn("Failed to open browser", "url", cfg.Server.URL, "error", err)
		}
	}

	<-ctx.Done()
	slog.Info("Shutting down")

	if err := coord.Stop(); err != nil {
		slog.Error("Failed to stop coordinator", "error", err)
	}
	if err := <-coordErr; err != nil {
		slog.Error("Coordinator failed", "error", err)
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("control API forced to shutdown: %w", err)
		}
	}

	slog.Info("Shutdown complete")
	return nil
}

// newHTTPServer wires the control API router and its middleware
func newHTTPServer(cfg *config.Config, comps *components, tel *telemetry.Telemetry) (*http.Server, error) {
	httpMetrics, err := telemetry.NewHTTPMetrics(tel.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	routes := v1.NewRoutes(comps.state, comps.tracker, comps.synchronizer, comps.gateway)
	router := api.NewServer(routes,
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			telemetry.TracingMiddleware(tel.TracerProvider()),
			httpMetrics.Middleware,
			middleware.Timeout(serverRequestTimeout),
			api.LoggingMiddleware,
		),
		api.WithMetricsHandler(tel.MetricsHandler()),
	)

	return &http.Server{
		Addr:         cfg.API.Address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}, nil
}

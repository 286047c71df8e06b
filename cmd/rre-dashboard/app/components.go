package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/stacklok/rre-dashboard/internal/config"
	"github.com/stacklok/rre-dashboard/internal/dashboard"
	"github.com/stacklok/rre-dashboard/internal/gateway"
	"github.com/stacklok/rre-dashboard/internal/httpclient"
	"github.com/stacklok/rre-dashboard/internal/status"
	pkgsync "github.com/stacklok/rre-dashboard/internal/sync"
	"github.com/stacklok/rre-dashboard/internal/telemetry"
	"github.com/stacklok/rre-dashboard/internal/versions"
)

// components are the long-lived pieces shared by watch and snapshot
type components struct {
	state        *dashboard.State
	tracker      *status.Tracker
	gateway      gateway.Gateway
	synchronizer pkgsync.Synchronizer
	syncMetrics  *telemetry.SyncMetrics
}

// loadConfig reads the configuration named by --config, or the XDG default
func loadConfig() (*config.Config, error) {
	opts := []config.Option{config.WithViper(viper.GetViper())}
	if path := viper.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}

	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Loaded configuration",
		"server", cfg.Server.URL,
		"interval", cfg.Sync.Interval,
		"full_cascade", cfg.Sync.FullCascade)
	return cfg, nil
}

func buildComponents(cfg *config.Config, tel *telemetry.Telemetry) (*components, error) {
	client := httpclient.NewDefaultClient(cfg.Server.RequestTimeout,
		httpclient.WithTracerProvider(tel.TracerProvider()),
		httpclient.WithUserAgent(versions.GetVersionInfo().UserAgent()),
	)

	gw, err := gateway.New(client, cfg.Server.Endpoints())
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}

	syncMetrics, err := telemetry.NewSyncMetrics(tel.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create sync metrics: %w", err)
	}

	state := dashboard.NewState()
	tracker := status.NewTracker()
	synchronizer := pkgsync.New(gw, state,
		pkgsync.WithSyncMetrics(syncMetrics),
		pkgsync.WithStatusTracker(tracker),
		pkgsync.WithTracerProvider(tel.TracerProvider()),
		pkgsync.WithMaxConcurrentFetches(cfg.Sync.MaxConcurrentFetches),
		pkgsync.WithFullCascade(cfg.Sync.FullCascade),
	)

	return &components{
		state:        state,
		tracker:      tracker,
		gateway:      gw,
		synchronizer: synchronizer,
		syncMetrics:  syncMetrics,
	}, nil
}

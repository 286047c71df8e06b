// Package config provides configuration loading and management for the evaluation dashboard client.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/stacklok/rre-dashboard/internal/telemetry"
)

const (
	// EnvPrefix is the prefix for environment variable overrides (RRE_DASHBOARD_SYNC_INTERVAL, ...)
	EnvPrefix = "RRE_DASHBOARD"

	// DefaultServerURL is the default location of the evaluation server
	DefaultServerURL = "http://localhost:8080"

	// DefaultBasePath is the path under which the evaluation server exposes its endpoints
	DefaultBasePath = "/evaluation"

	// DefaultInterval is the default polling interval
	DefaultInterval = 60 * time.Second

	// DefaultMaxConcurrentFetches bounds the topic and query group fan-out
	DefaultMaxConcurrentFetches = 4

	// DefaultAPIAddress is the default listen address of the control API
	DefaultAPIAddress = ":8090"

	// xdgConfigFile is the path searched under the XDG config directories
	xdgConfigFile = "rre-dashboard/config.yaml"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path  string
	viper *viper.Viper
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// WithViper uses the given viper instance, typically one with command flags already bound
func WithViper(v *viper.Viper) Option {
	return func(cfg *loaderConfig) error {
		if v == nil {
			return fmt.Errorf("viper instance cannot be nil")
		}
		cfg.viper = v
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Server describes the upstream evaluation server
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Sync controls the refresh cycle
	Sync SyncConfig `mapstructure:"sync" yaml:"sync"`

	// API configures the local control API
	API APIConfig `mapstructure:"api" yaml:"api"`

	// Telemetry configures OpenTelemetry metrics and tracing
	Telemetry *telemetry.Config `mapstructure:"telemetry" yaml:"telemetry,omitempty"`
}

// ServerConfig defines the evaluation server endpoint settings
type ServerConfig struct {
	// URL is the base URL of the evaluation server (scheme and host, optional prefix)
	URL string `mapstructure:"url" yaml:"url"`

	// BasePath is appended to URL; all endpoints hang off it
	BasePath string `mapstructure:"basePath" yaml:"basePath"`

	// RequestTimeout bounds each upstream request. Zero disables the timeout
	// and a stalled request only ends when the dashboard shuts down.
	RequestTimeout time.Duration `mapstructure:"requestTimeout" yaml:"requestTimeout,omitempty"`
}

// SyncConfig defines the refresh cycle settings
type SyncConfig struct {
	// Interval is the fixed polling interval
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`

	// MaxConcurrentFetches limits parallel topic and query group requests
	MaxConcurrentFetches int `mapstructure:"maxConcurrentFetches" yaml:"maxConcurrentFetches"`

	// FullCascade re-fetches topics and query groups for every selected
	// corpus on every cycle instead of only for changed branches
	FullCascade bool `mapstructure:"fullCascade" yaml:"fullCascade,omitempty"`
}

// APIConfig defines the control API settings
type APIConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Address string `mapstructure:"address" yaml:"address"`
}

// Endpoints holds the absolute URLs of every upstream endpoint
type Endpoints struct {
	Data           string
	MetricList     string
	VersionList    string
	CorpusList     string
	TopicList      string
	QueryGroupList string
	Filter         string
}

// ValidationError reports an invalid configuration field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

// SetDefaults registers every known key with its default value. Registering
// all keys lets AutomaticEnv resolve environment overrides during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.url", DefaultServerURL)
	v.SetDefault("server.basePath", DefaultBasePath)
	v.SetDefault("server.requestTimeout", time.Duration(0))
	v.SetDefault("sync.interval", DefaultInterval)
	v.SetDefault("sync.maxConcurrentFetches", DefaultMaxConcurrentFetches)
	v.SetDefault("sync.fullCascade", false)
	v.SetDefault("api.enabled", true)
	v.SetDefault("api.address", DefaultAPIAddress)
	telemetry.SetDefaults(v, "telemetry")
}

// LoadConfig loads configuration from defaults, an optional YAML file and
// RRE_DASHBOARD_* environment variables, in increasing order of precedence.
// Without an explicit path the XDG config directories are searched.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	v := loaderCfg.viper
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := loaderCfg.path
	if path == "" {
		if found, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
			path = found
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: "server.url", Message: "must be an absolute URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "server.url", Message: "scheme must be http or https"}
	}
	if c.Server.RequestTimeout < 0 {
		return &ValidationError{Field: "server.requestTimeout", Message: "must not be negative"}
	}
	if c.Sync.Interval <= 0 {
		return &ValidationError{Field: "sync.interval", Message: "must be positive"}
	}
	if c.Sync.MaxConcurrentFetches < 1 {
		return &ValidationError{Field: "sync.maxConcurrentFetches", Message: "must be at least 1"}
	}
	if c.API.Enabled && c.API.Address == "" {
		return &ValidationError{Field: "api.address", Message: "is required when the API is enabled"}
	}

	if err := c.Telemetry.Validate(); err != nil {
		return errors.Join(&ValidationError{Field: "telemetry", Message: "is invalid"}, err)
	}

	return nil
}

// Endpoints derives the upstream endpoint URLs from the server settings
func (c *ServerConfig) Endpoints() Endpoints {
	base := strings.TrimSuffix(c.URL, "/")
	basePath := "/" + strings.Trim(c.BasePath, "/")
	if basePath == "/" {
		basePath = ""
	}
	data := base + basePath

	return Endpoints{
		Data:           data,
		MetricList:     data + "/metricList",
		VersionList:    data + "/versionList",
		CorpusList:     data + "/corpusList",
		TopicList:      data + "/topicList",
		QueryGroupList: data + "/queryGroupList",
		Filter:         data + "/filter",
	}
}

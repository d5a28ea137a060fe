// Package config loads the YAML configuration shared by the wallet CLI and
// the trust service.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ruteri/tee-wallet-runtime/common"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
	"gopkg.in/yaml.v3"
)

// KindAuto selects the backend through auto-detection.
const KindAuto = "auto"

// Config represents the complete configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig selects and tunes the trust backend.
type BackendConfig struct {
	Kind        string        `yaml:"kind"`     // auto, enclave, trustzone
	Mode        string        `yaml:"mode"`     // local, simulated, remote, remote:<url>
	Endpoint    string        `yaml:"endpoint"` // remote trust service for mode "remote"
	Timeout     time.Duration `yaml:"timeout"`
	WalletDir   string        `yaml:"wallet_dir"`
	Development bool          `yaml:"development"`
}

// ServerConfig contains trust service HTTP settings.
type ServerConfig struct {
	ListenAddr   string `yaml:"listen_addr"`
	MetricsAddr  string `yaml:"metrics_addr"`
	Pprof        bool   `yaml:"pprof"`
	DrainSeconds int64  `yaml:"drain_seconds"`
}

// StorageConfig lists the wallet record stores of the trust service.
type StorageConfig struct {
	URIs []string `yaml:"uris"`
}

// LoggingConfig mirrors common.LoggingOpts.
type LoggingConfig struct {
	Debug   bool   `yaml:"debug"`
	JSON    bool   `yaml:"json"`
	Service string `yaml:"service"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Kind:        KindAuto,
			Endpoint:    common.DevEndpoint,
			Timeout:     10 * time.Second,
			Development: common.Development,
		},
		Server: ServerConfig{
			ListenAddr:   "127.0.0.1:3030",
			MetricsAddr:  "127.0.0.1:8090",
			DrainSeconds: 45,
		},
		Storage: StorageConfig{
			URIs: []string{"memory://"},
		},
		Logging: LoggingConfig{
			Service: "tee-wallet",
		},
	}
}

// Load reads configuration from a YAML file on top of Default and applies
// environment variable overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 - Config file path is provided by admin/user
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func envBool(name string, dst *bool) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring invalid environment override", "name", name, "value", v, "err", err)
		return
	}
	*dst = b
}

func envString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// applyEnvOverrides applies TEE_* environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	envString("TEE_BACKEND_KIND", &cfg.Backend.Kind)
	envString("TEE_BACKEND_MODE", &cfg.Backend.Mode)
	envString("TEE_REMOTE_ENDPOINT", &cfg.Backend.Endpoint)
	envString("TEE_WALLET_DIR", &cfg.Backend.WalletDir)
	envBool("TEE_DEVELOPMENT", &cfg.Backend.Development)

	if v := os.Getenv("TEE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("ignoring invalid environment override", "name", "TEE_TIMEOUT", "value", v, "err", err)
		} else {
			cfg.Backend.Timeout = d
		}
	}

	envString("TEE_LISTEN_ADDR", &cfg.Server.ListenAddr)
	envString("TEE_METRICS_ADDR", &cfg.Server.MetricsAddr)

	if v := os.Getenv("TEE_STORAGE_URIS"); v != "" {
		var uris []string
		for _, uri := range strings.Split(v, ",") {
			if uri = strings.TrimSpace(uri); uri != "" {
				uris = append(uris, uri)
			}
		}
		cfg.Storage.URIs = uris
	}

	envBool("TEE_LOG_DEBUG", &cfg.Logging.Debug)
	envBool("TEE_LOG_JSON", &cfg.Logging.JSON)
	envString("TEE_LOG_SERVICE", &cfg.Logging.Service)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Backend.ParsedKind(); err != nil {
		return err
	}
	if _, err := c.Backend.ParsedMode(); err != nil {
		return err
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("invalid backend timeout: %s", c.Backend.Timeout)
	}
	if c.Server.DrainSeconds < 0 {
		return fmt.Errorf("invalid drain_seconds: %d", c.Server.DrainSeconds)
	}
	for _, uri := range c.Storage.URIs {
		if _, err := interfaces.NewWalletStoreLocation(uri); err != nil {
			return err
		}
	}
	return nil
}

// IsAuto reports whether the backend is chosen by auto-detection.
func (b BackendConfig) IsAuto() bool {
	return b.Kind == "" || strings.EqualFold(b.Kind, KindAuto)
}

// ParsedKind returns the configured backend kind. It is only meaningful when IsAuto is false.
func (b BackendConfig) ParsedKind() (interfaces.BackendKind, error) {
	if b.IsAuto() {
		return interfaces.EnclaveStyle, nil
	}
	return interfaces.ParseBackendKind(b.Kind)
}

// ParsedMode returns the configured connection mode, or nil to keep the variant default.
func (b BackendConfig) ParsedMode() (*interfaces.ConnectionMode, error) {
	if b.Mode == "" {
		return nil, nil
	}
	mode, err := interfaces.ParseConnectionMode(b.Mode, b.Endpoint)
	if err != nil {
		return nil, err
	}
	return &mode, nil
}

// StoreLocations returns the storage URIs as store locations.
func (s StorageConfig) StoreLocations() []interfaces.WalletStoreLocation {
	locations := make([]interfaces.WalletStoreLocation, 0, len(s.URIs))
	for _, uri := range s.URIs {
		locations = append(locations, interfaces.WalletStoreLocation(uri))
	}
	return locations
}

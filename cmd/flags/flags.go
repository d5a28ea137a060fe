package flags

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/tee-wallet-runtime/api"
	"github.com/ruteri/tee-wallet-runtime/backend"
	"github.com/ruteri/tee-wallet-runtime/common"
	"github.com/ruteri/tee-wallet-runtime/config"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
	"github.com/ruteri/tee-wallet-runtime/teeruntime"
	"github.com/urfave/cli/v2"
)

// SetupLogger builds the logger from the logging flags. Flags that are not
// set fall back to the configuration file.
func SetupLogger(cCtx *cli.Context, cfg config.LoggingConfig) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name) || cfg.JSON
	logDebug := cCtx.Bool(LogDebugFlag.Name) || cfg.Debug
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cfg.Service
	if cCtx.IsSet("log-service") || logService == "" {
		logService = cCtx.String("log-service")
	}

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// LoadConfig loads the --config file and applies backend flags on top of it.
func LoadConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(cCtx.String(ConfigFlag.Name))
	if err != nil {
		return nil, err
	}

	if cCtx.IsSet(BackendKindFlag.Name) {
		cfg.Backend.Kind = cCtx.String(BackendKindFlag.Name)
	}
	if cCtx.IsSet(BackendModeFlag.Name) {
		cfg.Backend.Mode = cCtx.String(BackendModeFlag.Name)
	}
	if cCtx.IsSet(EndpointFlag.Name) {
		cfg.Backend.Endpoint = cCtx.String(EndpointFlag.Name)
	}
	if cCtx.IsSet(TimeoutFlag.Name) {
		cfg.Backend.Timeout = cCtx.Duration(TimeoutFlag.Name)
	}
	if cCtx.IsSet(WalletDirFlag.Name) {
		cfg.Backend.WalletDir = cCtx.String(WalletDirFlag.Name)
	}
	if cCtx.IsSet(PprofFlag.Name) {
		cfg.Server.Pprof = cCtx.Bool(PprofFlag.Name)
	}
	if cCtx.IsSet(DrainSecondsFlag.Name) {
		cfg.Server.DrainSeconds = cCtx.Int64(DrainSecondsFlag.Name)
	}
	if cCtx.IsSet(MetricsAddrFlag.Name) {
		cfg.Server.MetricsAddr = cCtx.String(MetricsAddrFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NewFactory creates a backend factory from the backend configuration.
func NewFactory(cfg config.BackendConfig, logger *slog.Logger) *backend.Factory {
	factory := backend.NewFactory(logger)
	factory.Development = cfg.Development
	if cfg.Endpoint != "" {
		factory.DevEndpoint = cfg.Endpoint
	}
	factory.Options.Timeout = cfg.Timeout
	factory.Options.WalletDir = cfg.WalletDir
	return factory
}

// ConfigureRuntime installs the configured backend on rt. With kind "auto"
// and no mode the runtime keeps its auto-detected backend. A kind without a
// mode runs locally when the device supports it and simulated otherwise.
func ConfigureRuntime(ctx context.Context, rt *teeruntime.Runtime, factory *backend.Factory, cfg config.BackendConfig) error {
	mode, err := cfg.ParsedMode()
	if err != nil {
		return err
	}
	if cfg.IsAuto() && mode == nil {
		return nil
	}

	kind, err := cfg.ParsedKind()
	if err != nil {
		return err
	}
	if cfg.IsAuto() {
		kind, _ = factory.DetectBest()
	}

	if mode == nil {
		probe := factory.EnclaveProbe
		if kind == interfaces.TrustZoneStyle {
			probe = factory.TrustZoneProbe
		}
		m := interfaces.SimulatedMode()
		if probe != nil && probe() {
			m = interfaces.LocalMode()
		}
		mode = &m
	}

	_, err = rt.Configure(ctx, kind, *mode)
	return err
}

func ConfigureServer(cfg *config.Config, logger *slog.Logger) *api.HTTPServerConfig {
	return &api.HTTPServerConfig{
		ListenAddr:               cfg.Server.ListenAddr,
		MetricsAddr:              cfg.Server.MetricsAddr,
		Log:                      logger,
		EnablePprof:              cfg.Server.Pprof,
		DrainDuration:            time.Duration(cfg.Server.DrainSeconds) * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

var ConfigFlag = &cli.StringFlag{
	Name:    "config",
	EnvVars: []string{"TEE_CONFIG"},
	Usage:   "YAML configuration file",
}

var BackendKindFlag = &cli.StringFlag{
	Name:  "kind",
	Value: config.KindAuto,
	Usage: "TEE backend kind: 'auto', 'enclave' or 'trustzone'",
}
var BackendModeFlag = &cli.StringFlag{
	Name:  "mode",
	Usage: "connection mode: 'local', 'simulated', 'remote' or 'remote:<url>'",
}
var EndpointFlag = &cli.StringFlag{
	Name:  "endpoint",
	Value: common.DevEndpoint,
	Usage: "remote trust service for mode 'remote' and the development fallback",
}
var TimeoutFlag = &cli.DurationFlag{
	Name:  "timeout",
	Value: 10 * time.Second,
	Usage: "timeout of remote trust service requests",
}
var WalletDirFlag = &cli.StringFlag{
	Name:  "wallet-dir",
	Usage: "wallet data directory of the enclave backend",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var LogFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
}

var BackendFlags = []cli.Flag{
	ConfigFlag,
	BackendKindFlag,
	BackendModeFlag,
	EndpointFlag,
	TimeoutFlag,
	WalletDirFlag,
}

var ServerFlags = []cli.Flag{
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}

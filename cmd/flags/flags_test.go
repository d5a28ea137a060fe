package flags

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ruteri/tee-wallet-runtime/config"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
	"github.com/ruteri/tee-wallet-runtime/teeruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackendConfig(t *testing.T) config.BackendConfig {
	cfg := config.Default().Backend
	cfg.Development = false
	cfg.WalletDir = t.TempDir()
	return cfg
}

func TestNewFactory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testBackendConfig(t)
	cfg.Endpoint = "http://trust.example:3030"
	cfg.Timeout = 2 * time.Second
	cfg.Development = true

	factory := NewFactory(cfg, logger)
	factory.EnclaveProbe = func() bool { return false }
	factory.TrustZoneProbe = func() bool { return false }

	assert.Equal(t, 2*time.Second, factory.Options.Timeout)
	assert.Equal(t, cfg.WalletDir, factory.Options.WalletDir)

	kind, mode := factory.DetectBest()
	assert.Equal(t, interfaces.TrustZoneStyle, kind)
	assert.Equal(t, interfaces.RemoteMode("http://trust.example:3030"), mode)
}

func TestConfigureRuntime(t *testing.T) {
	tests := []struct {
		name         string
		kind         string
		mode         string
		enclaveProbe bool
		expectedKind interfaces.BackendKind
		expectedMode interfaces.ConnectionMode
	}{
		{
			name:         "auto keeps detected backend",
			kind:         config.KindAuto,
			expectedKind: interfaces.EnclaveStyle,
			expectedMode: interfaces.SimulatedMode(),
		},
		{
			name:         "kind without mode on unsupported device",
			kind:         "trustzone",
			expectedKind: interfaces.TrustZoneStyle,
			expectedMode: interfaces.SimulatedMode(),
		},
		{
			name:         "kind without mode on supported device",
			kind:         "enclave",
			enclaveProbe: true,
			expectedKind: interfaces.EnclaveStyle,
			expectedMode: interfaces.LocalMode(),
		},
		{
			name:         "explicit mode",
			kind:         "trustzone",
			mode:         "simulated",
			expectedKind: interfaces.TrustZoneStyle,
			expectedMode: interfaces.SimulatedMode(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			cfg := testBackendConfig(t)
			cfg.Kind = tt.kind
			cfg.Mode = tt.mode

			factory := NewFactory(cfg, logger)
			factory.EnclaveProbe = func() bool { return tt.enclaveProbe }
			factory.TrustZoneProbe = func() bool { return false }

			rt := teeruntime.New(factory, logger, nil)
			require.NoError(t, ConfigureRuntime(context.Background(), rt, factory, cfg))

			shared := rt.Backend()
			assert.Equal(t, tt.expectedKind, shared.Kind())
			mode, err := shared.ConnectionMode(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expectedMode, mode)
		})
	}
}

func TestConfigureRuntime_RemoteUnreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testBackendConfig(t)
	cfg.Kind = "trustzone"
	cfg.Mode = "remote:http://127.0.0.1:1"
	cfg.Timeout = time.Second

	factory := NewFactory(cfg, logger)
	factory.EnclaveProbe = func() bool { return false }
	factory.TrustZoneProbe = func() bool { return false }

	rt := teeruntime.New(factory, logger, nil)
	err := ConfigureRuntime(context.Background(), rt, factory, cfg)
	assert.ErrorIs(t, err, interfaces.ErrOperationFailed)
	assert.Equal(t, interfaces.EnclaveStyle, rt.Backend().Kind())
}

func TestConfigureServer(t *testing.T) {
	cfg := config.Default()
	cfg.Server.DrainSeconds = 5
	cfg.Server.Pprof = true

	srvCfg := ConfigureServer(cfg, nil)
	assert.Equal(t, cfg.Server.ListenAddr, srvCfg.ListenAddr)
	assert.Equal(t, 5*time.Second, srvCfg.DrainDuration)
	assert.True(t, srvCfg.EnablePprof)
}

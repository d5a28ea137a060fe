package teeruntime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ruteri/tee-wallet-runtime/backend"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRuntime(t *testing.T) *Runtime {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := backend.NewFactory(logger)
	factory.EnclaveProbe = func() bool { return false }
	factory.TrustZoneProbe = func() bool { return false }
	factory.Development = false
	factory.Options.WalletDir = t.TempDir()
	return New(factory, logger, nil)
}

func TestRuntimeLazyBackend(t *testing.T) {
	rt := testRuntime(t)

	status, err := rt.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Initialized)
	assert.Equal(t, "Simulated "+backend.EnclaveName, status.BackendName)

	assert.Same(t, rt.Backend(), rt.Backend())
}

func TestRuntimeInitializeAndOperate(t *testing.T) {
	ctx := context.Background()
	rt := testRuntime(t)

	_, err := rt.PerformOperation(ctx, interfaces.CreateWallet{})
	assert.ErrorIs(t, err, interfaces.ErrNotInitialized)

	ok, err := rt.Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	result, err := rt.PerformOperation(ctx, interfaces.CreateWallet{})
	require.NoError(t, err)
	walletID := result.DataField("wallet_id")
	require.NotEmpty(t, walletID)

	// Test initialize short-circuits and keeps the wallet
	ok, err = rt.Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	result, err = rt.PerformOperation(ctx, interfaces.ExportWallet{})
	require.NoError(t, err)
	assert.Equal(t, walletID, result.DataField("wallet_id"))

	_, err = rt.PerformOperation(ctx, nil)
	assert.ErrorIs(t, err, interfaces.ErrOperationFailed)
}

func TestRuntimeConfigure(t *testing.T) {
	ctx := context.Background()
	rt := testRuntime(t)

	_, err := rt.Initialize(ctx)
	require.NoError(t, err)
	_, err = rt.PerformOperation(ctx, interfaces.CreateWallet{})
	require.NoError(t, err)
	old := rt.Backend()

	ok, err := rt.Configure(ctx, interfaces.TrustZoneStyle, interfaces.SimulatedMode())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotSame(t, old, rt.Backend())

	status, err := rt.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Initialized)
	assert.False(t, status.WalletCreated)
	assert.Equal(t, "Simulated "+backend.TrustZoneName, status.BackendName)

	// Test captured instance keeps working
	result, err := old.PerformOperation(ctx, interfaces.GetPublicKey{})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestRuntimeConfigureFailureKeepsBackend(t *testing.T) {
	ctx := context.Background()
	rt := testRuntime(t)
	_, err := rt.Initialize(ctx)
	require.NoError(t, err)
	current := rt.Backend()

	// Local on unsupported hardware
	ok, err := rt.Configure(ctx, interfaces.TrustZoneStyle, interfaces.LocalMode())
	assert.False(t, ok)
	assert.ErrorIs(t, err, interfaces.ErrNotSupported)
	assert.Same(t, current, rt.Backend())

	// Remote service answering 404 on the status probe
	server := httptest.NewServer(http.NotFoundHandler())
	ok, err = rt.Configure(ctx, interfaces.TrustZoneStyle, interfaces.RemoteMode(server.URL))
	server.Close()
	assert.False(t, ok)
	assert.ErrorIs(t, err, interfaces.ErrOperationFailed)
	assert.Same(t, current, rt.Backend())
}

func TestRuntimeConfigureRemote(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tee/status":
			_, _ = w.Write([]byte(`{"available":true}`))
		case "/api/tee/operation":
			_, _ = w.Write([]byte(`{"success":true,"message":"created","data":{"wallet_id":"remote-1"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	rt := testRuntime(t)
	ok, err := rt.Configure(ctx, interfaces.TrustZoneStyle, interfaces.RemoteMode(server.URL))
	require.NoError(t, err)
	assert.True(t, ok)

	result, err := rt.PerformOperation(ctx, interfaces.CreateWallet{})
	require.NoError(t, err)
	assert.Equal(t, "remote-1", result.DataField("wallet_id"))

	status, err := rt.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.WalletCreated)
}

func TestRuntimeConcurrentOperations(t *testing.T) {
	ctx := context.Background()
	rt := testRuntime(t)
	_, err := rt.Initialize(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rt.PerformOperation(ctx, interfaces.CreateWallet{}); err != nil {
				errs <- err
			}
			if _, err := rt.Status(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestDefaultRuntime(t *testing.T) {
	rt := Default()
	assert.Same(t, rt, Default())
	assert.Same(t, rt, Setup(nil, nil, nil))

	_, err := Status(context.Background())
	require.NoError(t, err)
}

// Package teeruntime holds the process-wide trust backend.
//
// The runtime creates its backend lazily through the factory's auto-detection
// and falls back to a simulated Enclave backend, so a usable backend always
// exists. Every call holds the backend's exclusive lock for its duration.
package teeruntime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ruteri/tee-wallet-runtime/backend"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
	"github.com/ruteri/tee-wallet-runtime/metrics"
)

// Runtime owns the current backend instance.
type Runtime struct {
	factory *backend.Factory
	log     *slog.Logger
	metrics *metrics.OperationMetrics

	mu      sync.Mutex
	current *backend.Shared
}

// New creates a runtime building backends with factory. The metrics argument may be nil.
func New(factory *backend.Factory, logger *slog.Logger, m *metrics.OperationMetrics) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	if factory == nil {
		factory = backend.NewFactory(logger)
	}
	return &Runtime{
		factory: factory,
		log:     logger,
		metrics: m,
	}
}

// Backend returns the current shared backend, creating it on first use.
// Callers keep the instance they received even if the runtime is reconfigured.
func (r *Runtime) Backend() *backend.Shared {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		r.current = r.createBest()
	}
	return r.current
}

func (r *Runtime) createBest() *backend.Shared {
	shared, err := r.factory.CreateBest()
	if err == nil {
		return shared
	}

	r.log.Warn("could not create detected TEE backend, falling back to simulation", "err", err)
	opts := r.factory.Options
	if opts.Log == nil {
		opts.Log = r.log
	}
	fallback := backend.NewEnclave(opts)
	fallback.SetConnectionMode(interfaces.SimulatedMode())
	return backend.NewShared(fallback)
}

// Status returns the status of the current backend.
func (r *Runtime) Status(ctx context.Context) (interfaces.BackendStatus, error) {
	return r.Backend().Status(ctx)
}

// Initialize initializes the current backend. It returns true immediately
// when the backend is already initialized.
func (r *Runtime) Initialize(ctx context.Context) (bool, error) {
	return r.Backend().Initialize(ctx)
}

// Configure replaces the current backend with a new instance of kind in mode.
// The new instance is initialized before it is installed; on failure the
// previous backend stays current and the error is returned.
func (r *Runtime) Configure(ctx context.Context, kind interfaces.BackendKind, mode interfaces.ConnectionMode) (bool, error) {
	log := r.log.With("kind", kind.String(), "mode", mode.String())

	b, err := r.factory.Create(kind, &mode)
	if err != nil {
		r.metrics.ObserveConfigure(kind.String(), mode.Type.String(), string(interfaces.KindOf(err)))
		return false, interfaces.Categorize(err)
	}

	shared := backend.NewShared(b)
	if _, err := shared.Initialize(ctx); err != nil {
		log.Warn("could not initialize configured TEE backend", "err", err)
		r.metrics.ObserveConfigure(kind.String(), mode.Type.String(), string(interfaces.KindOf(err)))
		return false, err
	}

	r.mu.Lock()
	r.current = shared
	r.mu.Unlock()

	log.Info("TEE backend configured")
	r.metrics.ObserveConfigure(kind.String(), mode.Type.String(), "success")
	return true, nil
}

// PerformOperation executes op on the current backend.
func (r *Runtime) PerformOperation(ctx context.Context, op interfaces.WalletOperation) (*interfaces.OperationResult, error) {
	if op == nil {
		return nil, interfaces.OperationFailed("no operation")
	}

	start := time.Now()
	result, err := r.Backend().PerformOperation(ctx, op)

	outcome := "success"
	switch {
	case err != nil:
		outcome = string(interfaces.KindOf(err))
		r.log.Debug("wallet operation failed", "operation", op.Name(), "err", err)
	case !result.Success:
		outcome = "unsuccessful"
	}
	r.metrics.ObserveOperation(op.Name(), outcome, time.Since(start))

	return result, err
}

var (
	defaultOnce    sync.Once
	defaultRuntime *Runtime
)

// Setup creates the process-wide runtime from the given collaborators. Only
// the first call, or the first Default, takes effect; later calls return the
// existing runtime.
func Setup(factory *backend.Factory, logger *slog.Logger, m *metrics.OperationMetrics) *Runtime {
	defaultOnce.Do(func() {
		defaultRuntime = New(factory, logger, m)
	})
	return defaultRuntime
}

// Default returns the process-wide runtime.
func Default() *Runtime { return Setup(nil, nil, nil) }

// Status returns the status of the process-wide backend.
func Status(ctx context.Context) (interfaces.BackendStatus, error) {
	return Default().Status(ctx)
}

// Initialize initializes the process-wide backend.
func Initialize(ctx context.Context) (bool, error) {
	return Default().Initialize(ctx)
}

// Configure replaces the process-wide backend.
func Configure(ctx context.Context, kind interfaces.BackendKind, mode interfaces.ConnectionMode) (bool, error) {
	return Default().Configure(ctx, kind, mode)
}

// PerformOperation executes op on the process-wide backend.
func PerformOperation(ctx context.Context, op interfaces.WalletOperation) (*interfaces.OperationResult, error) {
	return Default().PerformOperation(ctx, op)
}

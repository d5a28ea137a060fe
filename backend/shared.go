package backend

import (
	"context"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
	"golang.org/x/sync/semaphore"
)

// Shared serializes access to one backend instance. Acquisition honours
// context cancellation, and the lock is held for a single call.
type Shared struct {
	sem     *semaphore.Weighted
	backend interfaces.TrustBackend
}

// NewShared wraps b for exclusive access.
func NewShared(b interfaces.TrustBackend) *Shared {
	return &Shared{
		sem:     semaphore.NewWeighted(1),
		backend: b,
	}
}

// With runs fn while holding exclusive access to the backend.
func (s *Shared) With(ctx context.Context, fn func(interfaces.TrustBackend) error) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return interfaces.OperationFailed("could not acquire TEE backend: %v", err)
	}
	defer s.sem.Release(1)

	return fn(s.backend)
}

// Kind returns the variant of the wrapped backend. It never changes.
func (s *Shared) Kind() interfaces.BackendKind {
	return s.backend.Kind()
}

// Status returns the wrapped backend's status.
func (s *Shared) Status(ctx context.Context) (status interfaces.BackendStatus, err error) {
	err = s.With(ctx, func(b interfaces.TrustBackend) error {
		status, err = b.Status()
		return err
	})
	return status, err
}

// ConnectionMode returns the wrapped backend's connection mode.
func (s *Shared) ConnectionMode(ctx context.Context) (mode interfaces.ConnectionMode, err error) {
	err = s.With(ctx, func(b interfaces.TrustBackend) error {
		mode = b.ConnectionMode()
		return nil
	})
	return mode, err
}

// Initialize initializes the wrapped backend. An initialized backend is left untouched.
func (s *Shared) Initialize(ctx context.Context) (ok bool, err error) {
	err = s.With(ctx, func(b interfaces.TrustBackend) error {
		ok, err = b.Initialize(ctx)
		return err
	})
	return ok, err
}

// PerformOperation executes op on the wrapped backend.
func (s *Shared) PerformOperation(ctx context.Context, op interfaces.WalletOperation) (result *interfaces.OperationResult, err error) {
	err = s.With(ctx, func(b interfaces.TrustBackend) error {
		result, err = b.PerformOperation(ctx, op)
		return err
	})
	return result, err
}

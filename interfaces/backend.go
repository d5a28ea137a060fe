package interfaces

import "context"

// TrustBackend is the capability contract implemented by every backend variant.
//
// A backend instance starts uninitialized. Initialize moves it to the
// initialized state; CreateWallet and ImportWallet bind a wallet identifier.
// No other operation changes that state, and there is no closed state.
type TrustBackend interface {
	// Kind returns the variant implementing this instance.
	Kind() BackendKind

	// ConnectionMode returns the active execution strategy.
	ConnectionMode() ConnectionMode

	// SetConnectionMode switches the execution strategy. It is an explicit
	// reconfiguration and never happens as a fallback during an operation.
	SetConnectionMode(ConnectionMode)

	// Initialize prepares the backend. It is idempotent: calling it on an
	// initialized instance succeeds and keeps the bound wallet.
	// In Remote mode it checks reachability of the trust service first.
	Initialize(ctx context.Context) (bool, error)

	// Status is a pure read of the instance state.
	Status() (BackendStatus, error)

	// PerformOperation executes op with the mode-specific strategy.
	// It fails with ErrNotInitialized until Initialize has completed.
	PerformOperation(ctx context.Context, op WalletOperation) (*OperationResult, error)
}

// Package interfaces defines the core contracts and types of the TEE wallet runtime.
//
// This package provides the contracts between the components of the system
// without implementation details, so that trust backends, the runtime singleton,
// the remote delegation protocol and the wallet stores can be developed and
// tested independently.
//
// # Wallet Operations
//
// WalletOperation is a closed union of the requests a trust backend executes:
//
//   - CreateWallet
//   - SignTransaction (opaque JSON transaction payload)
//   - VerifySignature (message, 0x-prefixed signature)
//   - GetPublicKey
//   - ExportWallet (whether to include the private key)
//   - ImportWallet (opaque JSON wallet payload)
//
// Every operation yields an OperationResult whose Data field, when present,
// is itself a JSON document with an operation-specific schema.
//
// # Trust Backends
//
//   - TrustBackend: the capability contract every backend variant implements
//   - BackendKind: selects the variant (enclave or trustzone)
//   - ConnectionMode: local, remote (with endpoint) or simulated execution
//
// # Wallet Stores
//
//   - WalletStore: keyed persistence of wallet metadata used by the remote trust service
//
// # Error Types
//
// All failures crossing a component boundary are one of:
//
//   - ErrNotSupported: the backend is unavailable on this device or configuration
//   - ErrNotInitialized: an operation was attempted before Initialize completed
//   - ErrOperationFailed: malformed payload, missing wallet, remote or format failure
//   - ErrIO: local filesystem or transport failure from the platform
//
// KindOf classifies an arbitrary error onto this taxonomy.
package interfaces

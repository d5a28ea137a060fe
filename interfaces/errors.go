package interfaces

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSupported is returned when the backend's trust hardware or service
	// is not available on this device or configuration.
	ErrNotSupported = errors.New("TEE not supported on this device")

	// ErrNotInitialized is returned when an operation is attempted before
	// Initialize completed on the backend instance.
	ErrNotInitialized = errors.New("TEE environment not initialized")

	// ErrOperationFailed is returned for malformed payloads, missing wallets,
	// remote transport or protocol failures and signature format failures.
	ErrOperationFailed = errors.New("TEE operation failed")

	// ErrIO is returned for local filesystem failures surfaced from the platform.
	ErrIO = errors.New("I/O error")
)

// ErrorKind names one of the four failure categories of a trust backend.
type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindNotSupported    ErrorKind = "not_supported"
	KindNotInitialized  ErrorKind = "not_initialized"
	KindOperationFailed ErrorKind = "operation_failed"
	KindIO              ErrorKind = "io_error"
)

// OperationFailed builds an ErrOperationFailed error carrying a textual reason.
func OperationFailed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOperationFailed, fmt.Sprintf(format, args...))
}

// IOFailure wraps a platform error as ErrIO, keeping the cause reachable through errors.Is/As.
func IOFailure(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// KindOf maps err onto the error taxonomy. Errors that match none of the
// sentinels are reported as KindOperationFailed.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotSupported):
		return KindNotSupported
	case errors.Is(err, ErrNotInitialized):
		return KindNotInitialized
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindOperationFailed
	}
}

// Categorize returns err unchanged when it already belongs to the taxonomy,
// and wraps it as ErrOperationFailed otherwise.
func Categorize(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotSupported) || errors.Is(err, ErrNotInitialized) ||
		errors.Is(err, ErrOperationFailed) || errors.Is(err, ErrIO) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrOperationFailed, err)
}

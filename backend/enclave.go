package backend

import (
	"os"
	"path/filepath"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// DefaultWalletDir returns the wallet data directory used when none is configured.
func DefaultWalletDir() string {
	return filepath.Join(os.TempDir(), "cos72", "wallet_data")
}

// Enclave is the secure-enclave style backend.
// Initialization outside Remote mode ensures its wallet data directory exists.
type Enclave struct {
	*instance

	walletDir string
}

var _ interfaces.TrustBackend = (*Enclave)(nil)

// NewEnclave creates an Enclave backend, in Local mode when the device
// supports it or Simulated otherwise.
func NewEnclave(opts Options) *Enclave {
	e := &Enclave{
		instance:  newInstance(interfaces.EnclaveStyle, enclaveProfile, EnclaveSupported, opts),
		walletDir: opts.WalletDir,
	}
	if e.walletDir == "" {
		e.walletDir = DefaultWalletDir()
	}
	e.prepare = e.ensureWalletDir
	return e
}

// WalletDir returns the wallet data directory.
func (e *Enclave) WalletDir() string {
	return e.walletDir
}

func (e *Enclave) ensureWalletDir() error {
	if err := os.MkdirAll(e.walletDir, 0o700); err != nil {
		return interfaces.IOFailure(err)
	}
	return nil
}

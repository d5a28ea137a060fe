package backend

import (
	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// TrustZone is the TrustZone style backend.
// Simulated wallet ids carry an "optee-sim-" or "optee-imported-" prefix.
type TrustZone struct {
	*instance
}

var _ interfaces.TrustBackend = (*TrustZone)(nil)

// NewTrustZone creates a TrustZone backend, in Local mode when the device
// supports it or Simulated otherwise.
func NewTrustZone(opts Options) *TrustZone {
	return &TrustZone{
		instance: newInstance(interfaces.TrustZoneStyle, trustZoneProfile, TrustZoneSupported, opts),
	}
}

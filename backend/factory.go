package backend

import (
	"fmt"
	"log/slog"

	"github.com/ruteri/tee-wallet-runtime/common"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// Factory is the single construction point for backend instances and holds
// the auto-detection policy.
type Factory struct {
	log *slog.Logger

	// EnclaveProbe and TrustZoneProbe report hardware support of each variant.
	EnclaveProbe   func() bool
	TrustZoneProbe func() bool

	// Development enables the remote TrustZone fallback at DevEndpoint.
	Development bool
	DevEndpoint string

	// Options are passed to every created backend. Probe is set per variant.
	Options Options
}

// NewFactory creates a factory probing the running device. Development
// defaults to the build configuration (the "dev" build tag).
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		log:            logger,
		EnclaveProbe:   EnclaveSupported,
		TrustZoneProbe: TrustZoneSupported,
		Development:    common.Development,
		DevEndpoint:    common.DevEndpoint,
		Options:        Options{Log: logger},
	}
}

func (f *Factory) probeFor(kind interfaces.BackendKind) func() bool {
	switch kind {
	case interfaces.EnclaveStyle:
		if f.EnclaveProbe != nil {
			return f.EnclaveProbe
		}
		return EnclaveSupported
	case interfaces.TrustZoneStyle:
		if f.TrustZoneProbe != nil {
			return f.TrustZoneProbe
		}
		return TrustZoneSupported
	default:
		return func() bool { return false }
	}
}

// Create constructs a backend of the requested kind. A non-nil mode overrides
// the variant's default mode.
func (f *Factory) Create(kind interfaces.BackendKind, mode *interfaces.ConnectionMode) (interfaces.TrustBackend, error) {
	opts := f.Options
	opts.Probe = f.probeFor(kind)
	if opts.Log == nil {
		opts.Log = f.log
	}

	if mode != nil && mode.IsRemote() && mode.Endpoint == "" {
		return nil, interfaces.OperationFailed("remote connection mode requires an endpoint")
	}

	var b interfaces.TrustBackend
	switch kind {
	case interfaces.EnclaveStyle:
		b = NewEnclave(opts)
	case interfaces.TrustZoneStyle:
		b = NewTrustZone(opts)
	default:
		return nil, fmt.Errorf("%w: unknown backend kind %s", interfaces.ErrNotSupported, kind)
	}

	if mode != nil {
		b.SetConnectionMode(*mode)
	}

	f.log.Debug("created TEE backend", "kind", kind.String(), "mode", b.ConnectionMode().String())
	return b, nil
}

// DetectBest returns the best kind and mode for this device. The order is fixed:
//  1. EnclaveStyle/Local when the enclave probe passes
//  2. TrustZoneStyle/Local when the TrustZone probe passes
//  3. TrustZoneStyle/Remote at DevEndpoint in development builds
//  4. EnclaveStyle/Simulated
func (f *Factory) DetectBest() (interfaces.BackendKind, interfaces.ConnectionMode) {
	switch {
	case f.probeFor(interfaces.EnclaveStyle)():
		return interfaces.EnclaveStyle, interfaces.LocalMode()
	case f.probeFor(interfaces.TrustZoneStyle)():
		return interfaces.TrustZoneStyle, interfaces.LocalMode()
	case f.Development && f.DevEndpoint != "":
		return interfaces.TrustZoneStyle, interfaces.RemoteMode(f.DevEndpoint)
	default:
		return interfaces.EnclaveStyle, interfaces.SimulatedMode()
	}
}

// CreateBest creates the detected backend wrapped for exclusive access.
func (f *Factory) CreateBest() (*Shared, error) {
	kind, mode := f.DetectBest()
	f.log.Info("detected TEE backend", "kind", kind.String(), "mode", mode.String())

	b, err := f.Create(kind, &mode)
	if err != nil {
		return nil, err
	}
	return NewShared(b), nil
}

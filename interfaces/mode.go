package interfaces

import (
	"fmt"
	"net/url"
	"strings"
)

// ConnectionType discriminates the ConnectionMode union.
type ConnectionType int

const (
	// Local executes operations in-process against the device's trust hardware.
	Local ConnectionType = iota
	// Remote delegates operations over HTTP to a trust service.
	Remote
	// Simulated executes deterministic placeholder logic.
	Simulated
)

// String returns the connection type name.
func (t ConnectionType) String() string {
	switch t {
	case Local:
		return "local"
	case Remote:
		return "remote"
	case Simulated:
		return "simulated"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ConnectionMode selects the execution strategy of a backend instance.
// Endpoint is only meaningful for Remote.
type ConnectionMode struct {
	Type     ConnectionType
	Endpoint string
}

// LocalMode returns the Local connection mode.
func LocalMode() ConnectionMode { return ConnectionMode{Type: Local} }

// SimulatedMode returns the Simulated connection mode.
func SimulatedMode() ConnectionMode { return ConnectionMode{Type: Simulated} }

// RemoteMode returns a Remote connection mode pointing at endpoint.
// A trailing slash is dropped so that protocol paths can be appended.
func RemoteMode(endpoint string) ConnectionMode {
	return ConnectionMode{Type: Remote, Endpoint: strings.TrimSuffix(endpoint, "/")}
}

// IsRemote reports whether operations are delegated over HTTP.
func (m ConnectionMode) IsRemote() bool { return m.Type == Remote }

// String renders the mode as accepted by ParseConnectionMode.
func (m ConnectionMode) String() string {
	if m.Type == Remote {
		return "remote:" + m.Endpoint
	}
	return m.Type.String()
}

// ParseConnectionMode parses "local", "simulated", "remote:<url>" or a bare
// http(s) URL (shorthand for remote). For "remote" without a URL the endpoint
// argument is used.
func ParseConnectionMode(s string, endpoint string) (ConnectionMode, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	switch {
	case lower == "local":
		return LocalMode(), nil
	case lower == "simulated", lower == "simulation", lower == "sim":
		return SimulatedMode(), nil
	case lower == "remote":
		if endpoint == "" {
			return ConnectionMode{}, fmt.Errorf("remote connection mode requires an endpoint")
		}
		return parseRemote(endpoint)
	case strings.HasPrefix(lower, "remote:"):
		return parseRemote(s[len("remote:"):])
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return parseRemote(s)
	default:
		return ConnectionMode{}, fmt.Errorf("unknown connection mode: %q", s)
	}
}

func parseRemote(endpoint string) (ConnectionMode, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ConnectionMode{}, fmt.Errorf("invalid remote endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ConnectionMode{}, fmt.Errorf("invalid remote endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return ConnectionMode{}, fmt.Errorf("invalid remote endpoint %q: missing host", endpoint)
	}
	return RemoteMode(endpoint), nil
}

// BackendKind selects which backend variant implements the TrustBackend contract.
type BackendKind int

const (
	// EnclaveStyle is the secure-enclave style backend.
	EnclaveStyle BackendKind = iota
	// TrustZoneStyle is the TrustZone style backend.
	TrustZoneStyle
)

// String returns the kind name accepted by ParseBackendKind.
func (k BackendKind) String() string {
	switch k {
	case EnclaveStyle:
		return "enclave"
	case TrustZoneStyle:
		return "trustzone"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseBackendKind parses a backend kind name.
func ParseBackendKind(s string) (BackendKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enclave", "enclavestyle", "teaclave":
		return EnclaveStyle, nil
	case "trustzone", "trustzonestyle", "optee", "op-tee":
		return TrustZoneStyle, nil
	default:
		return 0, fmt.Errorf("unknown backend kind: %q", s)
	}
}

package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ruteri/tee-wallet-runtime/api/teeclient"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// Options configures a backend instance.
type Options struct {
	// Log is the logger for backend events. Defaults to slog.Default().
	Log *slog.Logger

	// Probe overrides the hardware support check of the variant.
	Probe func() bool

	// Timeout bounds every remote request. Defaults to teeclient.DefaultTimeout.
	Timeout time.Duration

	// HTTPClient is used for remote requests instead of a client built from Timeout.
	HTTPClient *http.Client

	// WalletDir is the wallet data directory of the Enclave variant.
	WalletDir string
}

type executor interface {
	execute(ctx context.Context, sess *session, op interfaces.WalletOperation) (*interfaces.OperationResult, error)
}

// instance holds the state machine shared by both variants.
type instance struct {
	kind    interfaces.BackendKind
	profile profile
	probe   func() bool
	log     *slog.Logger

	timeout    time.Duration
	httpClient *http.Client

	// prepare runs on initialization in Local and Simulated mode.
	prepare func() error

	mode        interfaces.ConnectionMode
	initialized bool
	sess        session

	local     *localExecutor
	simulated *simulator
	remote    *remoteExecutor
}

func newInstance(kind interfaces.BackendKind, p profile, defaultProbe func() bool, opts Options) *instance {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	probe := opts.Probe
	if probe == nil {
		probe = defaultProbe
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = teeclient.DefaultTimeout
	}

	log = log.With("backend", kind.String())
	engine := &simulator{profile: p, log: log}

	b := &instance{
		kind:       kind,
		profile:    p,
		probe:      probe,
		log:        log,
		timeout:    timeout,
		httpClient: opts.HTTPClient,
		local:      &localExecutor{engine: engine},
		simulated:  engine,
	}

	if probe() {
		b.mode = interfaces.LocalMode()
	} else {
		b.mode = interfaces.SimulatedMode()
	}

	return b
}

// Kind returns the variant of the backend.
func (b *instance) Kind() interfaces.BackendKind {
	return b.kind
}

// ConnectionMode returns the active connection mode.
func (b *instance) ConnectionMode() interfaces.ConnectionMode {
	return b.mode
}

// RemoteEndpoint returns the remote endpoint, or "" when not in Remote mode.
func (b *instance) RemoteEndpoint() string {
	if !b.mode.IsRemote() {
		return ""
	}
	return b.mode.Endpoint
}

// SetConnectionMode switches the execution strategy. Changing the mode
// returns the instance to the uninitialized state and drops the bound wallet,
// which belongs to the previous mode's session.
func (b *instance) SetConnectionMode(mode interfaces.ConnectionMode) {
	if mode.IsRemote() {
		mode = interfaces.RemoteMode(mode.Endpoint)
	}
	if mode == b.mode {
		return
	}

	b.log.Info("switching connection mode", "from", b.mode.String(), "to", mode.String())
	b.mode = mode
	b.initialized = false
	b.sess = session{}
	b.remote = nil
}

func (b *instance) remoteExecutor() *remoteExecutor {
	if b.remote == nil {
		client := teeclient.New(b.mode.Endpoint)
		if b.httpClient != nil {
			client.HTTP = b.httpClient
		} else {
			client.HTTP.Timeout = b.timeout
		}
		b.remote = &remoteExecutor{client: client, log: b.log}
	}
	return b.remote
}

// Initialize prepares the backend. It is a no-op once initialized.
// Local mode fails with ErrNotSupported when the hardware probe fails, and
// Remote mode requires the remote status endpoint to answer.
func (b *instance) Initialize(ctx context.Context) (bool, error) {
	if b.initialized {
		return true, nil
	}

	switch b.mode.Type {
	case interfaces.Local:
		if !b.probe() {
			return false, fmt.Errorf("%w: %s", interfaces.ErrNotSupported, b.profile.name)
		}
		if err := b.runPrepare(); err != nil {
			return false, err
		}
	case interfaces.Remote:
		if b.mode.Endpoint == "" {
			return false, interfaces.OperationFailed("remote connection mode without endpoint")
		}
		if err := b.remoteExecutor().probe(ctx); err != nil {
			return false, interfaces.Categorize(err)
		}
	case interfaces.Simulated:
		if err := b.runPrepare(); err != nil {
			return false, err
		}
	default:
		return false, interfaces.OperationFailed("unknown connection mode %s", b.mode.Type)
	}

	b.initialized = true
	b.log.Info("TEE backend initialized", "mode", b.mode.String())
	return true, nil
}

func (b *instance) runPrepare() error {
	if b.prepare == nil {
		return nil
	}
	return interfaces.Categorize(b.prepare())
}

// Status reports the backend state without side effects other than the hardware probe.
func (b *instance) Status() (interfaces.BackendStatus, error) {
	status := interfaces.BackendStatus{
		Initialized:   b.initialized,
		Version:       b.profile.version,
		WalletCreated: b.sess.walletID != "",
	}

	switch b.mode.Type {
	case interfaces.Local:
		status.Available = b.probe()
		status.BackendName = b.profile.name
	case interfaces.Remote:
		status.Available = true
		status.BackendName = fmt.Sprintf("Remote %s: %s", b.profile.name, b.mode.Endpoint)
	default:
		status.BackendName = "Simulated " + b.profile.name
	}

	return status, nil
}

// WalletID returns the bound wallet identifier, or "".
func (b *instance) WalletID() string {
	return b.sess.walletID
}

// PerformOperation executes op with the strategy of the active mode.
func (b *instance) PerformOperation(ctx context.Context, op interfaces.WalletOperation) (*interfaces.OperationResult, error) {
	if !b.initialized {
		return nil, interfaces.ErrNotInitialized
	}
	if op == nil {
		return nil, interfaces.OperationFailed("no operation")
	}

	var exec executor
	switch b.mode.Type {
	case interfaces.Local:
		exec = b.local
	case interfaces.Remote:
		exec = b.remoteExecutor()
	default:
		exec = b.simulated
	}

	result, err := exec.execute(ctx, &b.sess, op)
	if err != nil {
		return nil, interfaces.Categorize(err)
	}
	return result, nil
}

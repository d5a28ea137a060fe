package backend

import (
	"context"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// localExecutor is the integration point for the device's trust hardware.
// No hardware calls exist yet; operations run on the simulated engine with
// the variant's profile.
type localExecutor struct {
	engine *simulator
}

func (l *localExecutor) execute(ctx context.Context, sess *session, op interfaces.WalletOperation) (*interfaces.OperationResult, error) {
	return l.engine.execute(ctx, sess, op)
}

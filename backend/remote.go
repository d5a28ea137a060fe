package backend

import (
	"context"
	"log/slog"

	"github.com/ruteri/tee-wallet-runtime/api"
	"github.com/ruteri/tee-wallet-runtime/api/teeclient"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// remoteExecutor delegates operations to a remote trust service.
type remoteExecutor struct {
	client *teeclient.Client
	log    *slog.Logger
}

// probe checks that the remote service answers its status endpoint with 200.
func (r *remoteExecutor) probe(ctx context.Context) error {
	status, err := r.client.Status(ctx)
	if err != nil {
		r.log.Warn("remote TEE service unreachable", "endpoint", r.client.Endpoint, "err", err)
		return err
	}
	r.log.Info("remote TEE service reachable", "endpoint", r.client.Endpoint, "backend", status.Name(), "available", status.Available)
	return nil
}

// execute sends op and returns the service's result. A wallet_id in the data
// of a successful create or import is adopted into sess.
// A failed request leaves sess untouched even if the service changed its own state.
func (r *remoteExecutor) execute(ctx context.Context, sess *session, op interfaces.WalletOperation) (*interfaces.OperationResult, error) {
	req, err := api.NewOperationRequest(op)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Operation(ctx, req)
	if err != nil {
		r.log.Warn("remote TEE operation failed", "endpoint", r.client.Endpoint, "operation", op.Name(), "err", err)
		return nil, err
	}

	result := resp.Result()
	if !result.Success {
		return result, nil
	}

	switch op.(type) {
	case interfaces.CreateWallet, interfaces.ImportWallet:
		if walletID := result.DataField("wallet_id"); walletID != "" {
			sess.walletID = walletID
		}
	}

	return result, nil
}

package api

import (
	"encoding/json"
	"testing"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOperationRequest(t *testing.T) {
	tests := []struct {
		name   string
		op     interfaces.WalletOperation
		wire   string
		errors bool
	}{
		{name: "create", op: interfaces.CreateWallet{}, wire: `{"operation":"create_wallet"}`},
		{name: "sign", op: interfaces.SignTransaction{Transaction: `{"to":"0xabc"}`}, wire: `{"operation":"sign_transaction","params":{"to":"0xabc"}}`},
		{name: "sign non-json", op: interfaces.SignTransaction{Transaction: "raw-bytes"}, errors: true},
		{name: "import", op: interfaces.ImportWallet{Wallet: `{"private_key":"0x03"}`}, wire: `{"operation":"import_wallet","params":{"private_key":"0x03"}}`},
		{name: "import empty", op: interfaces.ImportWallet{}, errors: true},
		{name: "export", op: interfaces.ExportWallet{IncludePrivateKey: true}, wire: `{"operation":"export_wallet","params":{"include_private":true}}`},
		{name: "verify", op: interfaces.VerifySignature{Message: "m", Signature: "0x01"}, wire: `{"operation":"verify_signature","params":{"message":"m","signature":"0x01"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewOperationRequest(tt.op)
			if tt.errors {
				assert.ErrorIs(t, err, interfaces.ErrOperationFailed)
				return
			}
			require.NoError(t, err)

			encoded, err := json.Marshal(req)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wire, string(encoded))

			// The service side recovers the same operation
			var decoded OperationRequest
			require.NoError(t, json.Unmarshal(encoded, &decoded))
			op, err := decoded.WalletOperation()
			require.NoError(t, err)
			if sign, ok := tt.op.(interfaces.SignTransaction); ok {
				assert.JSONEq(t, sign.Transaction, op.(interfaces.SignTransaction).Transaction)
				return
			}
			if imp, ok := tt.op.(interfaces.ImportWallet); ok {
				assert.JSONEq(t, imp.Wallet, op.(interfaces.ImportWallet).Wallet)
				return
			}
			assert.Equal(t, tt.op, op)
		})
	}
}

func TestOperationRequest_MissingParams(t *testing.T) {
	for _, name := range []string{interfaces.OpSignTransaction, interfaces.OpImportWallet, interfaces.OpVerifySignature} {
		_, err := (&OperationRequest{Operation: name, Params: json.RawMessage("null")}).WalletOperation()
		assert.ErrorIs(t, err, interfaces.ErrOperationFailed, name)
	}

	op, err := (&OperationRequest{Operation: interfaces.OpExportWallet}).WalletOperation()
	require.NoError(t, err)
	assert.Equal(t, interfaces.ExportWallet{}, op)

	_, err = (&OperationRequest{Operation: "transfer"}).WalletOperation()
	assert.Error(t, err)
}

func TestOperationResponse_Result(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		walletID string
	}{
		{name: "object data", body: `{"success":true,"message":"ok","data":{"wallet_id":"w-1"}}`, walletID: "w-1"},
		{name: "string data", body: `{"success":true,"message":"ok","data":"{\"wallet_id\":\"w-2\"}"}`, walletID: "w-2"},
		{name: "null data", body: `{"success":true,"message":"ok","data":null}`},
		{name: "no data", body: `{"success":false,"message":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp OperationResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))

			result := resp.Result()
			assert.Equal(t, resp.Success, result.Success)
			assert.Equal(t, resp.Message, result.Message)
			assert.Equal(t, tt.walletID != "", result.HasData())
			assert.Equal(t, tt.walletID, resp.WalletID())
		})
	}
}

func TestNewOperationResponse(t *testing.T) {
	result, err := interfaces.NewOperationResult("ok", map[string]string{"wallet_id": "w-1"})
	require.NoError(t, err)

	encoded, err := json.Marshal(NewOperationResponse(result))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"message":"ok","data":{"wallet_id":"w-1"}}`, string(encoded))

	plain := "not json"
	encoded, err = json.Marshal(NewOperationResponse(&interfaces.OperationResult{Success: true, Message: "ok", Data: &plain}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"message":"ok","data":"not json"}`, string(encoded))
}

func TestStatusResponse(t *testing.T) {
	status := NewStatusResponse(interfaces.BackendStatus{
		Available:   true,
		Initialized: true,
		BackendName: "OP-TEE TrustZone",
		Version:     "0.1.0",
	})
	assert.Equal(t, "OP-TEE TrustZone", status.Name())
	assert.Equal(t, status.BackendName, status.TypeName)

	var legacy StatusResponse
	require.NoError(t, json.Unmarshal([]byte(`{"available":true,"initialized":false,"type_name":"legacy","version":"1"}`), &legacy))
	assert.Equal(t, "legacy", legacy.Name())
}

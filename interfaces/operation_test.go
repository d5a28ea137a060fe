package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationNames(t *testing.T) {
	for op, name := range map[WalletOperation]string{
		CreateWallet{}:    OpCreateWallet,
		SignTransaction{}: OpSignTransaction,
		VerifySignature{}: OpVerifySignature,
		GetPublicKey{}:    OpGetPublicKey,
		ExportWallet{}:    OpExportWallet,
		ImportWallet{}:    OpImportWallet,
	} {
		assert.Equal(t, name, op.Name())
	}
}

func TestOperationResult(t *testing.T) {
	result, err := NewOperationResult("Wallet created successfully", map[string]any{
		"wallet_id": "w-1",
		"is_valid":  true,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.HasData())
	assert.Equal(t, "w-1", result.DataField("wallet_id"))
	assert.Empty(t, result.DataField("is_valid"))
	assert.Empty(t, result.DataField("missing"))

	var fields struct {
		IsValid bool `json:"is_valid"`
	}
	require.NoError(t, result.DecodeData(&fields))
	assert.True(t, fields.IsValid)

	empty, err := NewOperationResult("ok", nil)
	require.NoError(t, err)
	assert.False(t, empty.HasData())
	assert.Error(t, empty.DecodeData(&fields))
	assert.Empty(t, empty.DataField("wallet_id"))

	_, err = NewOperationResult("bad", map[string]any{"ch": make(chan int)})
	assert.ErrorIs(t, err, ErrOperationFailed)
}

func TestWalletRecordValidate(t *testing.T) {
	assert.NoError(t, (&WalletRecord{WalletID: "optee-sim-1"}).Validate())
	assert.Error(t, (&WalletRecord{}).Validate())
	assert.Error(t, (&WalletRecord{WalletID: "../etc"}).Validate())
	assert.Error(t, (&WalletRecord{WalletID: "a/b"}).Validate())
}

func TestNewWalletStoreLocation(t *testing.T) {
	for _, uri := range []string{"file:///var/lib/tee", "s3://bucket/prefix", "vault://vault:8200/secret/w", "memory://"} {
		loc, err := NewWalletStoreLocation(uri)
		require.NoError(t, err, uri)
		assert.Equal(t, WalletStoreLocation(uri), loc)
	}

	_, err := NewWalletStoreLocation("ipfs://Qm")
	assert.ErrorIs(t, err, ErrInvalidLocationURI)
}

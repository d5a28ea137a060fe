package interfaces

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Operation names used on the wire and in logs.
const (
	OpCreateWallet    = "create_wallet"
	OpSignTransaction = "sign_transaction"
	OpVerifySignature = "verify_signature"
	OpGetPublicKey    = "get_public_key"
	OpExportWallet    = "export_wallet"
	OpImportWallet    = "import_wallet"
)

// WalletOperation is a request executed by a trust backend.
// The set of implementations is closed: CreateWallet, SignTransaction,
// VerifySignature, GetPublicKey, ExportWallet and ImportWallet.
//
// Payload fields are opaque JSON text interpreted only by the executing backend.
type WalletOperation interface {
	// Name returns the operation name, one of the Op* constants.
	Name() string

	walletOperation()
}

// CreateWallet mints a new wallet in the backend session.
type CreateWallet struct{}

// SignTransaction signs a JSON-encoded transaction payload with the bound wallet.
type SignTransaction struct {
	Transaction string
}

// VerifySignature checks a 0x-prefixed signature over Message.
type VerifySignature struct {
	Message   string
	Signature string
}

// GetPublicKey returns the public key and address of the bound wallet.
type GetPublicKey struct{}

// ExportWallet returns the wallet material, optionally with the private key.
type ExportWallet struct {
	IncludePrivateKey bool
}

// ImportWallet binds a wallet from a JSON payload that must contain a private_key field.
type ImportWallet struct {
	Wallet string
}

func (CreateWallet) Name() string    { return OpCreateWallet }
func (SignTransaction) Name() string { return OpSignTransaction }
func (VerifySignature) Name() string { return OpVerifySignature }
func (GetPublicKey) Name() string    { return OpGetPublicKey }
func (ExportWallet) Name() string    { return OpExportWallet }
func (ImportWallet) Name() string    { return OpImportWallet }

func (CreateWallet) walletOperation()    {}
func (SignTransaction) walletOperation() {}
func (VerifySignature) walletOperation() {}
func (GetPublicKey) walletOperation()    {}
func (ExportWallet) walletOperation()    {}
func (ImportWallet) walletOperation()    {}

// OperationResult is the outcome of a wallet operation.
// When Success is false callers must not assume any field is present in Data.
type OperationResult struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    *string `json:"data,omitempty"`
}

// NewOperationResult builds a successful result with data encoded as JSON.
// A nil data leaves the Data field absent.
func NewOperationResult(message string, data any) (*OperationResult, error) {
	result := &OperationResult{Success: true, Message: message}
	if data == nil {
		return result, nil
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, OperationFailed("could not encode result data: %v", err)
	}
	s := string(encoded)
	result.Data = &s
	return result, nil
}

// HasData reports whether the result carries a data document.
func (r *OperationResult) HasData() bool {
	return r != nil && r.Data != nil
}

// DecodeData unmarshals the result's data document into v.
func (r *OperationResult) DecodeData(v any) error {
	if !r.HasData() {
		return errors.New("result has no data")
	}
	if err := json.Unmarshal([]byte(*r.Data), v); err != nil {
		return fmt.Errorf("could not decode result data: %w", err)
	}
	return nil
}

// DataField returns a top-level string field of the data document, or "" if absent.
func (r *OperationResult) DataField(key string) string {
	var fields map[string]any
	if err := r.DecodeData(&fields); err != nil {
		return ""
	}
	s, _ := fields[key].(string)
	return s
}

// BackendStatus describes a backend instance.
//   - Available: the underlying trust hardware or service is reachable
//   - Initialized: Initialize completed on this instance
//   - WalletCreated: a wallet identifier is bound in the session state
type BackendStatus struct {
	Available     bool   `json:"available"`
	Initialized   bool   `json:"initialized"`
	BackendName   string `json:"backend_name"`
	Version       string `json:"version"`
	WalletCreated bool   `json:"wallet_created"`
}

package api

import (
	"bytes"
	"encoding/json"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// Protocol paths relative to a remote endpoint.
const (
	StatusPath     = "/api/tee/status"
	InitializePath = "/api/tee/initialize"
	OperationPath  = "/api/tee/operation"
	WalletPath     = "/api/tee/wallets/{wallet_id}"
)

// OperationRequest is the body of POST /api/tee/operation.
type OperationRequest struct {
	Operation string          `json:"operation"`
	Params    json.RawMessage `json:"params,omitempty"`
}

// OperationResponse is the body returned by POST /api/tee/operation.
type OperationResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// InitializeResponse is the body returned by POST /api/tee/initialize.
type InitializeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type exportParams struct {
	IncludePrivate bool `json:"include_private"`
}

type verifyParams struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// NewOperationRequest translates op into its wire form.
// Transaction and wallet payloads must be valid JSON since they travel as params.
func NewOperationRequest(op interfaces.WalletOperation) (*OperationRequest, error) {
	req := &OperationRequest{Operation: op.Name()}

	var err error
	switch o := op.(type) {
	case interfaces.CreateWallet, interfaces.GetPublicKey:
	case interfaces.SignTransaction:
		if !json.Valid([]byte(o.Transaction)) {
			return nil, interfaces.OperationFailed("invalid transaction data: not a JSON document")
		}
		req.Params = json.RawMessage(o.Transaction)
	case interfaces.ImportWallet:
		if !json.Valid([]byte(o.Wallet)) {
			return nil, interfaces.OperationFailed("invalid wallet data: not a JSON document")
		}
		req.Params = json.RawMessage(o.Wallet)
	case interfaces.ExportWallet:
		req.Params, err = json.Marshal(exportParams{IncludePrivate: o.IncludePrivateKey})
	case interfaces.VerifySignature:
		req.Params, err = json.Marshal(verifyParams{Message: o.Message, Signature: o.Signature})
	default:
		return nil, interfaces.OperationFailed("unsupported operation %T", op)
	}
	if err != nil {
		return nil, interfaces.OperationFailed("could not encode params: %v", err)
	}

	return req, nil
}

// WalletOperation translates a wire request back into a WalletOperation.
func (r *OperationRequest) WalletOperation() (interfaces.WalletOperation, error) {
	hasParams := len(r.Params) > 0 && !bytes.Equal(bytes.TrimSpace(r.Params), []byte("null"))

	switch r.Operation {
	case interfaces.OpCreateWallet:
		return interfaces.CreateWallet{}, nil
	case interfaces.OpGetPublicKey:
		return interfaces.GetPublicKey{}, nil
	case interfaces.OpSignTransaction:
		if !hasParams {
			return nil, interfaces.OperationFailed("missing params for %s", r.Operation)
		}
		return interfaces.SignTransaction{Transaction: string(r.Params)}, nil
	case interfaces.OpImportWallet:
		if !hasParams {
			return nil, interfaces.OperationFailed("missing params for %s", r.Operation)
		}
		return interfaces.ImportWallet{Wallet: string(r.Params)}, nil
	case interfaces.OpExportWallet:
		var p exportParams
		if hasParams {
			if err := json.Unmarshal(r.Params, &p); err != nil {
				return nil, interfaces.OperationFailed("invalid params for %s: %v", r.Operation, err)
			}
		}
		return interfaces.ExportWallet{IncludePrivateKey: p.IncludePrivate}, nil
	case interfaces.OpVerifySignature:
		var p verifyParams
		if !hasParams {
			return nil, interfaces.OperationFailed("missing params for %s", r.Operation)
		}
		if err := json.Unmarshal(r.Params, &p); err != nil {
			return nil, interfaces.OperationFailed("invalid params for %s: %v", r.Operation, err)
		}
		return interfaces.VerifySignature{Message: p.Message, Signature: p.Signature}, nil
	default:
		return nil, interfaces.OperationFailed("unknown operation %q", r.Operation)
	}
}

// NewOperationResponse converts a result into its wire form.
// Data that is not a JSON document is sent as a JSON string.
func NewOperationResponse(result *interfaces.OperationResult) *OperationResponse {
	resp := &OperationResponse{Success: result.Success, Message: result.Message}
	if result.HasData() {
		if json.Valid([]byte(*result.Data)) {
			resp.Data = json.RawMessage(*result.Data)
		} else {
			resp.Data, _ = json.Marshal(*result.Data)
		}
	}
	return resp
}

// Result converts the wire response into an OperationResult.
// Services that send data as a JSON-encoded string have it unwrapped so that
// Data always holds the JSON document itself.
func (r *OperationResponse) Result() *interfaces.OperationResult {
	result := &interfaces.OperationResult{Success: r.Success, Message: r.Message}

	raw := bytes.TrimSpace(r.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return result
	}

	data := string(raw)
	var inner string
	if raw[0] == '"' && json.Unmarshal(raw, &inner) == nil {
		data = inner
	}
	result.Data = &data
	return result
}

// WalletID returns the wallet_id carried by the response data, if any.
func (r *OperationResponse) WalletID() string {
	return r.Result().DataField("wallet_id")
}

// StatusResponse is the body returned by GET /api/tee/status.
// Older services report the backend name as type_name.
type StatusResponse struct {
	Available     bool   `json:"available"`
	Initialized   bool   `json:"initialized"`
	BackendName   string `json:"backend_name,omitempty"`
	TypeName      string `json:"type_name,omitempty"`
	Version       string `json:"version"`
	WalletCreated bool   `json:"wallet_created"`
}

// NewStatusResponse converts a backend status into its wire form.
func NewStatusResponse(status interfaces.BackendStatus) *StatusResponse {
	return &StatusResponse{
		Available:     status.Available,
		Initialized:   status.Initialized,
		BackendName:   status.BackendName,
		TypeName:      status.BackendName,
		Version:       status.Version,
		WalletCreated: status.WalletCreated,
	}
}

// Name returns the reported backend name.
func (s *StatusResponse) Name() string {
	if s.BackendName != "" {
		return s.BackendName
	}
	return s.TypeName
}

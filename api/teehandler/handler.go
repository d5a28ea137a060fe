// Package teehandler serves the trust service side of the remote delegation
// protocol. Operations run on a local runtime, and wallets it creates or
// imports are recorded in a wallet store.
package teehandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/ruteri/tee-wallet-runtime/api"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// maxRequestBody bounds operation request bodies.
const maxRequestBody = 1 << 20

// Runtime is the part of teeruntime.Runtime the handler needs.
type Runtime interface {
	Status(ctx context.Context) (interfaces.BackendStatus, error)
	Initialize(ctx context.Context) (bool, error)
	PerformOperation(ctx context.Context, op interfaces.WalletOperation) (*interfaces.OperationResult, error)
}

// Handler processes trust service requests.
type Handler struct {
	runtime Runtime
	store   interfaces.WalletStore
	log     *slog.Logger
}

// NewHandler creates a handler executing operations on rt. store may be nil,
// in which case wallets are not recorded and the wallet endpoint answers 404.
func NewHandler(rt Runtime, store interfaces.WalletStore, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		runtime: rt,
		store:   store,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get(api.StatusPath, h.HandleStatus)
	r.Post(api.InitializePath, h.HandleInitialize)
	r.Post(api.OperationPath, h.HandleOperation)
	r.Get(api.WalletPath, h.HandleWallet)
}

// statusCode maps an error kind onto an HTTP status.
func statusCode(err error) int {
	switch interfaces.KindOf(err) {
	case interfaces.KindNotInitialized:
		return http.StatusConflict
	case interfaces.KindNotSupported:
		return http.StatusNotImplemented
	case interfaces.KindIO:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("could not encode response", "err", err)
	}
}

// HandleStatus reports the status of the service's backend.
//
// URL format: GET /api/tee/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.runtime.Status(r.Context())
	if err != nil {
		http.Error(w, fmt.Errorf("could not read backend status: %w", err).Error(), http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusOK, api.NewStatusResponse(status))
}

// HandleInitialize initializes the service's backend.
//
// URL format: POST /api/tee/initialize
func (h *Handler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	ok, err := h.runtime.Initialize(r.Context())
	if err != nil {
		code := statusCode(err)
		if code == http.StatusOK {
			code = http.StatusServiceUnavailable
		}
		h.writeJSON(w, code, api.InitializeResponse{Success: false, Message: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, api.InitializeResponse{Success: ok, Message: "TEE environment initialized"})
}

// HandleOperation executes a wallet operation.
//
// URL format: POST /api/tee/operation
// Body: {"operation": "<OperationName>", "params": {...}}
//
// Operation failures are reported as 200 with success false. Uninitialized,
// unsupported and I/O failures get their own status codes.
func (h *Handler) HandleOperation(w http.ResponseWriter, r *http.Request) {
	var req api.OperationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		http.Error(w, fmt.Errorf("invalid operation request: %w", err).Error(), http.StatusBadRequest)
		return
	}

	op, err := req.WalletOperation()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.runtime.PerformOperation(r.Context(), op)
	if err != nil {
		h.log.Debug("operation failed", "operation", op.Name(), "err", err)
		h.writeJSON(w, statusCode(err), api.OperationResponse{Success: false, Message: err.Error()})
		return
	}

	if result.Success {
		h.recordWallet(r.Context(), op, result)
	}

	h.writeJSON(w, http.StatusOK, api.NewOperationResponse(result))
}

// recordWallet stores metadata of a created or imported wallet. Store
// failures are logged and do not fail the operation.
func (h *Handler) recordWallet(ctx context.Context, op interfaces.WalletOperation, result *interfaces.OperationResult) {
	if h.store == nil {
		return
	}

	var origin string
	switch op.(type) {
	case interfaces.CreateWallet:
		origin = interfaces.WalletOriginCreated
	case interfaces.ImportWallet:
		origin = interfaces.WalletOriginImported
	default:
		return
	}

	rec := interfaces.WalletRecord{
		WalletID:  result.DataField("wallet_id"),
		PublicKey: result.DataField("public_key"),
		Origin:    origin,
		CreatedAt: time.Now().UTC(),
	}
	if address := result.DataField("address"); gethcommon.IsHexAddress(address) {
		rec.Address = address
	}
	if status, err := h.runtime.Status(ctx); err == nil {
		rec.Backend = status.BackendName
	}

	if err := h.store.Put(ctx, rec); err != nil {
		h.log.Warn("could not record wallet", "walletID", rec.WalletID, "store", h.store.Name(), "err", err)
		return
	}
	h.log.Info("wallet recorded", "walletID", rec.WalletID, "origin", origin, "store", h.store.Name())
}

// HandleWallet returns the recorded metadata of a wallet.
//
// URL format: GET /api/tee/wallets/{wallet_id}
func (h *Handler) HandleWallet(w http.ResponseWriter, r *http.Request) {
	walletID := r.PathValue("wallet_id")
	if walletID == "" {
		http.Error(w, "missing wallet_id", http.StatusBadRequest)
		return
	}

	if h.store == nil {
		http.Error(w, fmt.Sprintf("wallet %s not found", walletID), http.StatusNotFound)
		return
	}

	rec, err := h.store.Get(r.Context(), walletID)
	switch {
	case errors.Is(err, interfaces.ErrWalletNotFound):
		http.Error(w, fmt.Sprintf("wallet %s not found", walletID), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, fmt.Errorf("could not fetch wallet: %w", err).Error(), http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

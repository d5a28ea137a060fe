package backend

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

const (
	// SignatureLength is the raw length of a simulated signature: r(32) + s(32) + v(1).
	SignatureLength = 65
	// EncodedSignatureLength is the length of a 0x-prefixed hex encoded signature.
	EncodedSignatureLength = 2 + 2*SignatureLength

	mixedBytes    = 32
	recoveryValue = 27
)

// session is the mutable wallet state of a backend instance.
type session struct {
	walletID string
}

// simulator executes operations with deterministic placeholder logic.
type simulator struct {
	profile profile
	log     *slog.Logger
}

func (s *simulator) execute(_ context.Context, sess *session, op interfaces.WalletOperation) (*interfaces.OperationResult, error) {
	s.log.Debug("simulating wallet operation", "backend", s.profile.name, "operation", op.Name())

	switch o := op.(type) {
	case interfaces.CreateWallet:
		return s.createWallet(sess)
	case interfaces.SignTransaction:
		return s.signTransaction(sess, o.Transaction)
	case interfaces.VerifySignature:
		return s.verifySignature(sess, o.Signature)
	case interfaces.GetPublicKey:
		return s.getPublicKey(sess)
	case interfaces.ExportWallet:
		return s.exportWallet(sess, o.IncludePrivateKey)
	case interfaces.ImportWallet:
		return s.importWallet(sess, o.Wallet)
	default:
		return nil, interfaces.OperationFailed("unsupported operation %T", op)
	}
}

func (s *simulator) message(m string) string {
	return m + s.profile.messageSuffix
}

func (s *simulator) boundWallet(sess *session) (string, error) {
	if sess.walletID == "" {
		return "", interfaces.OperationFailed("wallet not created")
	}
	return sess.walletID, nil
}

func (s *simulator) createWallet(sess *session) (*interfaces.OperationResult, error) {
	walletID := s.profile.createdPrefix + uuid.NewString()

	result, err := interfaces.NewOperationResult(s.message("Wallet created successfully"), map[string]string{
		"wallet_id": walletID,
		"mnemonic":  s.profile.mnemonic,
	})
	if err != nil {
		return nil, err
	}

	sess.walletID = walletID
	return result, nil
}

// mockSignature returns the placeholder signature for a transaction payload.
func mockSignature(transaction string) []byte {
	sig := make([]byte, SignatureLength)
	copy(sig[:mixedBytes], transaction)
	sig[SignatureLength-1] = recoveryValue
	return sig
}

func (s *simulator) signTransaction(sess *session, transaction string) (*interfaces.OperationResult, error) {
	walletID, err := s.boundWallet(sess)
	if err != nil {
		return nil, err
	}

	if !json.Valid([]byte(transaction)) {
		return nil, interfaces.OperationFailed("invalid transaction data: not a JSON document")
	}

	sig := mockSignature(transaction)
	return interfaces.NewOperationResult(s.message("Transaction signed successfully"), map[string]string{
		"wallet_id": walletID,
		"signature": hexutil.Encode(sig),
		"tx_hash":   hexutil.Encode(sig[:mixedBytes]),
	})
}

func (s *simulator) verifySignature(sess *session, signature string) (*interfaces.OperationResult, error) {
	walletID, err := s.boundWallet(sess)
	if err != nil {
		return nil, err
	}

	if !validSignatureFormat(signature) {
		return nil, interfaces.OperationFailed("invalid signature format")
	}

	return interfaces.NewOperationResult(s.message("Signature verified successfully"), map[string]any{
		"wallet_id": walletID,
		"is_valid":  true,
		"address":   s.profile.address,
	})
}

// validSignatureFormat checks the prefix and length only.
func validSignatureFormat(signature string) bool {
	return len(signature) == EncodedSignatureLength && signature[:2] == "0x"
}

func (s *simulator) getPublicKey(sess *session) (*interfaces.OperationResult, error) {
	walletID, err := s.boundWallet(sess)
	if err != nil {
		return nil, err
	}

	return interfaces.NewOperationResult(s.message("Public key retrieved successfully"), map[string]string{
		"wallet_id":  walletID,
		"public_key": s.profile.publicKey,
		"address":    s.profile.address,
	})
}

func (s *simulator) exportWallet(sess *session, includePrivateKey bool) (*interfaces.OperationResult, error) {
	walletID, err := s.boundWallet(sess)
	if err != nil {
		return nil, err
	}

	data := map[string]string{
		"wallet_id":  walletID,
		"public_key": s.profile.publicKey,
		"address":    s.profile.address,
	}
	if includePrivateKey {
		data["private_key"] = s.profile.privateKey
	}

	return interfaces.NewOperationResult(s.message("Wallet exported successfully"), data)
}

func (s *simulator) importWallet(sess *session, wallet string) (*interfaces.OperationResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(wallet), &fields); err != nil || fields == nil {
		return nil, interfaces.OperationFailed("invalid wallet data format: expected object with private_key")
	}
	if _, ok := fields["private_key"]; !ok {
		return nil, interfaces.OperationFailed("invalid wallet data format: expected object with private_key")
	}

	walletID := s.profile.importedPrefix + uuid.NewString()
	result, err := interfaces.NewOperationResult(s.message("Wallet imported successfully"), map[string]string{
		"wallet_id": walletID,
		"address":   s.profile.address,
	})
	if err != nil {
		return nil, err
	}

	sess.walletID = walletID
	return result, nil
}

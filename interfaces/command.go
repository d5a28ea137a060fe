package interfaces

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseOperation parses the command form of a wallet operation.
//
// Plain commands:
//
//	CreateWallet, GetPublicKey, ExportWallet, ExportWalletWithPrivate, ImportWallet
//
// Parameterised commands are JSON objects with a "type" field:
//
//	{"type":"SignTransaction","txData":"{\"to\":\"0xabc\"}"}
//	{"type":"VerifySignature","message":"...","signature":"0x..."}
//	{"type":"ImportWallet","walletData":"{\"private_key\":\"0x...\"}"}
//
// The plain ImportWallet command carries an empty payload, which every backend rejects.
func ParseOperation(command string) (WalletOperation, error) {
	switch strings.TrimSpace(command) {
	case "CreateWallet":
		return CreateWallet{}, nil
	case "GetPublicKey":
		return GetPublicKey{}, nil
	case "ExportWallet":
		return ExportWallet{IncludePrivateKey: false}, nil
	case "ExportWalletWithPrivate":
		return ExportWallet{IncludePrivateKey: true}, nil
	case "ImportWallet":
		return ImportWallet{}, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(command), &fields); err != nil {
		return nil, fmt.Errorf("unknown TEE operation: %s", command)
	}

	opType, ok := fields["type"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid operation format: missing type field")
	}

	str := func(key string) (string, error) {
		v, ok := fields[key].(string)
		if !ok {
			return "", fmt.Errorf("missing %s for %s operation", key, opType)
		}
		return v, nil
	}

	switch opType {
	case "SignTransaction":
		tx, err := str("txData")
		if err != nil {
			return nil, err
		}
		return SignTransaction{Transaction: tx}, nil
	case "VerifySignature":
		message, err := str("message")
		if err != nil {
			return nil, err
		}
		signature, err := str("signature")
		if err != nil {
			return nil, err
		}
		return VerifySignature{Message: message, Signature: signature}, nil
	case "ImportWallet":
		wallet, err := str("walletData")
		if err != nil {
			return nil, err
		}
		return ImportWallet{Wallet: wallet}, nil
	case "CreateWallet":
		return CreateWallet{}, nil
	case "GetPublicKey":
		return GetPublicKey{}, nil
	case "ExportWallet":
		include, _ := fields["includePrivate"].(bool)
		return ExportWallet{IncludePrivateKey: include}, nil
	default:
		return nil, fmt.Errorf("unknown TEE operation type: %s", opType)
	}
}

package backend

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// profile holds the fixed identity and placeholder material of a variant.
type profile struct {
	name    string
	version string

	mnemonic   string
	publicKey  string
	address    string
	privateKey string

	// createdPrefix and importedPrefix are prepended to minted wallet ids.
	createdPrefix  string
	importedPrefix string

	// messageSuffix is appended to simulated result messages.
	messageSuffix string
}

const (
	// EnclaveName is the backend name reported by the Enclave variant.
	EnclaveName    = "Teaclave TrustZone"
	EnclaveVersion = "0.4.0"

	// TrustZoneName is the backend name reported by the TrustZone variant.
	TrustZoneName    = "OP-TEE TrustZone"
	TrustZoneVersion = "0.1.0"

	// EnclaveMnemonic and TrustZoneMnemonic are the fixed phrases returned on wallet creation.
	EnclaveMnemonic   = "mock test wallet phrase just for development not for production use"
	TrustZoneMnemonic = "army van defense carry jealous true garbage claim echo media make crunch"
)

var enclaveProfile = profile{
	name:       EnclaveName,
	version:    EnclaveVersion,
	mnemonic:   EnclaveMnemonic,
	publicKey:  hexutil.Encode(bytes.Repeat([]byte{0x01}, 65)),
	address:    hexutil.Encode(bytes.Repeat([]byte{0x02}, 20)),
	privateKey: hexutil.Encode(bytes.Repeat([]byte{0x03}, 32)),
}

var trustZoneProfile = profile{
	name:           TrustZoneName,
	version:        TrustZoneVersion,
	mnemonic:       TrustZoneMnemonic,
	publicKey:      "0x04a88b3c5c4bf4ba8c18825611c1f0604bd3fedb82a8bdfefd1b9fc3b04a2bdf8f46a35c42c76fed6e910b0db5f4e71ac1e4cd4ee9fafaef5c3d201e1f34e9d0e1",
	address:        "0x8e113078adf6888b7ba84967f299f29aece24c55",
	privateKey:     hexutil.Encode(bytes.Repeat([]byte{0xf2}, 32)),
	createdPrefix:  "optee-sim-",
	importedPrefix: "optee-imported-",
	messageSuffix:  " (simulation)",
}

package storage

import (
	"encoding/json"
	"fmt"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

func recordKey(walletID string) string {
	return walletID + ".json"
}

func encodeRecord(rec interfaces.WalletRecord) ([]byte, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode wallet record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (*interfaces.WalletRecord, error) {
	var rec interfaces.WalletRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode wallet record: %w", err)
	}
	return &rec, nil
}

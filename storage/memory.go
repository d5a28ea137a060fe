package storage

import (
	"context"
	"sync"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// MemoryStore keeps wallet records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]interfaces.WalletRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]interfaces.WalletRecord)}
}

func (s *MemoryStore) Put(ctx context.Context, rec interfaces.WalletRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.WalletID] = rec
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, walletID string) (*interfaces.WalletRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[walletID]
	if !ok {
		return nil, interfaces.ErrWalletNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Available(ctx context.Context) bool { return true }

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) LocationURI() string { return "memory://" }

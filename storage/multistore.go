package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// MultiWalletStore implements interfaces.WalletStore over several stores with fallback.
type MultiWalletStore struct {
	stores []interfaces.WalletStore
	log    *slog.Logger
}

// NewMultiWalletStore creates a multi-store. Writes go to every available
// store, reads return the first record found.
func NewMultiWalletStore(stores []interfaces.WalletStore, logger *slog.Logger) *MultiWalletStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &MultiWalletStore{
		stores: stores,
		log:    logger,
	}
}

func (m *MultiWalletStore) Get(ctx context.Context, walletID string) (*interfaces.WalletRecord, error) {
	start := time.Now()
	var errs []error
	notFound := 0

	for _, store := range m.stores {
		if !store.Available(ctx) {
			m.log.Debug("Store unavailable",
				slog.String("store_name", store.Name()),
				slog.String("wallet_id", walletID))
			continue
		}

		rec, err := store.Get(ctx, walletID)
		if err == nil {
			m.log.Debug("Fetched wallet record",
				slog.String("store_name", store.Name()),
				slog.String("wallet_id", walletID),
				slog.Duration("duration", time.Since(start)))
			return rec, nil
		}

		if errors.Is(err, interfaces.ErrWalletNotFound) {
			notFound++
			continue
		}

		errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
		m.log.Debug("Failed to fetch from store",
			slog.String("store_name", store.Name()),
			slog.String("wallet_id", walletID),
			"err", err)
	}

	if len(errs) == 0 && notFound > 0 {
		return nil, interfaces.ErrWalletNotFound
	}

	m.log.Error("All stores failed to fetch wallet record",
		slog.String("wallet_id", walletID),
		slog.Int("failed_stores", len(errs)),
		slog.Duration("duration", time.Since(start)))

	return nil, fmt.Errorf("%w: all stores failed to fetch %s: %v", interfaces.ErrStoreUnavailable, walletID, errs)
}

// Put saves the record to all available stores. It succeeds if at least one store accepted it.
func (m *MultiWalletStore) Put(ctx context.Context, rec interfaces.WalletRecord) error {
	start := time.Now()
	var success bool
	var errs []error

	for _, store := range m.stores {
		if !store.Available(ctx) {
			m.log.Debug("Store unavailable", slog.String("store_name", store.Name()))
			continue
		}

		if err := store.Put(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
			m.log.Debug("Failed to store to store",
				slog.String("store_name", store.Name()),
				"err", err)
			continue
		}
		success = true
	}

	if !success {
		m.log.Error("All stores failed to store wallet record",
			slog.Int("failed_stores", len(errs)),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("%w: all stores failed to store wallet record: %v", interfaces.ErrStoreUnavailable, errs)
	}

	m.log.Info("Stored wallet record",
		slog.String("wallet_id", rec.WalletID),
		slog.Int("failed_stores", len(errs)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Available checks if any store is available.
func (m *MultiWalletStore) Available(ctx context.Context) bool {
	for _, store := range m.stores {
		if store.Available(ctx) {
			return true
		}
	}
	return false
}

func (m *MultiWalletStore) Name() string {
	return "multi-store"
}

func (m *MultiWalletStore) LocationURI() string {
	var locations []string
	for _, store := range m.stores {
		locations = append(locations, store.LocationURI())
	}

	return "multi:[" + strings.Join(locations, ",") + "]"
}

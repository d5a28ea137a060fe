package interfaces

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Wallet record origins.
const (
	WalletOriginCreated  = "created"
	WalletOriginImported = "imported"
)

// WalletRecord is the metadata kept about a wallet minted or imported by a
// trust service. It never carries private key material.
type WalletRecord struct {
	WalletID  string    `json:"wallet_id"`
	Address   string    `json:"address,omitempty"`
	PublicKey string    `json:"public_key,omitempty"`
	Backend   string    `json:"backend"`
	Origin    string    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the record can be stored.
func (r *WalletRecord) Validate() error {
	if r.WalletID == "" {
		return errors.New("wallet record without wallet_id")
	}
	if strings.ContainsAny(r.WalletID, "/\\") || strings.Contains(r.WalletID, "..") {
		return fmt.Errorf("invalid wallet_id %q", r.WalletID)
	}
	return nil
}

// WalletStore persists wallet records keyed by wallet identifier.
type WalletStore interface {
	// Put stores or replaces the record for rec.WalletID.
	Put(ctx context.Context, rec WalletRecord) error

	// Get returns the record for walletID, or ErrWalletNotFound.
	Get(ctx context.Context, walletID string) (*WalletRecord, error)

	// Available reports whether the store is reachable.
	Available(ctx context.Context) bool

	// Name returns a unique identifier for the store.
	Name() string

	// LocationURI returns the URI the store was created from.
	LocationURI() string
}

// WalletStoreLocation is a URI pointing at a wallet store, e.g. file:///var/lib/tee/wallets.
type WalletStoreLocation string

// NewWalletStoreLocation validates a store URI.
func NewWalletStoreLocation(uri string) (WalletStoreLocation, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file", "s3", "vault", "memory":
		return WalletStoreLocation(uri), nil
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, u.Scheme)
	}
}

var (
	// ErrWalletNotFound is returned when no record exists for a wallet identifier.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrStoreUnavailable is returned when a wallet store is not accessible.
	ErrStoreUnavailable = errors.New("wallet store unavailable")

	// ErrInvalidLocationURI is returned when a store location URI is malformed or unsupported.
	ErrInvalidLocationURI = errors.New("invalid wallet store location URI")
)

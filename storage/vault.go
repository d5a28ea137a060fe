package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// VaultStore stores wallet records in a HashiCorp Vault KV v2 mount using
// token authentication.
type VaultStore struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultStore creates a Vault wallet store.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: KV v2 mount path (e.g. "secret")
//   - dataPath: Path within the mount (e.g. "wallets")
//   - token: Vault token; empty falls back to VAULT_TOKEN from the environment
//   - log: Structured logger for operational insights
func NewVaultStore(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultStore, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.Trim(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultStore{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", strings.TrimPrefix(strings.TrimPrefix(address, "https://"), "http://"), mountPath, dataPath),
	}, nil
}

// path returns the KV v2 data path of a record.
func (s *VaultStore) path(walletID string) string {
	if s.dataPath == "" {
		return fmt.Sprintf("%s/data/%s", s.mountPath, walletID)
	}
	return fmt.Sprintf("%s/data/%s/%s", s.mountPath, s.dataPath, walletID)
}

func (s *VaultStore) Put(ctx context.Context, rec interfaces.WalletRecord) error {
	start := time.Now()
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	path := s.path(rec.WalletID)
	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"record": string(data),
		},
	}

	_, err = s.client.Logical().WriteWithContext(ctx, path, secretData)
	if err != nil {
		s.log.Error("Failed to write to Vault",
			slog.String("path", path),
			slog.String("wallet_id", rec.WalletID),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	s.log.Info("Stored wallet record in Vault",
		slog.String("wallet_id", rec.WalletID),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (s *VaultStore) Get(ctx context.Context, walletID string) (*interfaces.WalletRecord, error) {
	probe := interfaces.WalletRecord{WalletID: walletID}
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	path := s.path(walletID)
	secret, err := s.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		s.log.Error("Failed to read from Vault",
			slog.String("path", path),
			slog.String("wallet_id", walletID),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrWalletNotFound
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response")
	}

	record, ok := data["record"].(string)
	if !ok {
		return nil, fmt.Errorf("record key not found in Vault data")
	}

	return decodeRecord([]byte(record))
}

// Available uses the health endpoint to verify that Vault is initialized and unsealed.
func (s *VaultStore) Available(ctx context.Context) bool {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := s.client.Sys().HealthWithContext(healthCtx)
	if err != nil {
		s.log.Debug("Vault health check failed", "err", err)
		return false
	}

	if !health.Initialized || health.Sealed {
		s.log.Debug("Vault is not available",
			slog.Bool("initialized", health.Initialized),
			slog.Bool("sealed", health.Sealed))
		return false
	}

	return true
}

func (s *VaultStore) Name() string {
	return fmt.Sprintf("vault-%s-%s", s.mountPath, s.dataPath)
}

func (s *VaultStore) LocationURI() string {
	return s.locationURI
}

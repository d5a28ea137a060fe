package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// WalletStoreFactory creates wallet stores from URI strings.
type WalletStoreFactory struct {
	log *slog.Logger
}

func NewWalletStoreFactory(logger *slog.Logger) *WalletStoreFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletStoreFactory{log: logger}
}

// WalletStoreFor creates a store from a location URI.
//
// Supported schemes:
//   - file:// - Local filesystem storage
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2
//   - memory:// - In-process storage
func (sf *WalletStoreFactory) WalletStoreFor(locationURI interfaces.WalletStoreLocation) (interfaces.WalletStore, error) {
	u, err := url.Parse(string(locationURI))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return sf.createFileStore(u)
	case "s3":
		return sf.createS3Store(u)
	case "vault":
		return sf.createVaultStore(u)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported store scheme: %s", interfaces.ErrInvalidLocationURI, u.Scheme)
	}
}

// CreateMultiStore creates a multi-store from a list of location URIs.
// Invalid URIs are logged and skipped. A single valid store is returned unwrapped.
func (sf *WalletStoreFactory) CreateMultiStore(locationURIs []interfaces.WalletStoreLocation) (interfaces.WalletStore, error) {
	stores := make([]interfaces.WalletStore, 0, len(locationURIs))

	for _, uri := range locationURIs {
		store, err := sf.WalletStoreFor(uri)
		if err != nil {
			sf.log.Warn("Failed to create wallet store",
				"err", err,
				slog.String("locationURI", string(uri)))
			continue
		}
		stores = append(stores, store)
	}

	switch len(stores) {
	case 0:
		return nil, fmt.Errorf("no valid wallet stores created")
	case 1:
		return stores[0], nil
	default:
		return NewMultiWalletStore(stores, sf.log), nil
	}
}

// createFileStore handles file:///absolute/path/ and file://./relative/path/.
func (sf *WalletStoreFactory) createFileStore(u *url.URL) (interfaces.WalletStore, error) {
	sf.log.Debug("Creating file store", slog.String("uri", u.String()))

	path := u.Path
	if u.Host != "" {
		path = u.Host + "/" + strings.TrimPrefix(path, "/")
	}

	if path == "" {
		return nil, fmt.Errorf("empty path in file URI: %s", u.String())
	}

	return NewFileStore(path, sf.log)
}

// createS3Store handles s3://[ACCESS_KEY:SECRET_KEY@]bucket-name/prefix/?region=us-west-2&endpoint=custom.s3.com
func (sf *WalletStoreFactory) createS3Store(u *url.URL) (interfaces.WalletStore, error) {
	sf.log.Debug("Creating S3 store", slog.String("bucket", u.Host))

	if u.Host == "" {
		return nil, fmt.Errorf("missing bucket in S3 URI")
	}

	query := u.Query()
	region := query.Get("region")
	if region == "" {
		region = "us-east-1"
	}

	var accessKey, secretKey string
	if u.User != nil {
		accessKey = u.User.Username()
		secretKey, _ = u.User.Password()
	}

	return NewS3Store(u.Host, strings.TrimPrefix(u.Path, "/"), region, query.Get("endpoint"), accessKey, secretKey, sf.log)
}

// createVaultStore handles vault://[token@]host:port/mount/path?tls=false
// The first path segment is the KV v2 mount, the rest is the data path.
func (sf *WalletStoreFactory) createVaultStore(u *url.URL) (interfaces.WalletStore, error) {
	sf.log.Debug("Creating Vault store", slog.String("host", u.Host))

	if u.Host == "" {
		return nil, fmt.Errorf("missing host in Vault URI")
	}

	scheme := "https"
	if u.Query().Get("tls") == "false" {
		scheme = "http"
	}

	mount, dataPath, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if mount == "" {
		mount = "secret"
	}

	var token string
	if u.User != nil {
		token = u.User.Username()
	}

	return NewVaultStore(fmt.Sprintf("%s://%s", scheme, u.Host), mount, dataPath, token, sf.log)
}

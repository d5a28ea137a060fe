package storage

import (
	"path/filepath"
	"testing"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletStoreFor(t *testing.T) {
	dir := t.TempDir()
	factory := NewWalletStoreFactory(testLogger())

	tests := []struct {
		name    string
		uri     string
		want    any
		wantErr bool
	}{
		{name: "file", uri: "file://" + filepath.Join(dir, "wallets"), want: &FileStore{}},
		{name: "memory", uri: "memory://", want: &MemoryStore{}},
		{name: "s3", uri: "s3://key:secret@wallets/tee?region=eu-west-1&endpoint=http://localhost:9000", want: &S3Store{}},
		{name: "vault", uri: "vault://token@localhost:8200/secret/wallets?tls=false", want: &VaultStore{}},
		{name: "unsupported", uri: "ipfs://localhost:5001", wantErr: true},
		{name: "s3 without bucket", uri: "s3:///prefix", wantErr: true},
		{name: "empty file path", uri: "file://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := factory.WalletStoreFor(interfaces.WalletStoreLocation(tt.uri))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}

func TestWalletStoreForVaultPaths(t *testing.T) {
	factory := NewWalletStoreFactory(testLogger())

	store, err := factory.WalletStoreFor("vault://localhost:8200/kv/tee/wallets?tls=false")
	require.NoError(t, err)

	vault := store.(*VaultStore)
	assert.Equal(t, "kv", vault.mountPath)
	assert.Equal(t, "tee/wallets", vault.dataPath)
	assert.Equal(t, "kv/data/tee/wallets/w1", vault.path("w1"))
	assert.Equal(t, "http://localhost:8200", vault.client.Address())
}

func TestCreateMultiStore(t *testing.T) {
	factory := NewWalletStoreFactory(testLogger())

	store, err := factory.CreateMultiStore([]interfaces.WalletStoreLocation{"memory://", "bogus://x"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = factory.CreateMultiStore([]interfaces.WalletStoreLocation{
		"memory://",
		interfaces.WalletStoreLocation("file://" + t.TempDir()),
	})
	require.NoError(t, err)
	assert.IsType(t, &MultiWalletStore{}, store)

	_, err = factory.CreateMultiStore([]interfaces.WalletStoreLocation{"bogus://x"})
	assert.Error(t, err)

	_, err = factory.CreateMultiStore(nil)
	assert.Error(t, err)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// FileStore stores wallet records as JSON files in a directory.
type FileStore struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileStore creates a file store rooted at baseDir, creating it if needed.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileStore{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Put writes the record atomically by renaming a temporary file into place.
func (s *FileStore) Put(ctx context.Context, rec interfaces.WalletRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	filePath := filepath.Join(s.baseDir, recordKey(rec.WalletID))
	tmp, err := os.CreateTemp(s.baseDir, ".wallet-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	s.log.Debug("Stored wallet record in file",
		slog.String("path", filePath),
		slog.String("wallet_id", rec.WalletID))
	return nil
}

// Get reads the record for walletID. Returns ErrWalletNotFound if the file doesn't exist.
func (s *FileStore) Get(ctx context.Context, walletID string) (*interfaces.WalletRecord, error) {
	probe := interfaces.WalletRecord{WalletID: walletID}
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	filePath := filepath.Join(s.baseDir, recordKey(walletID))
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, interfaces.ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return decodeRecord(data)
}

// Available checks the base directory exists.
func (s *FileStore) Available(ctx context.Context) bool {
	_, err := os.Stat(s.baseDir)
	if err != nil {
		s.log.Debug("File store unavailable", "err", err)
		return false
	}
	return true
}

func (s *FileStore) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(s.baseDir))
}

func (s *FileStore) LocationURI() string {
	return s.locationURI
}

// Package storage provides wallet record stores with pluggable backends.
//
// A trust service records the metadata of every wallet it creates or imports
// (identifier, address, public key, backend, origin, creation time). Private
// key material is never stored. Records are JSON documents keyed by wallet id:
//
//   - File system storage for local development and testing
//   - S3-compatible storage for cloud deployments
//   - Vault KV v2 storage with token authentication
//   - In-memory storage for tests and ephemeral services
//
// # Store URI Format
//
// Stores are specified using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//   - file:///var/lib/tee/wallets/
//   - s3://bucket-name/prefix/?region=us-west-2&endpoint=minio.local:9000
//   - vault://vault.example.com:8200/secret/wallets?tls=false
//   - memory://
//
// # Redundancy
//
// MultiWalletStore writes to every available store and reads from the first
// that has the record. The WalletStoreFactory builds one from a list of URIs.
package storage

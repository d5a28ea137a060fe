// Package main (cmd/teeservice) runs a remote trust service.
//
// The service executes wallet operations on a local TEE backend and answers
// the remote delegation protocol used by backends in remote mode. Wallets
// created or imported through the service are recorded in the configured
// wallet stores (file, s3, vault or memory URIs).
//
// The service never delegates to another trust service: without trust
// hardware it runs its backend in simulated mode.
//
// Example usage:
//
//	teeservice --listen-addr=0.0.0.0:3030 \
//	    --kind=trustzone \
//	    --store=file:///var/lib/tee/wallets \
//	    --store=vault://s.token@vault:8200/secret/wallets
package main

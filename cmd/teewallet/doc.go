// Package main (cmd/teewallet) is a command line front-end of the wallet runtime.
//
// Every invocation runs against a fresh process-wide runtime. Backend
// selection follows --kind and --mode, or auto-detection when neither is given.
//
//	teewallet status
//	teewallet init
//	teewallet detect
//	teewallet configure --kind=trustzone --mode=remote --endpoint=http://localhost:3030
//	teewallet op CreateWallet '{"type":"SignTransaction","txData":"{\"to\":\"0xabc\"}"}'
//
// Operations passed to one op invocation share the backend session, so a
// wallet created by the first command is used by the following ones.
package main

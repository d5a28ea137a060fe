/*
Package backend implements the trust backend variants and the factory that
selects between them.

Two variants implement interfaces.TrustBackend:

  - Enclave: secure-enclave style backend
  - TrustZone: TrustZone style backend

Each variant executes operations through one of three strategies chosen by its
connection mode. Local runs in-process against the device's trust hardware,
Remote delegates to a trust service over the protocol in package api, and
Simulated produces deterministic placeholder results.

Local mode has no hardware integration yet. Both variants route Local
operations through localExecutor, which currently runs the simulated engine,
so that a hardware implementation can be substituted without touching callers.

The simulated engine performs no real cryptography. Signatures are 65 bytes
with the transaction bytes mixed into the first 32 and a recovery byte of 27,
and key material is fixed per variant.

Backend instances are not safe for concurrent use. Factory.CreateBest returns
a Shared wrapper that serializes access.
*/
package backend

/*
Package api defines the Remote Delegation Protocol spoken between a trust
backend in remote mode and a remote trust service.

This package is organized into two subpackages:

1. teeclient - HTTP client used by backends configured in remote mode
2. teehandler - HTTP handler implementing the trust service side

# Endpoints

  - GET  {endpoint}/api/tee/status     - reachability probe, returns BackendStatus
  - POST {endpoint}/api/tee/initialize - initializes the service backend
  - POST {endpoint}/api/tee/operation  - executes one wallet operation

# Operation Envelope

Requests carry the operation name and optional JSON params:

	{"operation": "export_wallet", "params": {"include_private": true}}

Responses mirror OperationResult:

	{"success": true, "message": "...", "data": {"wallet_id": "..."}}

A non-200 status or transport failure is reported to callers as
interfaces.ErrOperationFailed carrying the status or cause.
*/
package api

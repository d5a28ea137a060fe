// Package httpserver hosts the trust service API.
//
// Besides the routes registered by the API handler the server exposes
//
//	GET /livez    liveness check
//	GET /readyz   readiness check, 503 while draining
//	GET /drain    mark the server not ready
//	GET /undrain  mark the server ready again
//
// and, when enabled, the pprof API under /debug. Prometheus metrics are
// served on a separate listener.
package httpserver

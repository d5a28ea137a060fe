package api

import (
	"log/slog"
	"time"
)

// HTTPServerConfig configures the trust service HTTP server.
type HTTPServerConfig struct {
	// ListenAddr serves the remote delegation protocol and health endpoints.
	ListenAddr string

	// MetricsAddr serves Prometheus wallet operation metrics. Empty disables it.
	MetricsAddr string

	EnablePprof bool

	Log *slog.Logger

	// DrainDuration is how long /drain keeps the service advertised as not
	// ready before load balancers are expected to have stopped routing to it.
	DrainDuration time.Duration

	// GracefulShutdownDuration bounds in-flight wallet operations on shutdown.
	GracefulShutdownDuration time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

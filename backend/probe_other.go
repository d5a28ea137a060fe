//go:build !arm64 || notee

package backend

// Trust hardware is only expected on arm64 devices.
const archSupported = false

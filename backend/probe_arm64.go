//go:build arm64 && !notee

package backend

const archSupported = true

//go:build dev

package common

// Development enables development-only defaults such as the remote
// TrustZone fallback at DevEndpoint during auto-detection.
const Development = true

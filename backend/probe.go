package backend

import "os"

// TrustZoneDevice is the TEE driver device node of the TrustZone variant.
const TrustZoneDevice = "/dev/tee0"

// EnclaveSupported reports whether the architecture can host the Enclave variant.
func EnclaveSupported() bool {
	return archSupported
}

// TrustZoneSupported reports whether the architecture can host the TrustZone
// variant and its driver device is present.
func TrustZoneSupported() bool {
	if !archSupported {
		return false
	}
	_, err := os.Stat(TrustZoneDevice)
	return err == nil
}

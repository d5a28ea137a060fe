package common

// Version is set at build time via -ldflags "-X github.com/ruteri/tee-wallet-runtime/common.Version=..."
var Version = "dev"

const PackageName = "github.com/ruteri/tee-wallet-runtime"

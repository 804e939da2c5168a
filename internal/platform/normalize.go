package platform

import (
	"fmt"
	"strings"
)

// normalizeOS maps a Go runtime OS name to the asset-naming token.
// Anything outside linux/darwin/windows is unsupported.
func normalizeOS(goos string) (string, error) {
	switch goos {
	case "linux":
		return OSLinux, nil
	case "darwin":
		return OSMacOS, nil
	case "windows":
		return OSWindows, nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", goos)
	}
}

// normalizeArch maps a raw architecture token to the asset-naming token.
// Raw tokens come from the kernel machine string (uname) on unix and from
// PROCESSOR_ARCHITECTURE on Windows, so matching is case-insensitive.
func normalizeArch(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "x86_64", "amd64":
		return ArchX64, nil
	case "aarch64", "arm64":
		return ArchARM64, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %q", raw)
	}
}

//go:build darwin

package cputier

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// darwinFeatureFlags concatenates the two machdep feature strings the way
// the platform exposes them. leaf7_features is absent on CPUs predating
// Haswell; its flags are then simply not present, which classifies as v2.
func darwinFeatureFlags() ([]string, error) {
	base, err := unix.Sysctl("machdep.cpu.features")
	if err != nil {
		return nil, fmt.Errorf("sysctl machdep.cpu.features: %w", err)
	}
	leaf7, err := unix.Sysctl("machdep.cpu.leaf7_features")
	if err != nil {
		leaf7 = ""
	}
	return strings.Fields(base + " " + leaf7), nil
}

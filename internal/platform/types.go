// Package platform probes the host machine and produces the normalized
// descriptor (operating system, CPU architecture, libc variant) that drives
// release asset selection.
//
// Detection uses gopsutil for the kernel-reported machine string and Linux
// distribution details, the PROCESSOR_ARCHITECTURE environment token on
// Windows, and a sysctl query on macOS to recognize Rosetta translation.
// Every probe is injectable so tests can exercise platforms other than the
// one running the test suite.
package platform

import "context"

// Operating system tokens as they appear in release asset names.
const (
	OSLinux   = "linux"
	OSMacOS   = "macos"
	OSWindows = "windows"
)

// Architecture tokens as they appear in release asset names.
const (
	ArchX64   = "x64"
	ArchARM64 = "arm64"
)

// Libc variant tokens. LibcNone applies to macOS and Windows, which never
// carry a libc suffix.
const (
	LibcGlibc = "glibc"
	LibcMusl  = "musl"
	LibcNone  = ""
)

// Descriptor identifies the target platform for asset selection.
// It is computed once per run and never mutated afterwards.
type Descriptor struct {
	OS   string // "linux", "macos", "windows"
	Arch string // "x64", "arm64"
	Libc string // "glibc", "musl", or "" when not applicable
}

// String renders the descriptor for log output, e.g. "linux/x64 (musl)".
func (d Descriptor) String() string {
	s := d.OS + "/" + d.Arch
	if d.Libc == LibcMusl {
		s += " (musl)"
	}
	return s
}

// IsMusl returns true if the libc variant is musl.
func (d Descriptor) IsMusl() bool {
	return d.Libc == LibcMusl
}

// TierEligible returns true if CPU tier classification applies to this
// platform: x64 on linux or macos only.
func (d Descriptor) TierEligible() bool {
	return d.Arch == ArchX64 && (d.OS == OSLinux || d.OS == OSMacOS)
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (Descriptor, error)
}

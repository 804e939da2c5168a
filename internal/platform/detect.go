package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
	"go.uber.org/zap"
)

// alpineReleaseFile marks an Alpine (musl) system when present.
const alpineReleaseFile = "/etc/alpine-release"

// RealDetector implements Detector against the running host.
// The probe fields default to real implementations; tests replace them to
// simulate platforms other than the one running the suite.
type RealDetector struct {
	log *zap.SugaredLogger

	goos          string
	rawArch       func(ctx context.Context) (string, error)
	translated    func() bool
	alpineMarker  string
	loaderVersion func() string
	hostPlatform  func(ctx context.Context) (string, string, string, error)
}

// NewDetector creates a platform detector for the running host.
func NewDetector(log *zap.SugaredLogger) *RealDetector {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RealDetector{
		log:           log,
		goos:          runtime.GOOS,
		rawArch:       rawArch,
		translated:    translatedProcess,
		alpineMarker:  alpineReleaseFile,
		loaderVersion: loaderVersion,
		hostPlatform:  host.PlatformInformationWithContext,
	}
}

// Detect probes the host and returns the platform descriptor.
// An OS or architecture outside the supported set is a fatal error; no
// partial or best-guess descriptor is ever returned.
func (d *RealDetector) Detect(ctx context.Context) (Descriptor, error) {
	osName, err := normalizeOS(d.goos)
	if err != nil {
		return Descriptor{}, err
	}

	raw, err := d.rawArch(ctx)
	if err != nil {
		return Descriptor{}, fmt.Errorf("read architecture: %w", err)
	}
	arch, err := normalizeArch(raw)
	if err != nil {
		return Descriptor{}, err
	}

	desc := Descriptor{OS: osName, Arch: arch}

	// Rosetta changes the target identity, so this runs before any
	// libc or CPU feature detection.
	if desc.OS == OSMacOS && desc.Arch == ArchX64 && d.translated() {
		desc.Arch = ArchARM64
		d.log.Infof("Rosetta translation detected, targeting the native arm64 build")
	}

	if desc.OS == OSLinux {
		d.logDistro(ctx)
		desc.Libc = d.detectLibc()
	}

	d.log.Debugf("detected platform %s", desc)
	return desc, nil
}

// detectLibc reports musl when the Alpine marker file exists or the dynamic
// loader identifies itself as musl; glibc otherwise. The marker file alone
// is sufficient regardless of what the loader reports.
func (d *RealDetector) detectLibc() string {
	if _, err := os.Stat(d.alpineMarker); err == nil {
		d.log.Debugf("found %s, selecting musl builds", d.alpineMarker)
		return LibcMusl
	}
	if strings.Contains(strings.ToLower(d.loaderVersion()), "musl") {
		d.log.Debugf("dynamic loader reports musl, selecting musl builds")
		return LibcMusl
	}
	return LibcGlibc
}

// logDistro records the detected distribution for diagnostics. Failures are
// ignored: distribution identity never gates installation.
func (d *RealDetector) logDistro(ctx context.Context) {
	platformID, family, version, err := d.hostPlatform(ctx)
	if err != nil {
		d.log.Debugf("distribution detection failed: %v", err)
		return
	}
	d.log.Debugf("host distribution: %s %s (family %s)", platformID, version, family)
}

// rawArch reads the raw architecture token: the PROCESSOR_ARCHITECTURE
// environment token on Windows, the kernel machine string elsewhere.
func rawArch(ctx context.Context) (string, error) {
	if runtime.GOOS == "windows" {
		if v := os.Getenv("PROCESSOR_ARCHITECTURE"); v != "" {
			return v, nil
		}
		return "", fmt.Errorf("PROCESSOR_ARCHITECTURE is not set")
	}
	return host.KernelArchWithContext(ctx)
}

// loaderVersion captures the dynamic loader's version banner. musl's ldd
// prints it on stderr and exits non-zero, so the error is ignored and only
// the combined output inspected.
func loaderVersion() string {
	out, _ := exec.Command("ldd", "--version").CombinedOutput()
	return string(out)
}

package cputier

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.uber.org/zap"

	"github.com/nocturne-network/nocturne-install/internal/platform"
)

// Feature flags required per tier. Flag names follow the Linux kernel's
// lower-case spelling; matching is case-insensitive because the macOS
// sysctl strings report them upper-case.
var (
	v4Flags = []string{"avx512f", "avx512dq", "avx512cd", "avx512bw", "avx512vl"}
	v3Flags = []string{"avx2", "bmi1", "bmi2", "fma"}
)

// Classify maps a CPU feature flag set to a tier. Flags are matched as
// whole tokens, so substring collisions (bmi2 inside avx512_vbmi2) cannot
// produce a false positive. An empty or incomplete flag set classifies as
// the v2 baseline.
func Classify(flags []string) Tier {
	set := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		set[strings.ToLower(f)] = struct{}{}
	}

	if hasAll(set, v4Flags) {
		return V4
	}
	if hasAll(set, v3Flags) {
		return V3
	}
	return V2
}

func hasAll(set map[string]struct{}, want []string) bool {
	for _, f := range want {
		if _, ok := set[f]; !ok {
			return false
		}
	}
	return true
}

// Classifier resolves the CPU tier for a detected platform.
// The flag source is injectable so tests can classify feature sets the test
// host does not have.
type Classifier struct {
	log        *zap.SugaredLogger
	flagSource func(ctx context.Context, osName string) ([]string, error)
}

// NewClassifier creates a classifier reading feature flags from the running
// host.
func NewClassifier(log *zap.SugaredLogger) *Classifier {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Classifier{
		log:        log,
		flagSource: featureFlags,
	}
}

// Classify returns the tier for the target platform, or None when tiering
// does not apply (non-x64, or Windows). Unreadable feature data degrades to
// V2 and is surfaced as a warning rather than an error, since a silent
// downgrade could mask a genuine detection bug.
func (c *Classifier) Classify(ctx context.Context, desc platform.Descriptor) Tier {
	if !desc.TierEligible() {
		return None
	}

	flags, err := c.flagSource(ctx, desc.OS)
	if err != nil {
		c.log.Warnf("could not read CPU feature flags, falling back to baseline v2: %v", err)
		return V2
	}
	if len(flags) == 0 {
		c.log.Warnf("CPU feature flag set is empty, falling back to baseline v2")
		return V2
	}

	tier := Classify(flags)
	c.log.Debugf("CPU classified as %s from %d feature flags", tier, len(flags))
	return tier
}

// featureFlags reads the host CPU feature flags: the processor-info flags
// line (via gopsutil) on linux, the machdep sysctl feature strings on macos.
func featureFlags(ctx context.Context, osName string) ([]string, error) {
	switch osName {
	case platform.OSLinux:
		return linuxFeatureFlags(ctx)
	case platform.OSMacOS:
		return darwinFeatureFlags()
	default:
		return nil, fmt.Errorf("no CPU flag source for %s", osName)
	}
}

func linuxFeatureFlags(ctx context.Context) ([]string, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read processor info: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("processor info reported no CPUs")
	}
	return infos[0].Flags, nil
}

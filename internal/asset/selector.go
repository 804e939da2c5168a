// Package asset maps a probed platform and CPU tier to the release asset
// to download. Tiered platforms walk a fallback chain from the most
// optimized published build down to the baseline.
package asset

import (
	"context"
	"fmt"
	"strings"

	"github.com/nocturne-network/nocturne-install/internal/cputier"
	"github.com/nocturne-network/nocturne-install/internal/platform"
)

const product = "nocturne-miner"

// ExistsFunc answers whether a named asset is published by the release
// under consideration.
type ExistsFunc func(ctx context.Context, name string) (bool, error)

// Selection is the asset chosen for download
type Selection struct {
	Name string
	// Tier is the microarchitecture level of the chosen build, or None
	// for a baseline build
	Tier cputier.Tier
}

// candidate pairs an asset name with the tier of the build it carries
type candidate struct {
	name string
	tier cputier.Tier
}

// Name returns the published asset name for a platform at the given tier.
// Tier None names the baseline build.
func Name(desc platform.Descriptor, tier cputier.Tier) string {
	parts := []string{product, desc.OS}
	if desc.IsMusl() {
		parts = append(parts, "musl")
	}
	parts = append(parts, desc.Arch)
	if tier != cputier.None {
		parts = append(parts, tier.String())
	}

	ext := ".tar.gz"
	if desc.OS == platform.OSWindows {
		ext = ".zip"
	}

	return strings.Join(parts, "-") + ext
}

// candidates returns the fallback chain for a platform, most optimized
// build first, baseline last
func candidates(desc platform.Descriptor, tier cputier.Tier) []candidate {
	switch {
	case desc.OS == platform.OSWindows && desc.Arch == platform.ArchX64:
		// Windows skips CPU classification but still prefers the v2
		// build when one is published.
		return []candidate{
			{Name(desc, cputier.V2), cputier.V2},
			{Name(desc, cputier.None), cputier.None},
		}
	case desc.OS == platform.OSWindows && desc.Arch == platform.ArchARM64:
		return []candidate{{Name(desc, cputier.None), cputier.None}}
	case desc.Arch == platform.ArchARM64:
		return []candidate{{Name(desc, cputier.None), cputier.None}}
	case desc.Arch == platform.ArchX64:
		chain := make([]candidate, 0, 4)
		for t := tier; t >= cputier.V2; t-- {
			chain = append(chain, candidate{Name(desc, t), t})
		}
		return append(chain, candidate{Name(desc, cputier.None), cputier.None})
	default:
		return nil
	}
}

// Select walks the fallback chain for the platform and returns the first
// candidate the release publishes. Probing stops at the first hit, so a
// machine that gets its best build never pays for the rest of the chain.
func Select(ctx context.Context, desc platform.Descriptor, tier cputier.Tier, tag string, exists ExistsFunc) (Selection, error) {
	chain := candidates(desc, tier)
	if len(chain) == 0 {
		return Selection{}, fmt.Errorf("unsupported platform combination: %s", desc)
	}

	for _, c := range chain {
		ok, err := exists(ctx, c.name)
		if err != nil {
			return Selection{}, fmt.Errorf("check %s: %w", c.name, err)
		}
		if ok {
			return Selection{Name: c.name, Tier: c.tier}, nil
		}
	}

	base := chain[len(chain)-1].name
	return Selection{}, fmt.Errorf("release %s does not include %s (cpu tier %s)", tag, base, tier)
}

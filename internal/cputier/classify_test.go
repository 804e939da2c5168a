package cputier

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/nocturne-network/nocturne-install/internal/platform"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		flags string
		want  Tier
	}{
		{
			name:  "full v4 set",
			flags: "fpu sse2 avx avx2 bmi1 bmi2 fma avx512f avx512dq avx512cd avx512bw avx512vl",
			want:  V4,
		},
		{
			name:  "v4 set in macos sysctl spelling",
			flags: "FPU VME FMA AVX1.0 AVX2 BMI1 BMI2 AVX512F AVX512DQ AVX512CD AVX512BW AVX512VL",
			want:  V4,
		},
		{
			name:  "incomplete avx512 falls to v3",
			flags: "avx2 bmi1 bmi2 fma avx512f avx512dq avx512cd avx512bw",
			want:  V3,
		},
		{
			name:  "exact v3 set",
			flags: "avx2 bmi1 bmi2 fma",
			want:  V3,
		},
		{
			name:  "v3 set in macos sysctl spelling",
			flags: "FMA AVX1.0 AVX2 BMI1 BMI2",
			want:  V3,
		},
		{
			name:  "missing fma falls to v2",
			flags: "avx2 bmi1 bmi2",
			want:  V2,
		},
		{
			name:  "missing bmi2 falls to v2",
			flags: "avx2 bmi1 fma",
			want:  V2,
		},
		{
			name: "bmi2 inside avx512_vbmi2 is not bmi2",
			// avx512_vbmi2 and avx512_bitalg contain v3 flag names as
			// substrings; whole-token matching must not be fooled.
			flags: "avx2 bmi1 fma avx512_vbmi2 avx512_bitalg",
			want:  V2,
		},
		{
			name:  "avx2 inside other tokens is not avx2",
			flags: "savx2 avx21 bmi1 bmi2 fma",
			want:  V2,
		},
		{
			name:  "pre-avx2 cpu",
			flags: "fpu vme de pse tsc msr sse sse2 ssse3 sse4_1 sse4_2 popcnt",
			want:  V2,
		},
		{
			name:  "empty flag string",
			flags: "",
			want:  V2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(strings.Fields(tt.flags)); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTierString(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{None, "none"},
		{V2, "v2"},
		{V3, "v3"},
		{V4, "v4"},
	}

	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestClassifierSkipsIneligiblePlatforms(t *testing.T) {
	descs := []platform.Descriptor{
		{OS: platform.OSLinux, Arch: platform.ArchARM64},
		{OS: platform.OSMacOS, Arch: platform.ArchARM64},
		{OS: platform.OSWindows, Arch: platform.ArchX64},
		{OS: platform.OSWindows, Arch: platform.ArchARM64},
	}

	for _, desc := range descs {
		c := NewClassifier(nil)
		c.flagSource = func(ctx context.Context, osName string) ([]string, error) {
			t.Errorf("%v: flag source must not be consulted", desc)
			return nil, nil
		}

		if got := c.Classify(context.Background(), desc); got != None {
			t.Errorf("%v: Classify() = %v, want None", desc, got)
		}
	}
}

func TestClassifierDegradesToV2OnError(t *testing.T) {
	c := NewClassifier(nil)
	c.flagSource = func(ctx context.Context, osName string) ([]string, error) {
		return nil, errors.New("no such file or directory")
	}

	desc := platform.Descriptor{OS: platform.OSLinux, Arch: platform.ArchX64}
	if got := c.Classify(context.Background(), desc); got != V2 {
		t.Errorf("Classify() = %v, want V2 fallback", got)
	}
}

func TestClassifierDegradesToV2OnEmptyFlags(t *testing.T) {
	c := NewClassifier(nil)
	c.flagSource = func(ctx context.Context, osName string) ([]string, error) {
		return nil, nil
	}

	desc := platform.Descriptor{OS: platform.OSMacOS, Arch: platform.ArchX64}
	if got := c.Classify(context.Background(), desc); got != V2 {
		t.Errorf("Classify() = %v, want V2 fallback", got)
	}
}

func TestClassifierUsesFlagSource(t *testing.T) {
	c := NewClassifier(nil)
	c.flagSource = func(ctx context.Context, osName string) ([]string, error) {
		if osName != platform.OSLinux {
			t.Errorf("flag source called with %q, want linux", osName)
		}
		return []string{"avx2", "bmi1", "bmi2", "fma"}, nil
	}

	desc := platform.Descriptor{OS: platform.OSLinux, Arch: platform.ArchX64}
	if got := c.Classify(context.Background(), desc); got != V3 {
		t.Errorf("Classify() = %v, want V3", got)
	}
}

func TestFeatureFlagsRejectsUnsupportedOS(t *testing.T) {
	if _, err := featureFlags(context.Background(), platform.OSWindows); err == nil {
		t.Error("expected error for windows flag source")
	}
}

// TestLinuxFeatureFlagsOnHost reads the real processor info where available.
func TestLinuxFeatureFlagsOnHost(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skipf("linux only, running on %s", runtime.GOOS)
	}

	flags, err := linuxFeatureFlags(context.Background())
	if err != nil {
		t.Fatalf("linuxFeatureFlags() error = %v", err)
	}
	if len(flags) == 0 {
		t.Error("expected at least one CPU feature flag")
	}
}

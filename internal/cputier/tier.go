// Package cputier classifies the host CPU into an x86-64 microarchitecture
// feature tier (v2/v3/v4) used to pick the fastest published miner build the
// machine can run.
//
// Classification never fails: any problem reading feature flags degrades to
// the universal v2 baseline with a logged warning, because installing a
// slower binary is always preferable to installing nothing.
package cputier

// Tier is an x86-64 microarchitecture feature level. Higher tiers require
// newer instruction set extensions; v2 is the universal baseline. The zero
// value None means tiering does not apply to the target platform.
type Tier int

const (
	None Tier = iota
	V2
	V3
	V4
)

// String returns the tier token as it appears in asset names.
func (t Tier) String() string {
	switch t {
	case V2:
		return "v2"
	case V3:
		return "v3"
	case V4:
		return "v4"
	default:
		return "none"
	}
}

//go:build !darwin

package cputier

import "errors"

func darwinFeatureFlags() ([]string, error) {
	return nil, errors.New("machdep sysctls are only available on macOS")
}

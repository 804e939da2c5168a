//go:build !darwin

package platform

// translatedProcess only has meaning on macOS; translation never applies
// elsewhere.
func translatedProcess() bool {
	return false
}

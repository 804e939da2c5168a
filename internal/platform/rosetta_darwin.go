//go:build darwin

package platform

import "golang.org/x/sys/unix"

// translatedProcess reports whether the current process runs under Rosetta 2
// translation. The sysctl does not exist on Intel Macs, which reads as not
// translated.
func translatedProcess() bool {
	v, err := unix.SysctlUint32("sysctl.proc_translated")
	return err == nil && v == 1
}

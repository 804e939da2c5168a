// Package testutil provides utilities for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points every environment override the installer reads at
// per-test temp locations, so tests never touch:
// - The user's real install directory
// - A previously installed miner executable
//
// Cleanup is handled by t.TempDir() and t.Setenv(), so callers don't
// need to undo anything.
func SetupTestEnv(t *testing.T) {
	t.Helper()

	tmpDir := t.TempDir()

	installDir := filepath.Join(tmpDir, "bin")
	t.Setenv("NOCTURNE_INSTALL_DIR", installDir)
	t.Setenv("NOCTURNE_EXE_NAME", "")

	// Point the staging area at the sandbox too
	t.Setenv("TMPDIR", filepath.Join(tmpDir, "staging"))

	dirs := []string{
		installDir,
		filepath.Join(tmpDir, "staging"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
}

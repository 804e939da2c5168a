package binary

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
)

// Installer places an extracted executable into the install directory
type Installer struct {
	log *zap.SugaredLogger
}

// NewInstaller creates a new installer
func NewInstaller(log *zap.SugaredLogger) *Installer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Installer{log: log}
}

// Install moves srcPath into destDir under exeName, replacing any
// previous install, and marks the result executable. The staging area
// and the install directory may live on different filesystems, so a
// failed rename falls back to copying.
func (i *Installer) Install(srcPath, destDir, exeName string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create install dir: %w", err)
	}

	destPath := filepath.Join(destDir, exeName)

	if err := os.Rename(srcPath, destPath); err != nil {
		i.log.Debugf("rename into %s failed (%v), copying instead", destDir, err)
		if err := copyFile(srcPath, destPath); err != nil {
			return "", fmt.Errorf("install executable: %w", err)
		}
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(destPath, 0755); err != nil {
			return "", fmt.Errorf("set executable: %w", err)
		}
	}

	return destPath, nil
}

// copyFile copies src over dest, truncating any existing file
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("copy contents: %w", err)
	}

	return out.Close()
}

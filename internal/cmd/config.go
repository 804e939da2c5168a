package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nocturne-network/nocturne-install/internal/release"
)

// Environment variable names recognized by the installer
const (
	// EnvInstallDir overrides the directory that receives the executable
	EnvInstallDir = "NOCTURNE_INSTALL_DIR"

	// EnvExeName overrides the name of the installed executable
	EnvExeName = "NOCTURNE_EXE_NAME"
)

// defaultExeName is the name the installed executable takes unless
// overridden; windows additionally enforces an .exe suffix
const defaultExeName = "nocturne-miner"

// Config captures one run of the installer, resolved from flags and
// environment before any work starts
type Config struct {
	// InstallDir is the directory that receives the executable
	InstallDir string
	// ExeName is the name the installed executable takes
	ExeName string
	// Tag pins a release; empty installs the latest
	Tag string
	// BaseURL is the release CDN root
	BaseURL string
	// Version is this installer's own version
	Version string
	// Progress receives download progress rendering; nil means stderr
	Progress io.Writer
}

// resolveConfig builds the run configuration from flags and environment
func resolveConfig(local bool, tag, version string) (Config, error) {
	installDir, err := resolveInstallDir(local)
	if err != nil {
		return Config{}, err
	}

	return Config{
		InstallDir: installDir,
		ExeName:    resolveExeName(),
		Tag:        tag,
		BaseURL:    release.DefaultBaseURL,
		Version:    version,
	}, nil
}

// resolveInstallDir picks the install directory: --local wins, then the
// environment override, then the platform default
func resolveInstallDir(local bool) (string, error) {
	if local {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		return cwd, nil
	}

	if dir := os.Getenv(EnvInstallDir); dir != "" {
		return dir, nil
	}

	return defaultInstallDir()
}

func defaultInstallDir() (string, error) {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			return "", fmt.Errorf("LOCALAPPDATA is not set")
		}
		return filepath.Join(localAppData, "Programs", "nocturne-miner"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// resolveExeName returns the installed executable name. Windows enforces
// the .exe suffix even on overridden names.
func resolveExeName() string {
	name := os.Getenv(EnvExeName)
	if name == "" {
		name = defaultExeName
	}
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		name += ".exe"
	}
	return name
}

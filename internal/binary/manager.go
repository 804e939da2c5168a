package binary

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// productExe is the base name the miner executable carries inside
// release archives, independent of what it gets installed as.
const productExe = "nocturne-miner"

// Manager orchestrates download, extraction, and installation of the
// miner executable
type Manager struct {
	installDir string
	exeName    string
	downloader *Downloader
	extractor  *Extractor
	installer  *Installer
	log        *zap.SugaredLogger
}

// Config holds configuration for the binary manager
type Config struct {
	// InstallDir is the directory that receives the executable
	InstallDir string
	// ExeName is the name the installed executable takes
	ExeName string
	// Version is the installer version reported to the CDN
	Version string
	// Progress receives download progress rendering; nil means stderr
	Progress io.Writer
}

// NewManager creates a new binary manager
func NewManager(cfg Config, log *zap.SugaredLogger) (*Manager, error) {
	if cfg.InstallDir == "" {
		return nil, fmt.Errorf("InstallDir is required")
	}
	if cfg.ExeName == "" {
		return nil, fmt.Errorf("ExeName is required")
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	downloader := NewDownloader(cfg.Version, log)
	if cfg.Progress != nil {
		downloader.progress = cfg.Progress
	}

	return &Manager{
		installDir: cfg.InstallDir,
		exeName:    cfg.ExeName,
		downloader: downloader,
		extractor:  NewExtractor(log),
		installer:  NewInstaller(log),
		log:        log,
	}, nil
}

// Install downloads the asset at url and installs the miner executable
// it contains, returning the installed path. All intermediate files
// live in a private temp directory that is removed on every path out of
// this function.
func (m *Manager) Install(ctx context.Context, url, assetName string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "nocturne-install-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, assetName)
	m.log.Infof("downloading %s", url)
	if err := m.downloader.DownloadToFile(ctx, url, archivePath); err != nil {
		return "", fmt.Errorf("download %s: %w", assetName, err)
	}

	wantExe := archiveExecutableName(assetName)
	extractedPath := filepath.Join(tmpDir, wantExe)
	if err := m.extractor.ExtractExecutable(archivePath, extractedPath, wantExe); err != nil {
		return "", fmt.Errorf("extract %s: %w", assetName, err)
	}

	installedPath, err := m.installer.Install(extractedPath, m.installDir, m.exeName)
	if err != nil {
		return "", err
	}

	m.log.Debugf("installed %s", installedPath)
	return installedPath, nil
}

// archiveExecutableName returns the executable base name expected inside
// an asset. Windows assets ship as zip files carrying an .exe.
func archiveExecutableName(assetName string) string {
	if strings.HasSuffix(assetName, ".zip") {
		return productExe + ".exe"
	}
	return productExe
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/nocturne-network/nocturne-install/internal/asset"
	"github.com/nocturne-network/nocturne-install/internal/binary"
	"github.com/nocturne-network/nocturne-install/internal/cputier"
	"github.com/nocturne-network/nocturne-install/internal/platform"
	"github.com/nocturne-network/nocturne-install/internal/release"
)

// runInstall executes the install pipeline: probe the machine, classify
// its CPU, resolve the release, select the asset, then download,
// extract, and install the executable.
func runInstall(ctx context.Context, cfg Config, log *zap.SugaredLogger) error {
	desc, err := platform.NewDetector(log).Detect(ctx)
	if err != nil {
		return err
	}
	log.Infof("detected platform %s", desc)

	tier := cputier.NewClassifier(log).Classify(ctx, desc)
	if tier != cputier.None {
		log.Infof("cpu tier %s", tier)
	}

	client := release.NewClient(cfg.BaseURL, cfg.Version, log)

	var target *release.Target
	if cfg.Tag != "" {
		target = client.Pinned(cfg.Tag)
		log.Infof("installing pinned release %s", target.Tag)
	} else {
		target, err = client.Latest(ctx)
		if err != nil {
			return err
		}
		log.Infof("installing latest release %s", target.Tag)
	}

	sel, err := asset.Select(ctx, desc, tier, target.Tag, target.Exists)
	if err != nil {
		return err
	}
	if sel.Tier != cputier.None {
		log.Infof("selected %s (optimized for cpu tier %s)", sel.Name, sel.Tier)
	} else {
		log.Infof("selected %s (baseline build)", sel.Name)
	}

	mgr, err := binary.NewManager(binary.Config{
		InstallDir: cfg.InstallDir,
		ExeName:    cfg.ExeName,
		Version:    cfg.Version,
		Progress:   cfg.Progress,
	}, log)
	if err != nil {
		return err
	}

	installedPath, err := mgr.Install(ctx, target.URL(sel.Name), sel.Name)
	if err != nil {
		return err
	}

	fmt.Printf("installed nocturne-miner %s to %s\n", target.Tag, installedPath)

	if hint := pathHint(cfg.InstallDir, os.Getenv("PATH")); hint != "" {
		fmt.Println(hint)
	}

	return nil
}

// pathHint returns advice for adding the install dir to PATH, or the
// empty string when the dir is already listed. The installer never
// mutates PATH itself.
func pathHint(installDir, pathEnv string) string {
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		if samePath(dir, installDir) {
			return ""
		}
	}

	if runtime.GOOS == "windows" {
		return fmt.Sprintf("note: %s is not on PATH; add it under System Properties > Environment Variables", installDir)
	}
	return fmt.Sprintf("note: %s is not on PATH; add `export PATH=%q:$PATH` to your shell profile", installDir, installDir)
}

// samePath compares cleaned paths; windows compares case-insensitively
func samePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

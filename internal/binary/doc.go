// Package binary turns a selected release asset into an installed
// nocturne-miner executable.
//
// # Pipeline
//
// Installation is a three-stage pipeline staged in a private temp
// directory, so a failure at any stage leaves the install directory
// untouched:
//   - Downloader: HTTP download with retry logic and a progress bar
//   - Extractor: pulls the miner executable out of a tar.gz or zip asset
//   - Installer: moves the executable into place and marks it runnable
//
// # Usage
//
//	mgr, err := binary.NewManager(binary.Config{
//	    InstallDir: "/home/user/.local/bin",
//	    ExeName:    "nocturne-miner",
//	    Version:    version,
//	}, logger)
//	if err != nil {
//	    return err
//	}
//
//	installedPath, err := mgr.Install(ctx, target.URL(sel.Name), sel.Name)
//
// The archive is searched for the executable by base name, so assets may
// nest it under any directory layout. The installed file takes the
// configured executable name, which may differ from the name inside the
// archive.
package binary

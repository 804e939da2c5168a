package binary

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Extractor pulls the miner executable out of release archives
type Extractor struct {
	log *zap.SugaredLogger
}

// NewExtractor creates a new extractor
func NewExtractor(log *zap.SugaredLogger) *Extractor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Extractor{log: log}
}

// ExtractExecutable searches an archive for the named executable and
// writes it to destPath with executable permissions. Archives may nest
// the executable under any directory; entries are matched by base name.
// The format is chosen by extension: .zip archives are unzipped,
// everything else is treated as tar.gz.
func (e *Extractor) ExtractExecutable(archivePath, destPath, exeName string) error {
	if strings.HasSuffix(archivePath, ".zip") {
		return e.extractFromZip(archivePath, destPath, exeName)
	}
	return e.extractFromTarGz(archivePath, destPath, exeName)
}

func (e *Extractor) extractFromTarGz(archivePath, destPath, exeName string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return fmt.Errorf("executable %s not found in archive", exeName)
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg || filepath.Base(header.Name) != exeName {
			continue
		}

		e.log.Debugf("extracting %s from %s", header.Name, filepath.Base(archivePath))
		return writeExecutable(destPath, tarReader)
	}
}

func (e *Extractor) extractFromZip(archivePath, destPath, exeName string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if f.FileInfo().IsDir() || filepath.Base(f.Name) != exeName {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open archive entry: %w", err)
		}

		e.log.Debugf("extracting %s from %s", f.Name, filepath.Base(archivePath))
		err = writeExecutable(destPath, rc)
		rc.Close()
		return err
	}

	return fmt.Errorf("executable %s not found in archive", exeName)
}

// writeExecutable writes archive contents to destPath with executable
// permissions
func writeExecutable(destPath string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	outFile, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return fmt.Errorf("write file: %w", err)
	}

	return outFile.Close()
}

package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the HTTP request timeout for asset downloads
	DefaultTimeout = 5 * time.Minute
	// DefaultRetries is the number of download attempts
	DefaultRetries = 3

	retryBackoff = 2 * time.Second
)

// Downloader handles HTTP downloads with retry logic
type Downloader struct {
	client    *http.Client
	userAgent string
	retries   int
	backoff   time.Duration
	progress  io.Writer
	log       *zap.SugaredLogger
}

// NewDownloader creates a new downloader. The installer version is
// reported in the User-Agent header; download progress is drawn on
// stderr.
func NewDownloader(version string, log *zap.SugaredLogger) *Downloader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Allow up to 10 redirects
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: "nocturne-install/" + version,
		retries:   DefaultRetries,
		backoff:   retryBackoff,
		progress:  os.Stderr,
		log:       log,
	}
}

// DownloadToFile downloads a URL to a specific file path, retrying
// transient failures with a fixed pause between attempts
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 1; attempt <= d.retries; attempt++ {
		// Check context before each attempt
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt > 1 {
			d.log.Debugf("retrying download (attempt %d/%d)", attempt, d.retries)
			select {
			case <-time.After(d.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.downloadOnce(ctx, url, destPath)
		if err == nil {
			return nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("download failed after %d attempts: %w", d.retries, lastErr)
}

// downloadOnce performs a single download attempt
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	// Download to a temp name, rename into place only when complete
	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	bar := d.newBar(resp.ContentLength, filepath.Base(destPath))
	if _, err := io.Copy(io.MultiWriter(tmpFile, bar), resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}
	_ = bar.Finish()

	// Close temp file before rename
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}

// newBar builds a byte-count progress bar. Size may be -1 when the
// server does not announce a Content-Length; the bar then shows a
// spinner with a running byte total.
func (d *Downloader) newBar(size int64, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(d.progress),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

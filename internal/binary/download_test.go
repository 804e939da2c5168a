package binary

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// newTestDownloader silences the progress bar and shrinks the retry
// pause so failure tests run fast
func newTestDownloader() *Downloader {
	d := NewDownloader("test", nil)
	d.progress = io.Discard
	d.backoff = time.Millisecond
	return d
}

func TestDownloaderDownloadToFile(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
	}{
		{
			name:       "successful_download",
			statusCode: http.StatusOK,
			body:       "test binary content",
			wantErr:    false,
		},
		{
			name:       "404_not_found",
			statusCode: http.StatusNotFound,
			body:       "not found",
			wantErr:    true,
		},
		{
			name:       "500_server_error",
			statusCode: http.StatusInternalServerError,
			body:       "server error",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasPrefix(r.Header.Get("User-Agent"), "nocturne-install/") {
					t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
				}

				w.WriteHeader(tt.statusCode)
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Errorf("failed to write response: %v", err)
				}
			}))
			defer server.Close()

			downloader := newTestDownloader()
			// Reduce retries for faster failure tests
			downloader.retries = 1

			destPath := filepath.Join(t.TempDir(), "test-file")
			err := downloader.DownloadToFile(context.Background(), server.URL, destPath)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			content, err := os.ReadFile(destPath)
			if err != nil {
				t.Fatalf("failed to read downloaded file: %v", err)
			}

			if string(content) != tt.body {
				t.Errorf("content mismatch:\ngot:  %q\nwant: %q", string(content), tt.body)
			}
		})
	}
}

func TestDownloaderRetryLogic(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			// Fail first two attempts
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte("success")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	downloader := newTestDownloader()

	destPath := filepath.Join(t.TempDir(), "test-file")
	err := downloader.DownloadToFile(context.Background(), server.URL, destPath)

	if err != nil {
		t.Fatalf("expected success after retries, got error: %v", err)
	}

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	content, _ := os.ReadFile(destPath)
	if string(content) != "success" {
		t.Errorf("unexpected content: %s", string(content))
	}
}

func TestDownloaderGivesUpAfterRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	downloader := newTestDownloader()

	destPath := filepath.Join(t.TempDir(), "test-file")
	err := downloader.DownloadToFile(context.Background(), server.URL, destPath)

	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if attempts != DefaultRetries {
		t.Errorf("expected %d attempts, got %d", DefaultRetries, attempts)
	}
	if !strings.Contains(err.Error(), "download failed after") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDownloaderContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Simulate slow response
		time.Sleep(100 * time.Millisecond)
		if _, err := w.Write([]byte("too late")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	downloader := newTestDownloader()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	destPath := filepath.Join(t.TempDir(), "test-file")
	err := downloader.DownloadToFile(ctx, server.URL, destPath)

	if err == nil {
		t.Error("expected context cancellation error")
	}

	if !strings.Contains(err.Error(), "context") {
		t.Errorf("expected context error, got: %v", err)
	}
}

func TestDownloaderLeavesNoPartialFiles(t *testing.T) {
	// Announce more bytes than we send so the copy fails mid-stream
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		if _, err := w.Write([]byte("short")); err != nil {
			t.Logf("write response: %v", err)
		}
	}))
	defer server.Close()

	downloader := newTestDownloader()
	downloader.retries = 1

	tmpDir := t.TempDir()
	destPath := filepath.Join(tmpDir, "test-file")
	if err := downloader.DownloadToFile(context.Background(), server.URL, destPath); err == nil {
		t.Fatal("expected truncated download to fail")
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("failed to read dest dir: %v", err)
	}
	for _, entry := range entries {
		t.Errorf("unexpected leftover file: %s", entry.Name())
	}
}

func TestDownloaderCreatesNestedDirectories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("test")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	downloader := newTestDownloader()

	deepPath := filepath.Join(t.TempDir(), "a", "b", "c", "file.bin")
	if err := downloader.DownloadToFile(context.Background(), server.URL, deepPath); err != nil {
		t.Fatalf("download failed: %v", err)
	}

	if _, err := os.Stat(deepPath); err != nil {
		t.Errorf("file was not created in nested directory: %v", err)
	}
}

func TestDownloaderRedirectHandling(t *testing.T) {
	redirects := 0
	finalContent := "final content after redirects"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if redirects < 3 {
			redirects++
			http.Redirect(w, r, "/hop", http.StatusMovedPermanently)
			return
		}
		if _, err := w.Write([]byte(finalContent)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	downloader := newTestDownloader()

	destPath := filepath.Join(t.TempDir(), "redirected-file")
	if err := downloader.DownloadToFile(context.Background(), server.URL, destPath); err != nil {
		t.Fatalf("download with redirects failed: %v", err)
	}

	content, _ := os.ReadFile(destPath)
	if string(content) != finalContent {
		t.Errorf("unexpected content after redirects: %s", string(content))
	}
}

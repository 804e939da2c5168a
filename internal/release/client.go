package release

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the release CDN root.
	DefaultBaseURL = "https://dl.nocturne.network/miner"
	// DefaultTimeout is the HTTP request timeout for metadata and probes
	DefaultTimeout = 30 * time.Second
	// DefaultRetries is the number of attempts for metadata fetches
	DefaultRetries = 3
	// DefaultProbeRetries is the number of attempts for existence probes
	DefaultProbeRetries = 2

	retryBackoff = 2 * time.Second
	manifestName = "latest.json"
)

// Client talks to the release CDN
type Client struct {
	client       *http.Client
	baseURL      string
	userAgent    string
	retries      int
	probeRetries int
	backoff      time.Duration
	log          *zap.SugaredLogger
}

// NewClient creates a release client rooted at baseURL. The installer
// version is reported in the User-Agent header.
func NewClient(baseURL, version string, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:      strings.TrimRight(baseURL, "/"),
		userAgent:    "nocturne-install/" + version,
		retries:      DefaultRetries,
		probeRetries: DefaultProbeRetries,
		backoff:      retryBackoff,
		log:          log,
	}
}

// getWithRetry fetches a URL, retrying transport errors and bad statuses
// with a fixed pause between attempts.
func (c *Client) getWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			c.log.Debugf("retrying %s (attempt %d/%d)", url, attempt, c.retries)
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.retries, lastErr)
}

// getOnce performs a single GET
func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

// head asks the CDN whether a URL exists. A 404 is a definitive "no" and
// is never retried; transport errors and other statuses get one more try.
func (c *Client) head(ctx context.Context, url string) (bool, error) {
	var lastErr error

	for attempt := 1; attempt <= c.probeRetries; attempt++ {
		if attempt > 1 {
			c.log.Debugf("retrying probe of %s (attempt %d/%d)", url, attempt, c.probeRetries)
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return false, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			continue
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			return true, nil
		case http.StatusNotFound:
			return false, nil
		default:
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}

	return false, fmt.Errorf("probe %s: %w", url, lastErr)
}

package release

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/mod/semver"
)

// Target is a resolved release: a tag plus a way to ask which assets exist
type Target struct {
	Tag string

	client *Client
	known  map[string]struct{} // nil for pinned targets
}

// Latest fetches the latest.json manifest and returns a target backed by
// its file list. Asset existence checks against this target never touch
// the network again.
func (c *Client) Latest(ctx context.Context) (*Target, error) {
	body, err := c.getWithRetry(ctx, c.baseURL+"/"+manifestName)
	if err != nil {
		return nil, fmt.Errorf("fetch release manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("decode release manifest: %w", err)
	}

	if manifest.Tag == "" {
		return nil, fmt.Errorf("release manifest has no tag")
	}
	if len(manifest.Files) == 0 {
		return nil, fmt.Errorf("release manifest for %s lists no files", manifest.Tag)
	}

	known := make(map[string]struct{}, len(manifest.Files))
	for _, f := range manifest.Files {
		known[f.Name] = struct{}{}
	}

	c.log.Debugf("latest release is %s with %d published assets", manifest.Tag, len(manifest.Files))

	return &Target{
		Tag:    manifest.Tag,
		client: c,
		known:  known,
	}, nil
}

// Pinned returns a target for an explicitly requested tag. No manifest is
// fetched; asset existence is probed against the CDN on demand.
func (c *Client) Pinned(tag string) *Target {
	if !semver.IsValid(tag) {
		c.log.Warnf("tag %q is not a semantic version, trying it anyway", tag)
	}

	return &Target{
		Tag:    tag,
		client: c,
	}
}

// Exists reports whether the named asset is part of the release. Manifest
// targets answer from the published file list; pinned targets issue a
// HEAD probe per asset.
func (t *Target) Exists(ctx context.Context, name string) (bool, error) {
	if t.known != nil {
		_, ok := t.known[name]
		return ok, nil
	}
	return t.client.head(ctx, t.URL(name))
}

// URL returns the download location for the named asset
func (t *Target) URL(name string) string {
	return fmt.Sprintf("%s/%s/%s", t.client.baseURL, t.Tag, name)
}

// Package release resolves which nocturne-miner release to install and
// answers which assets that release ships.
//
// A release is addressed by its tag. The CDN publishes a latest.json
// manifest describing the newest release; older releases are addressed
// directly by tag and probed asset by asset.
package release

// Manifest is the decoded latest.json document published alongside the
// newest release.
type Manifest struct {
	Tag   string         `json:"tag"`
	Files []ManifestFile `json:"files"`
}

// ManifestFile is a single published asset entry.
type ManifestFile struct {
	Name string `json:"name"`
}

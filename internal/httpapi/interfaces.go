package httpapi

import "github.com/tinoosan/sitehost/internal/storage/disk"

// AssetStore resolves request paths to static assets.
type AssetStore interface {
	// Open returns the asset for a URL path. Directories resolve to their index
	// document; unresolvable paths yield an error wrapping errs.ErrNotFound.
	Open(name string) (*disk.Asset, error)
}

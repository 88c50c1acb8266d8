package httpapi

import "github.com/tinoosan/sitehost/internal/storage/disk"

// Compile-time interface assertions for the on-disk store against HTTP API interfaces.
var _ AssetStore = (*disk.Store)(nil)

package nativehost

import "github.com/shibukawa/configdir"

// Vendor and application names that place the import cache under the
// user's cache directory, for example ~/.cache/giantswarm/nativehost.
const (
	cacheVendor      = "giantswarm"
	cacheApplication = "nativehost"
)

// DefaultImportCacheDir returns the per-user directory for the import cache,
// suitable for WithImportCache. The directory is not created.
func DefaultImportCacheDir() string {
	return configdir.New(cacheVendor, cacheApplication).QueryCacheFolder().Path
}

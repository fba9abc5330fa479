package nativehost

import "github.com/giantswarm/nativehost/internal/core"

// platformConfig holds configuration for a Platform. It embeds
// core.PlatformConfig, keeping internal/core types out of the public API
// signature, and adds the settings New resolves before building the core.
type platformConfig struct {
	core.PlatformConfig

	// policyFile, when set, replaces Policy with the file's contents.
	policyFile string

	// bundledRuntime, when set, overrides Policy.BundleSuppliesRuntime
	// after the policy is chosen.
	bundledRuntime *bool
}

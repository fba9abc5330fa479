package nativehost

import "time"

// ConfigSnapshot holds a copy of platformConfig fields for test assertions.
// Exported only via export_test.go so that the _test package can verify
// option closures actually mutate the config without accessing internals.
type ConfigSnapshot struct {
	RealizationName    string
	Policy             Policy
	ImportCacheDir     string
	StopTimeout        time.Duration
	DrainTimeout       time.Duration
	RunTimeout         time.Duration
	ResolveConcurrency int
	KillOnParentExit   bool
	HasLogger          bool
	HasStderr          bool
}

// ApplyOptionsForTesting builds the configuration New would use, including
// policy file loading, and returns a snapshot of it.
func ApplyOptionsForTesting(opts ...Option) (ConfigSnapshot, error) {
	cfg, err := buildConfig(opts...)
	if err != nil {
		return ConfigSnapshot{}, err
	}
	return ConfigSnapshot{
		RealizationName:    cfg.Realization.Name,
		Policy:             cfg.Policy,
		ImportCacheDir:     cfg.ImportCacheDir,
		StopTimeout:        cfg.StopTimeout,
		DrainTimeout:       cfg.DrainTimeout,
		RunTimeout:         cfg.RunTimeout,
		ResolveConcurrency: cfg.ResolveConcurrency,
		KillOnParentExit:   cfg.KillOnParentExit,
		HasLogger:          cfg.Logger != nil,
		HasStderr:          cfg.Stderr != nil,
	}, nil
}

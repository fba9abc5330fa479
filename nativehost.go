package nativehost

import (
	"context"
	"fmt"
	"os"

	"github.com/giantswarm/nativehost/internal/core"
	"github.com/giantswarm/nativehost/internal/modload"
	"github.com/giantswarm/nativehost/internal/policy"
)

// Compile-time interface satisfaction checks.
var (
	_ Platform = (*platformWrapper)(nil)
	_ Module   = (*moduleWrapper)(nil)
)

// platformWrapper wraps core.Platform to implement the Platform interface,
// returning Process and Module interfaces instead of internal types.
//
// The core.Platform is stored as a named field rather than embedded so that
// callers cannot reach internal methods through type assertions.
type platformWrapper struct {
	p *core.Platform
}

// moduleWrapper hides *modload.Library behind the Module interface.
type moduleWrapper struct {
	lib *modload.Library
}

func (m *moduleWrapper) Path() string {
	return m.lib.Path()
}

func (m *moduleWrapper) Bind(fnPtr any, name string) error {
	return m.lib.Bind(fnPtr, name)
}

//nolint:ireturn // Returns Process interface by design for testability (mockable).
func (w *platformWrapper) CreateProcess() Process {
	return w.p.CreateProcess()
}

//nolint:ireturn // Returns Module interface by design for testability (mockable).
func (w *platformWrapper) LoadLibrary(path string) (Module, error) {
	lib, err := w.p.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return &moduleWrapper{lib: lib}, nil
}

func (w *platformWrapper) FreeLibrary(m Module) error {
	return w.p.FreeLibrary(unwrapModule(m))
}

func (w *platformWrapper) GetProcAddress(m Module, name string) (Procedure, error) {
	addr, err := w.p.GetProcAddress(unwrapModule(m), name)
	return Procedure(addr), err
}

// unwrapModule returns the library behind m, or nil for a nil or foreign
// Module. The core treats nil as already closed.
func unwrapModule(m Module) *modload.Library {
	mw, ok := m.(*moduleWrapper)
	if !ok || mw == nil {
		return nil
	}
	return mw.lib
}

func (w *platformWrapper) GetLibraryImports(path string) ([]string, error) {
	return w.p.GetLibraryImports(path)
}

func (w *platformWrapper) FilterOutRuntimeDependencies(imports []string) []string {
	return w.p.FilterOutRuntimeDependencies(imports)
}

func (w *platformWrapper) Policy() Policy {
	return w.p.Policy()
}

func (w *platformWrapper) ResolveDependencies(ctx context.Context, path string) ([]string, error) {
	return w.p.ResolveDependencies(ctx, path)
}

func (w *platformWrapper) HostDependencies(path string) ([]string, error) {
	return w.p.HostDependencies(path)
}

func (w *platformWrapper) Run(ctx context.Context, path string, args ...string) (*RunResult, error) {
	return w.p.Run(ctx, path, args...)
}

func (w *platformWrapper) SetCurrentDirectory(dir string) error {
	return w.p.SetCurrentDirectory(dir)
}

func (w *platformWrapper) ShowResponseMessage(title, description string) MessageResponse {
	return w.p.ShowResponseMessage(title, description)
}

func (w *platformWrapper) Close() error {
	return w.p.Close()
}

// defaultPlatformConfig returns a platformConfig populated with all default
// values for the host realization. Both New and test helpers use it.
func defaultPlatformConfig() platformConfig {
	r := core.HostRealization()
	return platformConfig{PlatformConfig: core.PlatformConfig{
		Realization:        r,
		Policy:             r.DefaultPolicy(),
		StopTimeout:        DefaultStopTimeout,
		DrainTimeout:       DefaultOutputDrainTimeout,
		RunTimeout:         DefaultRunTimeout,
		ResolveConcurrency: DefaultResolveConcurrency,
		MessageWriter:      os.Stdout,
	}}
}

// New returns the Platform for the host operating system.
//
// A policy file set with WithPolicyFile is read here; a missing or invalid
// file is returned as an error. An import cache that cannot be opened is
// logged and the Platform inspects binaries directly.
//
// Panics if any option receives an invalid value. See individual With*
// functions for constraints.
//
//nolint:ireturn // Returns Platform interface by design for testability (mockable).
func New(opts ...Option) (Platform, error) {
	cfg, err := buildConfig(opts...)
	if err != nil {
		return nil, err
	}
	p, err := core.NewPlatform(context.Background(), cfg.PlatformConfig)
	if err != nil {
		return nil, err
	}
	return &platformWrapper{p: p}, nil
}

// buildConfig applies opts over the defaults and resolves the policy.
func buildConfig(opts ...Option) (platformConfig, error) {
	cfg := defaultPlatformConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.policyFile != "" {
		pol, err := policy.LoadFile(cfg.policyFile)
		if err != nil {
			return platformConfig{}, fmt.Errorf("load policy: %w", err)
		}
		cfg.Policy = pol
	}
	if cfg.bundledRuntime != nil {
		cfg.Policy.BundleSuppliesRuntime = *cfg.bundledRuntime
	}
	return cfg, nil
}

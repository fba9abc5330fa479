package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/giantswarm/nativehost/internal/importcache"
	"github.com/giantswarm/nativehost/internal/inspect"
	"github.com/giantswarm/nativehost/internal/modload"
	"github.com/giantswarm/nativehost/internal/policy"
	"github.com/giantswarm/nativehost/internal/process"
	"github.com/giantswarm/nativehost/internal/resolve"
	"github.com/giantswarm/nativehost/internal/sentinel"
)

// ErrNotStarted is returned by Run when the child process could not be
// created.
const ErrNotStarted = sentinel.Error("process not started")

// Platform is the concrete implementation of the Platform interface. It
// holds no per-call state: processes and modules belong to their callers.
// The optional import cache is the only shared resource and is released by
// Close.
//
// Platform is safe for concurrent use by multiple goroutines. The process
// handles it creates are not.
type Platform struct {
	cfg       PlatformConfig
	log       *slog.Logger
	inspector inspect.Inspector
	resolver  *resolve.Resolver

	// mu guards cache, which Close clears.
	mu    sync.Mutex
	cache *importcache.Cache
}

// NewPlatform creates a Platform with the provided configuration. When
// ImportCacheDir is set the cache is opened here; a cache that cannot be
// opened is logged and the Platform inspects binaries directly.
func NewPlatform(ctx context.Context, cfg PlatformConfig) (*Platform, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	log = log.With("platform", cfg.Realization.Name)

	p := &Platform{
		cfg:       cfg,
		log:       log,
		inspector: inspect.Inspector{Formats: slices.Clone(cfg.Realization.Formats)},
	}
	p.resolver = resolve.New(resolve.Config{
		Inspect:     p.inspector.Inspect,
		Concurrency: cfg.ResolveConcurrency,
		Logger:      log,
	})

	if cfg.ImportCacheDir != "" {
		c, err := importcache.Open(ctx, importcache.Config{
			Dir:    cfg.ImportCacheDir,
			Scope:  cfg.Realization.scope(),
			Logger: log,
		})
		if err != nil {
			log.Warn("import cache unavailable; inspecting binaries directly",
				"dir", cfg.ImportCacheDir, "error", err)
		} else {
			p.cache = c
		}
	}
	return p, nil
}

// Realization returns the realization this Platform was built with.
func (p *Platform) Realization() Realization {
	return p.cfg.Realization
}

// CreateProcess returns a new process handle in the Created state.
func (p *Platform) CreateProcess() *process.Handle {
	return process.NewHandle(process.Config{
		Logger:           p.log,
		Stderr:           p.cfg.Stderr,
		StopTimeout:      p.cfg.StopTimeout,
		DrainTimeout:     p.cfg.DrainTimeout,
		KillOnParentExit: p.cfg.KillOnParentExit,
	})
}

// LoadLibrary maps the shared library at path into this process.
func (p *Platform) LoadLibrary(path string) (*modload.Library, error) {
	lib, err := modload.Open(path)
	if err != nil {
		p.log.Debug("library load failed", "path", path, "error", err)
		return nil, err
	}
	p.log.Debug("library loaded", "path", path)
	return lib, nil
}

// FreeLibrary unloads lib. A nil or already freed library returns
// modload.ErrModuleClosed.
func (p *Platform) FreeLibrary(lib *modload.Library) error {
	if lib == nil {
		return modload.ErrModuleClosed
	}
	return lib.Close()
}

// GetProcAddress returns the address of the named symbol in lib.
func (p *Platform) GetProcAddress(lib *modload.Library, name string) (uintptr, error) {
	if lib == nil {
		return 0, modload.ErrModuleClosed
	}
	return lib.Symbol(name)
}

// GetLibraryImports returns the direct dependencies declared by the binary
// at path, in declaration order. Only the realization's formats are
// accepted.
func (p *Platform) GetLibraryImports(path string) ([]string, error) {
	p.mu.Lock()
	c := p.cache
	p.mu.Unlock()

	if c == nil {
		return p.inspector.ListImports(path)
	}
	return c.ListImports(context.Background(), path, p.inspector.ListImports)
}

// FilterOutRuntimeDependencies removes the imports the configured policy
// marks as supplied by the host, preserving order.
func (p *Platform) FilterOutRuntimeDependencies(imports []string) []string {
	return policy.Filter(imports, p.cfg.Policy, p.log)
}

// Policy returns a copy of the configured bundling policy.
func (p *Platform) Policy() policy.Policy {
	return p.cfg.Policy.Clone()
}

// ResolveDependencies returns the sorted transitive closure of path's
// library dependencies without executing anything.
func (p *Platform) ResolveDependencies(ctx context.Context, path string) ([]string, error) {
	return p.resolver.Closure(ctx, path)
}

// HostDependencies asks the host dynamic loader for the libraries it maps
// for path.
func (p *Platform) HostDependencies(path string) ([]string, error) {
	return resolve.Host(path)
}

// SetCurrentDirectory changes the working directory of this process.
func (p *Platform) SetCurrentDirectory(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("set current directory: %w", err)
	}
	return nil
}

// ShowResponseMessage writes "title description" to the configured writer.
// It returns ResponseCancel if the write fails.
func (p *Platform) ShowResponseMessage(title, description string) MessageResponse {
	if _, err := fmt.Fprintf(p.cfg.MessageWriter, "%s %s\n", title, description); err != nil {
		p.log.Warn("message not delivered", "title", title, "error", err)
		return ResponseCancel
	}
	return ResponseOK
}

// Close releases the import cache. It is safe to call more than once; the
// Platform keeps working afterwards without the cache.
func (p *Platform) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cache == nil {
		return nil
	}
	err := p.cache.Close()
	p.cache = nil
	if err != nil {
		return fmt.Errorf("close import cache: %w", err)
	}
	return nil
}

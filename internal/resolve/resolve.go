package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/nativehost/internal/fileutil"
	"github.com/giantswarm/nativehost/internal/inspect"
)

// DefaultConcurrency is the number of binaries inspected in parallel when
// Config.Concurrency is zero.
const DefaultConcurrency = 8

// InspectFunc reads the metadata of the binary at path.
type InspectFunc func(path string) (*inspect.Binary, error)

// Config configures a Resolver. The zero value resolves with inspect.Inspect,
// the host's default directories, and the host's library path variable.
type Config struct {
	Inspect     InspectFunc
	SearchPaths []string // Default library directories; nil uses DefaultSearchPaths
	LibraryPath []string // Extra directories searched before the defaults; nil reads the environment
	Concurrency int
	Logger      *slog.Logger
}

// Resolver computes library closures. It is safe for concurrent use.
type Resolver struct {
	inspect     InspectFunc
	searchPaths []string
	libraryPath []string
	concurrency int
	log         *slog.Logger
}

// New returns a Resolver for cfg.
func New(cfg Config) *Resolver {
	r := &Resolver{
		inspect:     cfg.Inspect,
		searchPaths: cfg.SearchPaths,
		libraryPath: cfg.LibraryPath,
		concurrency: cfg.Concurrency,
		log:         cfg.Logger,
	}
	if r.inspect == nil {
		r.inspect = inspect.Inspect
	}
	if r.searchPaths == nil {
		r.searchPaths = DefaultSearchPaths(runtime.GOOS, runtime.GOARCH)
	}
	if r.libraryPath == nil {
		r.libraryPath = libraryPathFromEnv(runtime.GOOS)
	}
	if r.concurrency <= 0 {
		r.concurrency = DefaultConcurrency
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r
}

// DefaultSearchPaths returns the directories the dynamic linker of goos
// searches when no other path matches.
func DefaultSearchPaths(goos, goarch string) []string {
	switch goos {
	case "darwin", "ios":
		return []string{"/usr/local/lib", "/usr/lib"}
	case "windows":
		return []string{`C:\Windows\System32`, `C:\Windows`}
	}

	dirs := []string{"/lib", "/usr/lib", "/lib64", "/usr/lib64", "/usr/local/lib"}
	if triple, ok := multiarch[goarch]; ok && goos == "linux" {
		dirs = append([]string{"/lib/" + triple, "/usr/lib/" + triple}, dirs...)
	}
	return dirs
}

// multiarch maps GOARCH to the Debian multiarch tuple.
var multiarch = map[string]string{
	"386":     "i386-linux-gnu",
	"amd64":   "x86_64-linux-gnu",
	"arm":     "arm-linux-gnueabihf",
	"arm64":   "aarch64-linux-gnu",
	"ppc64le": "powerpc64le-linux-gnu",
	"riscv64": "riscv64-linux-gnu",
	"s390x":   "s390x-linux-gnu",
}

func libraryPathFromEnv(goos string) []string {
	name := "LD_LIBRARY_PATH"
	switch goos {
	case "darwin", "ios":
		name = "DYLD_LIBRARY_PATH"
	case "windows":
		name = "PATH"
	}
	var out []string
	for _, p := range filepath.SplitList(os.Getenv(name)) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Closure returns every library root transitively depends on, sorted and
// without duplicates. Located libraries are reported by path; references that
// cannot be located are reported by the name the binary declares. The root
// itself is not included.
//
// An error inspecting root is returned. A dependency that cannot be
// inspected is kept in the result without descending into it.
func (r *Resolver) Closure(ctx context.Context, root string) ([]string, error) {
	rootBin, err := r.inspect(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	var (
		mu       sync.Mutex
		seen     = map[string]struct{}{root: {}}
		result   = map[string]struct{}{}
		frontier []string
	)

	// visit records the dependencies of bin and returns the newly located
	// paths that still need inspection.
	visit := func(bin *inspect.Binary, from string) []string {
		var next []string
		for _, ref := range bin.Imports {
			path := r.locate(ref, bin, from, rootBin, root)

			mu.Lock()
			if path == "" {
				result[ref] = struct{}{}
				mu.Unlock()
				r.log.Debug("library not located; keeping reference", "ref", ref, "from", from)
				continue
			}
			_, dup := seen[path]
			if !dup {
				seen[path] = struct{}{}
				result[path] = struct{}{}
			}
			mu.Unlock()
			if !dup {
				next = append(next, path)
			}
		}
		return next
	}

	frontier = visit(rootBin, root)
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.concurrency)

		var nextMu sync.Mutex
		var next []string
		for _, path := range frontier {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				bin, err := r.inspect(path)
				if err != nil {
					// Linker scripts and foreign-format files land here.
					r.log.Debug("dependency not inspectable; not descending", "path", path, "error", err)
					return nil
				}
				found := visit(bin, path)
				nextMu.Lock()
				next = append(next, found...)
				nextMu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}
		frontier = next
	}

	out := make([]string, 0, len(result))
	for p := range result {
		out = append(out, p)
	}
	slices.Sort(out)
	return out, nil
}

// locate finds the file the loader would map for ref, or returns "".
func (r *Resolver) locate(ref string, from *inspect.Binary, fromPath string, root *inspect.Binary, rootPath string) string {
	switch from.Format {
	case inspect.FormatMachO:
		return r.locateMachO(ref, from, fromPath, root, rootPath)
	case inspect.FormatPE:
		return r.search(ref, slices.Concat([]string{filepath.Dir(fromPath)}, r.libraryPath, r.searchPaths))
	default:
		return r.locateELF(ref, from, fromPath, root, rootPath)
	}
}

func (r *Resolver) locateELF(ref string, from *inspect.Binary, fromPath string, root *inspect.Binary, rootPath string) string {
	if strings.Contains(ref, "/") {
		if fileutil.IsRegularFile(ref) {
			return filepath.Clean(ref)
		}
		return ""
	}

	var dirs []string
	for _, rp := range from.RPaths {
		dirs = append(dirs, expandOrigin(rp, fromPath))
	}
	if fromPath != rootPath {
		for _, rp := range root.RPaths {
			dirs = append(dirs, expandOrigin(rp, rootPath))
		}
	}
	dirs = append(dirs, r.libraryPath...)
	dirs = append(dirs, r.searchPaths...)
	return r.search(ref, dirs)
}

func (r *Resolver) locateMachO(ref string, from *inspect.Binary, fromPath string, root *inspect.Binary, rootPath string) string {
	expand := func(p string) string {
		switch {
		case strings.HasPrefix(p, "@loader_path/"):
			return filepath.Join(filepath.Dir(fromPath), strings.TrimPrefix(p, "@loader_path/"))
		case strings.HasPrefix(p, "@executable_path/"):
			return filepath.Join(filepath.Dir(rootPath), strings.TrimPrefix(p, "@executable_path/"))
		}
		return p
	}

	if rest, ok := strings.CutPrefix(ref, "@rpath/"); ok {
		rpaths := slices.Clone(from.RPaths)
		if fromPath != rootPath {
			rpaths = append(rpaths, root.RPaths...)
		}
		for _, rp := range rpaths {
			candidate := filepath.Join(expand(rp), rest)
			if fileutil.IsRegularFile(candidate) {
				return filepath.Clean(candidate)
			}
		}
		return ""
	}

	candidate := expand(ref)
	if fileutil.IsRegularFile(candidate) {
		return filepath.Clean(candidate)
	}
	if !strings.Contains(ref, "/") {
		return r.search(ref, slices.Concat(r.libraryPath, r.searchPaths))
	}
	return ""
}

// search returns the first dirs[i]/name that is a regular file.
func (r *Resolver) search(name string, dirs []string) string {
	for _, d := range dirs {
		candidate := filepath.Join(d, name)
		if fileutil.IsRegularFile(candidate) {
			return filepath.Clean(candidate)
		}
	}
	return ""
}

// expandOrigin replaces $ORIGIN and ${ORIGIN} with the directory of binPath.
func expandOrigin(rpath, binPath string) string {
	dir := filepath.Dir(binPath)
	rpath = strings.ReplaceAll(rpath, "${ORIGIN}", dir)
	return strings.ReplaceAll(rpath, "$ORIGIN", dir)
}

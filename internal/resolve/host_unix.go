//go:build freebsd || linux

package resolve

import (
	"path/filepath"
	"slices"

	"github.com/pkg/errors"
	"github.com/u-root/u-root/pkg/ldd"
)

// Host returns the absolute paths of every shared object the system dynamic
// loader maps for the binary at path, sorted. The binary itself is omitted.
// Unlike Closure, this runs the loader in trace mode on the binary.
func Host(path string) ([]string, error) {
	deps, err := ldd.List(path)
	if err != nil {
		return nil, errors.Wrapf(err, "host dependencies of %s", path)
	}

	self := canonical(path)
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if canonical(d) == self {
			continue
		}
		out = append(out, d)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func canonical(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if real, err := filepath.EvalSymlinks(p); err == nil {
		p = real
	}
	return p
}

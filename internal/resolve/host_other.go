//go:build !(freebsd || linux)

package resolve

import "github.com/giantswarm/nativehost/internal/sentinel"

// Host is not available on this platform and returns sentinel.ErrUnsupported.
func Host(path string) ([]string, error) {
	return nil, sentinel.ErrUnsupported.Errorf("host loader closure of %s", path)
}

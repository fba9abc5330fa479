//go:build !(darwin || freebsd || linux)

package modload

import "github.com/giantswarm/nativehost/internal/sentinel"

func dlopen(string) (uintptr, error) {
	return 0, sentinel.ErrUnsupported
}

func dlsym(uintptr, string) (uintptr, error) {
	return 0, sentinel.ErrUnsupported
}

func dlclose(uintptr) error {
	return sentinel.ErrUnsupported
}

func registerFunc(any, uintptr) {
	panic("nativehost: function binding is not supported on this platform")
}

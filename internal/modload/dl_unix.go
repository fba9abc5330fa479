//go:build darwin || freebsd || linux

package modload

import "github.com/ebitengine/purego"

// RTLD_LOCAL keeps the library's symbols out of the global namespace so two
// loaded libraries cannot satisfy each other's undefined references.
func dlopen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func dlsym(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func dlclose(handle uintptr) error {
	return purego.Dlclose(handle)
}

func registerFunc(fnPtr any, addr uintptr) {
	purego.RegisterFunc(fnPtr, addr)
}

package modload

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/giantswarm/nativehost/internal/sentinel"
)

// ErrLoad is returned when a shared library cannot be opened: the file is
// missing, it is not a library for the host architecture, or the dynamic
// linker cannot resolve one of its dependencies.
const ErrLoad = sentinel.Error("load shared library")

// ErrSymbolNotFound is returned when a name is absent from a library's
// exported symbol table.
const ErrSymbolNotFound = sentinel.Error("symbol not found")

// ErrModuleClosed is returned when a Library is used after Close.
const ErrModuleClosed = sentinel.Error("module already unloaded")

// Library is a shared library mapped into the calling process.
type Library struct {
	path string

	mu     sync.Mutex
	handle uintptr
	closed bool
}

// Open maps the shared library at path. When the dynamic linker rejects a
// path containing a separator and the file does not exist, the error also
// matches fs.ErrNotExist; a bare name is resolved by the linker's own search.
// No Library is returned on failure.
func Open(path string) (*Library, error) {
	if path == "" {
		return nil, ErrLoad.Errorf("empty path")
	}
	h, err := dlopen(path)
	if err != nil {
		if strings.ContainsRune(path, os.PathSeparator) {
			// Darwin serves system libraries from the shared cache, so a
			// missing file is only checked after dlopen has failed.
			if _, statErr := os.Stat(path); statErr != nil {
				return nil, ErrLoad.Wrap(statErr)
			}
		}
		return nil, ErrLoad.Wrap(fmt.Errorf("%s: %w", path, err))
	}
	return &Library{path: path, handle: h}, nil
}

// Path returns the path the library was opened with.
func (l *Library) Path() string {
	return l.path
}

// Symbol returns the address of the exported symbol name. The address is
// valid only until Close.
func (l *Library) Symbol(name string) (uintptr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, ErrModuleClosed
	}
	if name == "" {
		return 0, ErrSymbolNotFound.Errorf("empty name")
	}
	addr, err := dlsym(l.handle, name)
	if err != nil || addr == 0 {
		return 0, ErrSymbolNotFound.Errorf("%s in %s", name, l.path)
	}
	return addr, nil
}

// Bind resolves name and stores a Go function calling it in fnPtr, which must
// be a pointer to a func variable.
func (l *Library) Bind(fnPtr any, name string) error {
	addr, err := l.Symbol(name)
	if err != nil {
		return err
	}
	registerFunc(fnPtr, addr)
	return nil
}

// Close unloads the library. A second Close returns ErrModuleClosed.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrModuleClosed
	}
	l.closed = true
	h := l.handle
	l.handle = 0
	if err := dlclose(h); err != nil {
		return fmt.Errorf("unload %s: %w", l.path, err)
	}
	return nil
}

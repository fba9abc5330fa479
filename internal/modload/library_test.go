//go:build darwin || freebsd || linux

package modload

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// libcPath returns the C library name the host dynamic linker resolves.
func libcPath(t *testing.T) string {
	t.Helper()
	switch runtime.GOOS {
	case "darwin":
		return "/usr/lib/libSystem.B.dylib"
	case "freebsd":
		return "libc.so.7"
	default:
		return "libc.so.6"
	}
}

func openLibc(t *testing.T) *Library {
	t.Helper()
	lib, err := Open(libcPath(t))
	if err != nil {
		t.Skipf("C library not loadable on this host: %v", err)
	}
	return lib
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	notLib := filepath.Join(t.TempDir(), "libfake.so")
	if err := os.WriteFile(notLib, []byte("definitely not an object file"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	type testCase struct {
		path        string
		wantMissing bool
	}

	tests := map[string]testCase{
		"missing absolute path": {path: filepath.Join(t.TempDir(), "libnothere.so"), wantMissing: true},
		"missing bare name":     {path: "libnativehost-does-not-exist.so.42"},
		"not a library":         {path: notLib},
		"empty path":            {path: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lib, err := Open(tc.path)
			if lib != nil {
				t.Fatal("Open must not return a library on failure")
			}
			if !errors.Is(err, ErrLoad) {
				t.Fatalf("error = %v, want %v", err, ErrLoad)
			}
			if got := errors.Is(err, fs.ErrNotExist); got != tc.wantMissing {
				t.Errorf("errors.Is(err, fs.ErrNotExist) = %v, want %v", got, tc.wantMissing)
			}
		})
	}
}

func TestSymbol(t *testing.T) {
	t.Parallel()

	lib := openLibc(t)
	t.Cleanup(func() { _ = lib.Close() })

	addr, err := lib.Symbol("getpid")
	if err != nil {
		t.Fatalf("Symbol(getpid): %v", err)
	}
	if addr == 0 {
		t.Fatal("Symbol returned a zero address")
	}

	if _, err := lib.Symbol("nativehost_no_such_symbol"); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("missing symbol error = %v, want %v", err, ErrSymbolNotFound)
	}
	if _, err := lib.Symbol(""); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("empty name error = %v, want %v", err, ErrSymbolNotFound)
	}
}

func TestBind(t *testing.T) {
	t.Parallel()

	lib := openLibc(t)
	t.Cleanup(func() { _ = lib.Close() })

	var getpid func() int32
	if err := lib.Bind(&getpid, "getpid"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if got, want := int(getpid()), os.Getpid(); got != want {
		t.Errorf("getpid() = %d, want %d", got, want)
	}
}

func TestClose_NoSymbolAfterUnload(t *testing.T) {
	t.Parallel()

	lib := openLibc(t)
	if lib.Path() != libcPath(t) {
		t.Errorf("Path = %q, want %q", lib.Path(), libcPath(t))
	}
	if err := lib.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := lib.Symbol("getpid"); !errors.Is(err, ErrModuleClosed) {
		t.Errorf("Symbol after Close = %v, want %v", err, ErrModuleClosed)
	}
	var getpid func() int32
	if err := lib.Bind(&getpid, "getpid"); !errors.Is(err, ErrModuleClosed) {
		t.Errorf("Bind after Close = %v, want %v", err, ErrModuleClosed)
	}
	if err := lib.Close(); !errors.Is(err, ErrModuleClosed) {
		t.Errorf("second Close = %v, want %v", err, ErrModuleClosed)
	}
}

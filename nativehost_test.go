package nativehost_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"slices"
	"testing"

	"github.com/giantswarm/nativehost"
)

func newPlatform(t *testing.T, opts ...nativehost.Option) nativehost.Platform {
	t.Helper()
	opts = append([]nativehost.Option{nativehost.WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	p, err := nativehost.New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := p.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return p
}

// foreignModule is a Module the Platform did not create.
type foreignModule struct{}

func (foreignModule) Path() string           { return "foreign" }
func (foreignModule) Bind(any, string) error { return nil }

func TestPlatform_ImportsAndFilter(t *testing.T) {
	t.Parallel()

	exe, err := os.Executable()
	if err != nil {
		t.Skipf("os.Executable: %v", err)
	}
	p := newPlatform(t, nativehost.WithImportCache(t.TempDir()))

	imports, err := p.GetLibraryImports(exe)
	if err != nil {
		t.Fatalf("GetLibraryImports: %v", err)
	}
	again, err := p.GetLibraryImports(exe)
	if err != nil {
		t.Fatalf("GetLibraryImports (cached): %v", err)
	}
	if !slices.Equal(imports, again) {
		t.Errorf("repeated GetLibraryImports differ: %q vs %q", imports, again)
	}

	bundle := p.FilterOutRuntimeDependencies(imports)
	for _, lib := range bundle {
		if !slices.Contains(imports, lib) {
			t.Errorf("filtered result contains %q, which is not an import", lib)
		}
	}
	if !slices.Equal(bundle, nativehost.FilterBundlable(imports, p.Policy())) {
		t.Error("FilterBundlable disagrees with FilterOutRuntimeDependencies for the same policy")
	}
}

func TestPlatform_GetLibraryImportsRejectsText(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/README"
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := newPlatform(t)
	if _, err := p.GetLibraryImports(path); !errors.Is(err, nativehost.ErrFormat) {
		t.Errorf("GetLibraryImports(text) = %v, want ErrFormat", err)
	}
}

func TestFilterBundlable(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		policy  nativehost.Policy
		imports []string
		want    []string
	}{
		"linux": {
			policy:  nativehost.DefaultPolicy("linux"),
			imports: []string{"libfoo.so.1", "libc.so.6", "libstdc++.so.6", "libm.so.6"},
			want:    []string{"libfoo.so.1", "libstdc++.so.6"},
		},
		"linux with bundled runtime": {
			policy: func() nativehost.Policy {
				p := nativehost.DefaultPolicy("linux")
				p.BundleSuppliesRuntime = true
				return p
			}(),
			imports: []string{"libfoo.so.1", "libc.so.6", "libstdc++.so.6"},
			want:    []string{"libfoo.so.1"},
		},
		"darwin": {
			policy:  nativehost.DefaultPolicy("darwin"),
			imports: []string{"/usr/lib/libSystem.B.dylib", "@rpath/libfoo.dylib", "/System/Library/Frameworks/Cocoa.framework/Versions/A/Cocoa"},
			want:    []string{"@rpath/libfoo.dylib"},
		},
		"windows is case-insensitive": {
			policy:  nativehost.DefaultPolicy("windows"),
			imports: []string{"KERNEL32.dll", "foo.dll", "user32.DLL"},
			want:    []string{"foo.dll"},
		},
		"malformed kept": {
			policy:  nativehost.DefaultPolicy("linux"),
			imports: []string{"", "libc.so.6"},
			want:    []string{""},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := nativehost.FilterBundlable(tc.imports, tc.policy); !slices.Equal(got, tc.want) {
				t.Errorf("FilterBundlable = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPlatform_ForeignModules(t *testing.T) {
	t.Parallel()

	p := newPlatform(t)
	for name, m := range map[string]nativehost.Module{"nil": nil, "foreign": foreignModule{}} {
		if err := p.FreeLibrary(m); !errors.Is(err, nativehost.ErrModuleClosed) {
			t.Errorf("FreeLibrary(%s) = %v, want ErrModuleClosed", name, err)
		}
		if _, err := p.GetProcAddress(m, "main"); !errors.Is(err, nativehost.ErrModuleClosed) {
			t.Errorf("GetProcAddress(%s) = %v, want ErrModuleClosed", name, err)
		}
	}
}

func TestPlatform_ShowResponseMessage(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := newPlatform(t, nativehost.WithMessageWriter(&out))
	if got := p.ShowResponseMessage("Title", "body text"); got != nativehost.ResponseOK {
		t.Errorf("ShowResponseMessage = %v, want ResponseOK", got)
	}
	if out.String() != "Title body text\n" {
		t.Errorf("message = %q", out.String())
	}
}

func TestPlatform_ResolveDependencies(t *testing.T) {
	t.Parallel()

	exe, err := os.Executable()
	if err != nil {
		t.Skipf("os.Executable: %v", err)
	}
	p := newPlatform(t)

	closure, err := p.ResolveDependencies(context.Background(), exe)
	if err != nil {
		t.Fatalf("ResolveDependencies: %v", err)
	}
	if !slices.IsSorted(closure) {
		t.Errorf("closure not sorted: %q", closure)
	}
	direct, err := p.GetLibraryImports(exe)
	if err != nil {
		t.Fatalf("GetLibraryImports: %v", err)
	}
	if len(direct) > 0 && len(closure) == 0 {
		t.Errorf("closure empty but the binary imports %q", direct)
	}
}

package sentinel

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"
)

func TestError_Is(t *testing.T) {
	t.Parallel()

	const errLoad = Error("library load failed")

	tests := map[string]struct {
		err    error
		target error
		want   bool
	}{
		"bare kind":            {err: errLoad, target: errLoad, want: true},
		"fmt wrapped":          {err: fmt.Errorf("dlopen: %w", errLoad), target: errLoad, want: true},
		"other kind":           {err: errLoad, target: Error("symbol not found"), want: false},
		"same text errors.New": {err: errLoad, target: errors.New("library load failed"), want: false},
		"unsupported kind":     {err: ErrUnsupported.Wrap(syscall.ENOSYS), target: ErrUnsupported, want: true},
		"unsupported cause":    {err: ErrUnsupported.Wrap(syscall.ENOSYS), target: syscall.ENOSYS, want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := errors.Is(tc.err, tc.target); got != tc.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tc.err, tc.target, got, tc.want)
			}
		})
	}
}

func TestError_Wrap(t *testing.T) {
	t.Parallel()

	const errLoad = Error("load failed")

	err := errLoad.Wrap(fs.ErrNotExist)
	if !errors.Is(err, errLoad) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Wrap result %v does not match both kind and cause", err)
	}
	if got, want := err.Error(), "load failed: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if err := errLoad.Wrap(nil); err != errLoad { //nolint:errorlint // identity check
		t.Errorf("Wrap(nil) = %v, want the kind itself", err)
	}
}

func TestError_Errorf(t *testing.T) {
	t.Parallel()

	const errFormat = Error("unrecognized binary format")

	err := errFormat.Errorf("%s: bad magic %#x", "/tmp/x", 0x7f)
	if !errors.Is(err, errFormat) {
		t.Fatal("Errorf result should match the kind")
	}
	if got, want := err.Error(), "unrecognized binary format: /tmp/x: bad magic 0x7f"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

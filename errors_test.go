package nativehost_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/giantswarm/nativehost"
)

// TestPublicErrorConstants verifies that every exported error constant:
//   - implements the error interface (Error() returns a non-empty string)
//   - matches itself via errors.Is, directly and when wrapped
//   - does not match any other exported error constant
func TestPublicErrorConstants(t *testing.T) {
	t.Parallel()

	allErrors := map[string]error{
		"ErrAlreadyStarted": nativehost.ErrAlreadyStarted,
		"ErrClosedPipe":     nativehost.ErrClosedPipe,
		"ErrEmptyPath":      nativehost.ErrEmptyPath,
		"ErrFormat":         nativehost.ErrFormat,
		"ErrInvalidPolicy":  nativehost.ErrInvalidPolicy,
		"ErrLoad":           nativehost.ErrLoad,
		"ErrModuleClosed":   nativehost.ErrModuleClosed,
		"ErrNotStarted":     nativehost.ErrNotStarted,
		"ErrSignalRestore":  nativehost.ErrSignalRestore,
		"ErrSymbolNotFound": nativehost.ErrSymbolNotFound,
		"ErrUnsupported":    nativehost.ErrUnsupported,
	}

	for name, sentinel := range allErrors {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if sentinel == nil {
				t.Fatalf("%s is nil", name)
			}
			if msg := sentinel.Error(); msg == "" {
				t.Errorf("%s.Error() returned empty string", name)
			}
			if !errors.Is(sentinel, sentinel) {
				t.Errorf("errors.Is(%s, %s) = false, want true (self-match)", name, name)
			}
			wrapped := fmt.Errorf("wrapping: %w", sentinel)
			if !errors.Is(wrapped, sentinel) {
				t.Errorf("errors.Is(wrapped %s) = false, want true", name)
			}
			for otherName, other := range allErrors {
				if otherName != name && errors.Is(sentinel, other) {
					t.Errorf("errors.Is(%s, %s) = true, want false", name, otherName)
				}
			}
		})
	}
}

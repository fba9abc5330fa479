package policy

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giantswarm/nativehost/internal/sentinel"
)

// ErrInvalidPolicy is returned when a policy has a relative system directory
// or a malformed glob.
const ErrInvalidPolicy = sentinel.Error("invalid bundling policy")

// Decision is the outcome of applying a Policy to one library reference.
type Decision int

const (
	// Include bundles the library.
	Include Decision = iota

	// IncludeMalformed bundles a reference that is empty or contains NUL or
	// non-printable bytes. The reference is passed through with a diagnostic.
	IncludeMalformed

	// ExcludeSystem skips a library the target system provides.
	ExcludeSystem

	// ExcludeRuntime skips a runtime library the bundle supplies itself.
	ExcludeRuntime
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Include:
		return "include"
	case IncludeMalformed:
		return "include-malformed"
	case ExcludeSystem:
		return "exclude-system"
	case ExcludeRuntime:
		return "exclude-runtime"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Bundled reports whether the library should be copied into the bundle.
func (d Decision) Bundled() bool {
	return d == Include || d == IncludeMalformed
}

// Policy is the platform-specific rule set for one target.
type Policy struct {
	// Name identifies the policy in log messages.
	Name string `yaml:"name"`

	// SystemDirs are absolute directories whose contents the target system
	// provides. A reference at or below one of them is excluded.
	SystemDirs []string `yaml:"systemDirs"`

	// SystemLibraries are globs (path.Match syntax) matched against the base
	// name of a reference. A match is excluded.
	SystemLibraries []string `yaml:"systemLibraries"`

	// RuntimeLibraries are globs for the runtime's own shared objects. They
	// are excluded only when BundleSuppliesRuntime is set.
	RuntimeLibraries []string `yaml:"runtimeLibraries"`

	// BundleSuppliesRuntime reports that the bundle carries its own runtime.
	BundleSuppliesRuntime bool `yaml:"bundleSuppliesRuntime"`

	// FoldCase matches names case-insensitively, as Windows does.
	FoldCase bool `yaml:"foldCase"`
}

// Clone returns a deep copy of p.
func (p Policy) Clone() Policy {
	p.SystemDirs = slices.Clone(p.SystemDirs)
	p.SystemLibraries = slices.Clone(p.SystemLibraries)
	p.RuntimeLibraries = slices.Clone(p.RuntimeLibraries)
	return p
}

// Validate checks that every system directory is absolute and every glob
// parses. All violations are reported together.
func (p Policy) Validate() error {
	var errs []error
	for _, d := range p.SystemDirs {
		if !strings.HasPrefix(normalize(d), "/") && !isDriveAbs(d) {
			errs = append(errs, fmt.Errorf("system directory %q must be absolute", d))
		}
	}
	for _, g := range slices.Concat(p.SystemLibraries, p.RuntimeLibraries) {
		if _, err := path.Match(g, ""); err != nil {
			errs = append(errs, fmt.Errorf("glob %q: %w", g, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return ErrInvalidPolicy.Wrap(err)
	}
	return nil
}

// Decide classifies one library reference. It never fails.
func (p Policy) Decide(ref string) Decision {
	if Malformed(ref) {
		return IncludeMalformed
	}

	name := normalize(ref)
	if p.FoldCase {
		name = strings.ToLower(name)
	}
	if p.underSystemDir(name) {
		return ExcludeSystem
	}

	base := path.Base(name)
	if p.matches(p.SystemLibraries, base) {
		return ExcludeSystem
	}
	if p.BundleSuppliesRuntime && p.matches(p.RuntimeLibraries, base) {
		return ExcludeRuntime
	}
	return Include
}

func (p Policy) underSystemDir(name string) bool {
	if !strings.HasPrefix(name, "/") && !isDriveAbs(name) {
		return false
	}
	name = path.Clean(name)
	for _, d := range p.SystemDirs {
		dir := path.Clean(normalize(d))
		if p.FoldCase {
			dir = strings.ToLower(dir)
		}
		if dir == "/" || name == dir || strings.HasPrefix(name, dir+"/") {
			return true
		}
	}
	return false
}

func (p Policy) matches(globs []string, base string) bool {
	for _, g := range globs {
		if p.FoldCase {
			g = strings.ToLower(g)
		}
		// Bad patterns are rejected by Validate; here they never match.
		if ok, _ := path.Match(g, base); ok {
			return true
		}
	}
	return false
}

// Malformed reports whether ref is empty, not valid UTF-8, or contains NUL or
// other non-printable characters.
func Malformed(ref string) bool {
	if ref == "" || !utf8.ValidString(ref) {
		return true
	}
	return strings.IndexFunc(ref, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0
}

// Filter returns the subset of imports that p bundles, preserving order.
// Malformed entries are kept and logged as warnings; exclusions are logged at
// debug level. Filter is idempotent and never fails. A nil logger uses
// slog.Default().
func Filter(imports []string, p Policy, log *slog.Logger) []string {
	if log == nil {
		log = slog.Default()
	}
	out := make([]string, 0, len(imports))
	for _, ref := range imports {
		d := p.Decide(ref)
		switch d {
		case IncludeMalformed:
			log.Warn("malformed library reference kept for bundling", "policy", p.Name, "ref", fmt.Sprintf("%q", ref))
		case ExcludeSystem, ExcludeRuntime:
			log.Debug("library not bundled", "policy", p.Name, "ref", ref, "decision", d)
		}
		if d.Bundled() {
			out = append(out, ref)
		}
	}
	return out
}

// normalize converts Windows separators so one set of rules matches both.
func normalize(ref string) string {
	return strings.ReplaceAll(ref, `\`, "/")
}

// isDriveAbs reports whether name starts with a Windows drive root, "C:/".
func isDriveAbs(name string) bool {
	name = normalize(name)
	return len(name) >= 3 && name[1] == ':' && name[2] == '/' &&
		(('a' <= name[0] && name[0] <= 'z') || ('A' <= name[0] && name[0] <= 'Z'))
}

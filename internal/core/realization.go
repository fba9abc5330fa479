package core

import (
	"slices"
	"strings"

	"github.com/giantswarm/nativehost/internal/inspect"
	"github.com/giantswarm/nativehost/internal/policy"
)

// Realization is the per-OS part of a Platform: which executable formats
// the host loads and which libraries it treats as part of the system.
type Realization struct {
	Name          string
	Formats       []inspect.Format
	DefaultPolicy func() policy.Policy
}

// scope names the accepted formats, so that cache entries recorded by one
// realization are never served to another.
func (r Realization) scope() string {
	names := make([]string, len(r.Formats))
	for i, f := range r.Formats {
		names[i] = string(f)
	}
	slices.Sort(names)
	return strings.Join(names, "+")
}

var (
	linuxRealization = Realization{
		Name:          "linux",
		Formats:       []inspect.Format{inspect.FormatELF},
		DefaultPolicy: policy.LinuxDefault,
	}
	darwinRealization = Realization{
		Name:          "darwin",
		Formats:       []inspect.Format{inspect.FormatMachO},
		DefaultPolicy: policy.DarwinDefault,
	}
	windowsRealization = Realization{
		Name:          "windows",
		Formats:       []inspect.Format{inspect.FormatPE},
		DefaultPolicy: policy.WindowsDefault,
	}
)

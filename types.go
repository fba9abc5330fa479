package nativehost

import (
	"github.com/giantswarm/nativehost/internal/core"
	"github.com/giantswarm/nativehost/internal/policy"
	"github.com/giantswarm/nativehost/internal/process"
)

// State is the lifecycle state of a Process.
type State = process.State

const (
	// StateCreated is a Process that has not been executed.
	StateCreated = process.StateCreated

	// StateRunning is a started child not yet observed to exit.
	StateRunning = process.StateRunning

	// StateExited is a child observed to exit on its own.
	StateExited = process.StateExited

	// StateTerminated is a child that was sent a termination request.
	StateTerminated = process.StateTerminated
)

// Policy is the rule set that decides which libraries a bundle carries.
//
// Policy is a type alias so that its methods (Decide, Validate, Clone) are
// part of the public API.
type Policy = policy.Policy

// Decision is the classification Policy.Decide assigns to one import.
type Decision = policy.Decision

const (
	// Include means the library must be bundled.
	Include = policy.Include

	// IncludeMalformed means the name could not be classified and is
	// bundled to be safe.
	IncludeMalformed = policy.IncludeMalformed

	// ExcludeSystem means the target system provides the library.
	ExcludeSystem = policy.ExcludeSystem

	// ExcludeRuntime means the bundled runtime provides the library.
	ExcludeRuntime = policy.ExcludeRuntime
)

// MessageResponse is the answer ShowResponseMessage returns.
type MessageResponse = core.MessageResponse

const (
	// ResponseOK means the message was delivered.
	ResponseOK = core.ResponseOK

	// ResponseCancel means the message could not be delivered.
	ResponseCancel = core.ResponseCancel
)

// RunResult is the outcome of Platform.Run.
type RunResult = core.RunResult

// DefaultPolicy returns the built-in policy for goos ("linux", "darwin",
// "windows"). Unknown systems get the Linux policy.
func DefaultPolicy(goos string) Policy {
	return policy.Default(goos)
}

// LoadPolicyFile reads a YAML policy. Unknown keys are rejected and the
// result is validated; errors wrap ErrInvalidPolicy.
func LoadPolicyFile(path string) (Policy, error) {
	return policy.LoadFile(path)
}

// FilterBundlable returns the imports p does not exclude, in order. It
// never fails: malformed names are kept and logged.
func FilterBundlable(imports []string, p Policy) []string {
	return policy.Filter(imports, p, core.Logger())
}

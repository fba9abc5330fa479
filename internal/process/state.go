package process

import (
	"fmt"

	"github.com/giantswarm/nativehost/internal/sentinel"
)

// ErrInvalidTransition is returned by transition for an event that is not
// valid in the current state.
const ErrInvalidTransition = sentinel.Error("invalid process state transition")

// State is the lifecycle state of a Handle.
type State int

const (
	// StateCreated is the initial state: no OS process exists yet.
	StateCreated State = iota
	// StateRunning means the OS process was started and has not been
	// observed to exit.
	StateRunning
	// StateExited means the process terminated on its own and its exit
	// status is available.
	StateExited
	// StateTerminated means this Handle delivered a termination signal.
	StateTerminated
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateRunning:
		return "Running"
	case StateExited:
		return "Exited"
	case StateTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no transition can leave s.
func (s State) Terminal() bool {
	return s == StateExited || s == StateTerminated
}

// event is something the Handle observed about its child.
type event int

const (
	eventStarted    event = iota // cmd.Start succeeded
	eventExited                  // the wait goroutine reported exit
	eventTerminated              // a termination signal was delivered
)

func (e event) String() string {
	switch e {
	case eventStarted:
		return "started"
	case eventExited:
		return "exited"
	case eventTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// transition returns the state that follows from applying ev in from.
// It has no side effects. Terminal states accept no events.
func transition(from State, ev event) (State, error) {
	switch {
	case from == StateCreated && ev == eventStarted:
		return StateRunning, nil
	case from == StateRunning && ev == eventExited:
		return StateExited, nil
	case from == StateRunning && ev == eventTerminated:
		return StateTerminated, nil
	default:
		return from, fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, ev, from)
	}
}

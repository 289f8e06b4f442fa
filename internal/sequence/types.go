package sequence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// ErrInvalidConfig is returned by New for negative durations or an initial
// function the registry does not hold.
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// Phase enumerates scheduler states.
type Phase string

const (
	Steady        Phase = "steady"
	Transitioning Phase = "transitioning"
)

// Mode selects how the next function is chosen.
type Mode string

const (
	Cycle  Mode = "cycle"
	Random Mode = "random"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Cycle, "sequential", "":
		return Cycle, nil
	case Random:
		return Random, nil
	}
	return "", fmt.Errorf("%w: unknown transition mode %q", ErrInvalidConfig, s)
}

// State is a snapshot of the scheduler. Pending is only meaningful while
// Transitioning is true; Progress is Elapsed / transition duration and is
// zero in the steady phase.
type State struct {
	Current       surface.Name
	Pending       surface.Name
	Elapsed       float32
	Progress      float32
	Transitioning bool
}

func (s State) Phase() Phase {
	if s.Transitioning {
		return Transitioning
	}
	return Steady
}

// Hooks are optional callbacks fired when the scheduler flips phase.
type Hooks struct {
	OnTransitionStart func(from, to surface.Name)
	OnTransitionEnd   func(current surface.Name)
}

// Options configures a Scheduler. Durations are in seconds.
type Options struct {
	Registry   *surface.Registry // defaults to surface.Default
	Hold       float32
	Transition float32
	Mode       Mode
	Initial    surface.Name
	Rand       surface.Rand // required for Random; defaults to a seed-0 source
	Hooks      Hooks
}

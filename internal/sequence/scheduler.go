package sequence

import (
	"fmt"

	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// Scheduler decides when to hold on a function and when to blend into the
// next one. It is advanced by Tick and is not safe for concurrent use.
type Scheduler struct {
	reg        *surface.Registry
	hold       float32
	transition float32
	mode       Mode
	rng        surface.Rand
	hooks      Hooks

	st State
}

func New(o Options) (*Scheduler, error) {
	if o.Registry == nil {
		o.Registry = surface.Default
	}
	if o.Hold < 0 || o.Transition < 0 {
		return nil, fmt.Errorf("%w: durations must be >= 0 (hold=%v transition=%v)", ErrInvalidConfig, o.Hold, o.Transition)
	}
	if _, err := o.Registry.Lookup(o.Initial); err != nil {
		return nil, fmt.Errorf("%w: initial function: %v", ErrInvalidConfig, err)
	}
	if o.Mode == "" {
		o.Mode = Cycle
	}
	if o.Mode != Cycle && o.Mode != Random {
		return nil, fmt.Errorf("%w: unknown transition mode %q", ErrInvalidConfig, o.Mode)
	}
	if o.Rand == nil {
		o.Rand = surface.NewRand(0)
	}
	return &Scheduler{
		reg:        o.Registry,
		hold:       o.Hold,
		transition: o.Transition,
		mode:       o.Mode,
		rng:        o.Rand,
		hooks:      o.Hooks,
		st:         State{Current: o.Initial},
	}, nil
}

// Tick advances the scheduler by dt seconds. At most one phase change
// happens per tick; the overshoot past a boundary is carried into the next
// phase rather than dropped.
func (s *Scheduler) Tick(dt float32) {
	if dt > 0 {
		s.st.Elapsed += dt
	}

	if s.st.Transitioning {
		if s.st.Elapsed >= s.transition {
			s.st.Elapsed -= s.transition
			s.commit()
		}
		return
	}

	if s.st.Elapsed >= s.hold {
		s.st.Elapsed -= s.hold
		s.st.Pending = s.pick(s.st.Current)
		s.st.Transitioning = true
		if s.hooks.OnTransitionStart != nil {
			s.hooks.OnTransitionStart(s.st.Current, s.st.Pending)
		}
		// zero-length transitions switch without a blended frame
		if s.transition <= 0 {
			s.commit()
		}
	}
}

func (s *Scheduler) commit() {
	s.st.Current = s.st.Pending
	s.st.Transitioning = false
	if s.hooks.OnTransitionEnd != nil {
		s.hooks.OnTransitionEnd(s.st.Current)
	}
}

func (s *Scheduler) pick(current surface.Name) surface.Name {
	if s.mode == Random {
		return s.reg.Random(current, s.rng)
	}
	return s.reg.Next(current)
}

// State returns a copy of the current state with Progress filled in.
func (s *Scheduler) State() State {
	st := s.st
	st.Progress = s.Progress()
	return st
}

// Progress is elapsed / transition duration while transitioning, else 0.
// It is not clamped.
func (s *Scheduler) Progress() float32 {
	if !s.st.Transitioning || s.transition <= 0 {
		return 0
	}
	return s.st.Elapsed / s.transition
}

// Blend is Progress eased with smoothstep.
func (s *Scheduler) Blend() float32 {
	return surface.SmoothStep(0, 1, s.Progress())
}

// From is the function being sampled, or blended away from.
func (s *Scheduler) From() surface.Name { return s.st.Current }

// To is the blend target while transitioning, else the current function.
func (s *Scheduler) To() surface.Name {
	if s.st.Transitioning {
		return s.st.Pending
	}
	return s.st.Current
}

func (s *Scheduler) Mode() Mode { return s.mode }
func (s *Scheduler) Registry() *surface.Registry { return s.reg }

// Reset returns to the steady phase on initial with no accumulated time.
func (s *Scheduler) Reset(initial surface.Name) error {
	if _, err := s.reg.Lookup(initial); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	s.st = State{Current: initial}
	return nil
}

package render

import (
	"errors"
	"fmt"
	"time"

	"cogentcore.org/core/math32"

	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// Sink consumes one frame of positions. Implementations must not keep the
// slice after Write returns.
type Sink interface {
	Write([]surface.Point) error
}

var ErrShortBuffer = errors.New("output buffer shorter than grid")

// Engine advances the scheduler once per tick, samples the grid and hands
// the frame to an optional sink.
type Engine struct {
	Grid    Grid
	Sched   *sequence.Scheduler
	Sampler Sampler
	Sink    Sink

	// Out is the engine-owned frame written by RenderOnce.
	Out []surface.Point

	// TimeScale multiplies wall time in Now; 0 means 1.
	TimeScale float64

	maxRes int
	t0     time.Time

	// metrics (last durations in ms)
	Last struct {
		SampleMS float64
		SinkMS   float64
		TotalMS  float64
	}
}

// NewEngine sizes the frame buffer for g. maxResolution bounds later calls
// to SetResolution (<= 0 means DefaultMaxResolution).
func NewEngine(g Grid, sched *sequence.Scheduler, sink Sink, maxResolution int) (*Engine, error) {
	if sched == nil {
		return nil, errors.New("scheduler is nil")
	}
	if g.Len() == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidResolution)
	}
	return &Engine{
		Grid:   g,
		Sched:  sched,
		Sink:   sink,
		Out:    make([]surface.Point, g.Len()),
		maxRes: maxResolution,
		t0:     time.Now(),
	}, nil
}

// Now returns seconds since engine start, scaled by TimeScale.
func (e *Engine) Now() float32 {
	scale := 1.0
	if e.TimeScale != 0 {
		scale = e.TimeScale
	}
	return float32(time.Since(e.t0).Seconds() * scale)
}

// Tick advances the scheduler by dt and samples the post-tick state at time
// now into dst, which the caller owns. The sink, if any, is not invoked.
func (e *Engine) Tick(dt, now float32, dst []surface.Point) (sequence.State, error) {
	if len(dst) < e.Grid.Len() {
		return e.Sched.State(), fmt.Errorf("%w: have %d, need %d", ErrShortBuffer, len(dst), e.Grid.Len())
	}
	e.Sched.Tick(dt)
	st := e.Sched.State()
	e.Sampler.Sample(dst, e.Grid, st, e.Sched.Registry(), now)
	return st, nil
}

// SampleInto samples the current state without advancing it.
func (e *Engine) SampleInto(dst []surface.Point, now float32) error {
	if len(dst) < e.Grid.Len() {
		return fmt.Errorf("%w: have %d, need %d", ErrShortBuffer, len(dst), e.Grid.Len())
	}
	e.Sampler.Sample(dst, e.Grid, e.Sched.State(), e.Sched.Registry(), now)
	return nil
}

// SampleArray samples the current state into a flat float buffer.
func (e *Engine) SampleArray(dst math32.ArrayF32, now float32) error {
	if len(dst) < 3*e.Grid.Len() {
		return fmt.Errorf("%w: have %d floats, need %d", ErrShortBuffer, len(dst), 3*e.Grid.Len())
	}
	e.Sampler.SampleArray(dst, e.Grid, e.Sched.State(), e.Sched.Registry(), now)
	return nil
}

// RenderOnce ticks by dt, samples into Out at time now and writes Out to the
// sink. If now < 0, Engine.Now() is used.
func (e *Engine) RenderOnce(dt, now float32) error {
	if now < 0 {
		now = e.Now()
	}
	start := time.Now()

	if _, err := e.Tick(dt, now, e.Out); err != nil {
		return err
	}
	e.Last.SampleMS = float64(time.Since(start).Microseconds()) / 1000.0

	if e.Sink != nil {
		sinkStart := time.Now()
		if err := e.Sink.Write(e.Out); err != nil {
			return err
		}
		e.Last.SinkMS = float64(time.Since(sinkStart).Microseconds()) / 1000.0
	}

	e.Last.TotalMS = float64(time.Since(start).Microseconds()) / 1000.0
	return nil
}

// SetResolution rebuilds the grid and resizes Out. The scheduler state is
// untouched.
func (e *Engine) SetResolution(r int) error {
	g, err := NewGrid(r, e.maxRes)
	if err != nil {
		return err
	}
	e.Grid = g
	if cap(e.Out) >= g.Len() {
		e.Out = e.Out[:g.Len()]
	} else {
		e.Out = make([]surface.Point, g.Len())
	}
	return nil
}

func (e *Engine) State() sequence.State { return e.Sched.State() }

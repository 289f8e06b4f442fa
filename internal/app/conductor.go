package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-surfaces/internal/config"
	diag "github.com/coreman2200/arcaluminis-surfaces/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-surfaces/internal/layout"
	"github.com/coreman2200/arcaluminis-surfaces/internal/led"
	"github.com/coreman2200/arcaluminis-surfaces/internal/render"
	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
	"github.com/coreman2200/arcaluminis-surfaces/internal/ws"
)

// Conductor owns one engine and the sinks it feeds, and drives them from a
// fixed-rate ticker.
type Conductor struct {
	Cfg  *config.Config
	Eng  *render.Engine
	Hub  *ws.Hub   // nil when the sink is "none"
	Cube *led.Cube // nil unless the sink is "cube" or "console"

	// OnFrame, if set, is called after every successful frame with the
	// state that was rendered.
	OnFrame func(st sequence.State, pts []surface.Point)

	mu       sync.Mutex
	failures int
}

// NewConductor validates cfg and builds the pipeline it describes. Hardware
// that cannot be opened is replaced by the simulated driver.
func NewConductor(cfg *config.Config) (*Conductor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.SchedulerOptions()
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	opts.Rand = surface.NewRand(seed)

	c := &Conductor{Cfg: cfg}
	if cfg.Sink != "none" {
		c.Hub = ws.NewHub(func() (sequence.State, int) {
			return c.Eng.State(), c.Eng.Grid.Resolution
		}, cfg.SendFPS)
	}
	opts.Hooks = sequence.Hooks{
		OnTransitionStart: func(from, to surface.Name) {
			log.Info().Str("from", from.String()).Str("to", to.String()).Msg("transition start")
			c.pushDiag(diag.TransitionStarted(from, to))
		},
		OnTransitionEnd: func(current surface.Name) {
			log.Info().Str("current", current.String()).Msg("transition end")
			c.pushDiag(diag.TransitionEnded(current))
		},
	}

	sched, err := sequence.New(opts)
	if err != nil {
		return nil, err
	}
	g, err := render.NewGrid(cfg.Resolution, cfg.MaxResolution)
	if err != nil {
		return nil, err
	}
	sink, err := c.openSink()
	if err != nil {
		return nil, err
	}
	eng, err := render.NewEngine(g, sched, sink, cfg.MaxResolution)
	if err != nil {
		return nil, err
	}
	eng.Sampler.Workers = cfg.Workers
	eng.TimeScale = cfg.TimeScale
	c.Eng = eng

	log.Info().
		Int("resolution", cfg.Resolution).
		Str("initial", opts.Initial.String()).
		Str("mode", string(opts.Mode)).
		Float32("hold_s", opts.Hold).
		Float32("transition_s", opts.Transition).
		Str("sink", cfg.Sink).
		Msg("conductor ready")
	return c, nil
}

func (c *Conductor) openSink() (render.Sink, error) {
	cfg := c.Cfg
	switch cfg.Sink {
	case "none":
		return nil, nil
	case "ws":
		return c.Hub, nil
	}

	l := layout.Layout{
		Dim:   layout.Dim{X: cfg.Cube.X, Y: cfg.Cube.Y, Z: cfg.Cube.Z},
		Order: layout.Serpentine{XFlipEveryRow: cfg.Cube.XFlipEveryRow, YFlipEveryPanel: cfg.Cube.YFlipEveryPanel},
	}
	var drv led.Driver
	if cfg.Sink == "console" {
		drv = led.NewConsole(l.Count())
	} else {
		strip, err := led.NewSPI(cfg.SPI.Dev, l.Count(), cfg.SPI.SpeedHz)
		if err != nil {
			log.Warn().Err(err).
				Str("dev", cfg.SPI.Dev).
				Int("speed_hz", cfg.SPI.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			drv = led.NewSim()
		} else {
			drv = strip
		}
	}
	p := led.Power{WhiteCap: cfg.Power.WhiteCap, BudgetMA: cfg.Power.BudgetMA, ChannelMA: cfg.Power.ChannelMA}
	c.Cube = led.NewCube(l, drv, p, cfg.Brightness)
	return fanout{c.Cube, c.Hub}, nil
}

func (c *Conductor) pushDiag(d diag.Diagnostic) {
	if c.Hub != nil {
		c.Hub.PushDiag(d)
	}
}

// Step renders one frame, advancing the schedule by dt seconds and sampling
// at now. A negative now uses the engine clock.
func (c *Conductor) Step(dt, now float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.Eng.RenderOnce(dt, now)
	if err != nil {
		if c.failures == 0 {
			log.Warn().Err(err).Msg("frame failed")
			c.pushDiag(diag.SinkFailed(err))
		}
		c.failures++
		return err
	}
	if c.failures > 0 {
		log.Info().Int("dropped", c.failures).Msg("frames recovered")
		c.failures = 0
	}
	if c.OnFrame != nil {
		c.OnFrame(c.Eng.State(), c.Eng.Out)
	}
	return nil
}

// Run ticks at cfg.FPS until ctx is done. Every tick advances the schedule
// by exactly 1/FPS; sample time follows the engine clock.
func (c *Conductor) Run(ctx context.Context) error {
	fps := c.Cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	period := time.Second / time.Duration(fps)
	dt := float32(period.Seconds())
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = c.Step(dt, -1)
		}
	}
}

// SetResolution resizes the grid between frames.
func (c *Conductor) SetResolution(r int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Eng.SetResolution(r)
}

// Last returns the timings of the most recent frame.
func (c *Conductor) Last() (sampleMS, sinkMS, totalMS float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Eng.Last.SampleMS, c.Eng.Last.SinkMS, c.Eng.Last.TotalMS
}

func (c *Conductor) Close() error {
	if c.Cube == nil {
		return nil
	}
	return c.Cube.Close()
}

// fanout writes every frame to each sink in turn.
type fanout []render.Sink

func (f fanout) Write(pts []surface.Point) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Write(pts); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

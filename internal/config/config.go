package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/arcaluminis-surfaces/internal/render"
	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

type PowerCfg struct {
	WhiteCap  float64 `yaml:"white_cap"`
	BudgetMA  float64 `yaml:"budget_ma"`
	ChannelMA float64 `yaml:"chan_ma"`
}

type Cube struct {
	X               int  `yaml:"x"`
	Y               int  `yaml:"y"`
	Z               int  `yaml:"z"`
	XFlipEveryRow   bool `yaml:"x_flip_every_row"`
	YFlipEveryPanel bool `yaml:"y_flip_every_panel"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // "" picks the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2400000
}

type Config struct {
	Resolution      int     `yaml:"resolution"`
	MaxResolution   int     `yaml:"max_resolution"`
	FunctionHoldS   float64 `yaml:"function_hold_s"`
	TransitionS     float64 `yaml:"transition_s"`
	TransitionMode  string  `yaml:"transition_mode"`  // cycle | random
	InitialFunction string  `yaml:"initial_function"` // wave | multiwave | ripple | sphere | torus
	Seed            uint64  `yaml:"seed"`             // random mode; 0 = time based
	Workers         int     `yaml:"workers"`
	TimeScale       float64 `yaml:"time_scale"`

	FPS     int    `yaml:"fps"`
	Addr    string `yaml:"addr"`
	Sink    string `yaml:"sink"` // ws | cube | console | none
	SendFPS int    `yaml:"send_fps"`

	Brightness float64  `yaml:"brightness"`
	Cube       Cube     `yaml:"cube"`
	SPI        SPI      `yaml:"spi,omitempty"`
	Power      PowerCfg `yaml:"power"`
}

func Default() *Config {
	return &Config{
		Resolution:      50,
		MaxResolution:   render.DefaultMaxResolution,
		FunctionHoldS:   1,
		TransitionS:     1,
		TransitionMode:  string(sequence.Cycle),
		InitialFunction: surface.Wave.String(),
		TimeScale:       1,
		FPS:             60,
		Addr:            ":8080",
		Sink:            "ws",
		SendFPS:         20,
		Brightness:      0.8,
		Cube:            Cube{X: 5, Y: 26, Z: 5, XFlipEveryRow: true, YFlipEveryPanel: true},
		SPI:             SPI{SpeedHz: 2400000},
		Power:           PowerCfg{WhiteCap: 0.85, BudgetMA: 3000, ChannelMA: 20},
	}
}

// Load reads path on top of Default, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate rejects values the engine cannot run with. Nothing is clamped.
func (c *Config) Validate() error {
	maxRes := c.MaxResolution
	if maxRes <= 0 {
		maxRes = render.DefaultMaxResolution
	}
	if c.Resolution < render.MinResolution || c.Resolution > maxRes {
		return fmt.Errorf("%w: resolution %d not in [%d,%d]", ErrInvalidConfig, c.Resolution, render.MinResolution, maxRes)
	}
	if c.FunctionHoldS < 0 {
		return fmt.Errorf("%w: function_hold_s must be >= 0, got %v", ErrInvalidConfig, c.FunctionHoldS)
	}
	if c.TransitionS < 0 {
		return fmt.Errorf("%w: transition_s must be >= 0, got %v", ErrInvalidConfig, c.TransitionS)
	}
	if _, err := sequence.ParseMode(c.TransitionMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := surface.ParseName(c.InitialFunction); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be > 0, got %d", ErrInvalidConfig, c.FPS)
	}
	switch c.Sink {
	case "ws", "cube", "console", "none":
	default:
		return fmt.Errorf("%w: unknown sink %q", ErrInvalidConfig, c.Sink)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return fmt.Errorf("%w: brightness must be in [0,1], got %v", ErrInvalidConfig, c.Brightness)
	}
	if c.Sink == "cube" || c.Sink == "console" {
		if c.Cube.X <= 0 || c.Cube.Y <= 0 || c.Cube.Z <= 0 {
			return fmt.Errorf("%w: cube dimensions must be > 0, got %dx%dx%d", ErrInvalidConfig, c.Cube.X, c.Cube.Y, c.Cube.Z)
		}
	}
	return nil
}

// SchedulerOptions converts the timing section. Call Validate first.
func (c *Config) SchedulerOptions() (sequence.Options, error) {
	mode, err := sequence.ParseMode(c.TransitionMode)
	if err != nil {
		return sequence.Options{}, err
	}
	initial, err := surface.ParseName(c.InitialFunction)
	if err != nil {
		return sequence.Options{}, err
	}
	return sequence.Options{
		Registry:   surface.Default,
		Hold:       float32(c.FunctionHoldS),
		Transition: float32(c.TransitionS),
		Mode:       mode,
		Initial:    initial,
	}, nil
}

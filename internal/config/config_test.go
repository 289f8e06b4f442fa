package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surfaces.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
resolution: 120
transition_mode: random
initial_function: Torus
function_hold_s: 2.5
seed: 9
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, 120, c.Resolution)
	assert.Equal(t, 1000, c.MaxResolution)
	assert.Equal(t, 1.0, c.TransitionS)
	assert.Equal(t, uint64(9), c.Seed)

	o, err := c.SchedulerOptions()
	require.NoError(t, err)
	assert.Equal(t, sequence.Random, o.Mode)
	assert.Equal(t, surface.Torus, o.Initial)
	assert.Equal(t, float32(2.5), o.Hold)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	c := Default()
	c.Resolution = 33
	c.Sink = "cube"
	require.NoError(t, Save(path, c))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolution: [1,2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"resolution low":      func(c *Config) { c.Resolution = 9 },
		"resolution high":     func(c *Config) { c.Resolution = 1001 },
		"resolution over max": func(c *Config) { c.MaxResolution = 100; c.Resolution = 101 },
		"negative hold":       func(c *Config) { c.FunctionHoldS = -0.5 },
		"negative transition": func(c *Config) { c.TransitionS = -1 },
		"mode":                func(c *Config) { c.TransitionMode = "shuffle" },
		"function":            func(c *Config) { c.InitialFunction = "klein" },
		"workers":             func(c *Config) { c.Workers = -2 },
		"fps":                 func(c *Config) { c.FPS = 0 },
		"sink":                func(c *Config) { c.Sink = "gpu" },
		"cube dims":           func(c *Config) { c.Sink = "cube"; c.Cube.Z = 0 },
		"brightness":          func(c *Config) { c.Brightness = 1.5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			err := c.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidateKeepsValues(t *testing.T) {
	c := Default()
	c.Resolution = 10
	c.FunctionHoldS = 0
	c.TransitionS = 0
	require.NoError(t, c.Validate())
	assert.Equal(t, 10, c.Resolution)
	assert.Zero(t, c.TransitionS)
}

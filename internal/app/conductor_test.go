package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcaluminis-surfaces/internal/config"
	"github.com/coreman2200/arcaluminis-surfaces/internal/layout"
	"github.com/coreman2200/arcaluminis-surfaces/internal/led"
	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

func testConfig(sink string) *config.Config {
	c := config.Default()
	c.Resolution = 10
	c.FunctionHoldS = 0.5
	c.TransitionS = 0.5
	c.Sink = sink
	return c
}

func TestConductorStepFollowsSchedule(t *testing.T) {
	c, err := NewConductor(testConfig("none"))
	require.NoError(t, err)
	assert.Nil(t, c.Hub)

	var states []sequence.State
	c.OnFrame = func(st sequence.State, pts []surface.Point) {
		assert.Len(t, pts, 100)
		states = append(states, st)
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, c.Step(0.5, float32(i)*0.5))
	}
	require.Len(t, states, 8)

	want := []struct {
		current       surface.Name
		transitioning bool
	}{
		{surface.Wave, true},
		{surface.MultiWave, false},
		{surface.MultiWave, true},
		{surface.Ripple, false},
		{surface.Ripple, true},
		{surface.Sphere, false},
		{surface.Sphere, true},
		{surface.Torus, false},
	}
	for i, w := range want {
		assert.Equal(t, w.current, states[i].Current, "frame %d", i)
		assert.Equal(t, w.transitioning, states[i].Transitioning, "frame %d", i)
	}
}

func TestConductorRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("none")
	cfg.Resolution = 5
	_, err := NewConductor(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestConductorRunStopsOnCancel(t *testing.T) {
	cfg := testConfig("none")
	cfg.FPS = 200
	c, err := NewConductor(cfg)
	require.NoError(t, err)

	frames := 0
	c.OnFrame = func(sequence.State, []surface.Point) { frames++ }

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	err = c.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, frames)
}

func TestConductorFeedsHub(t *testing.T) {
	c, err := NewConductor(testConfig("ws"))
	require.NoError(t, err)
	require.NotNil(t, c.Hub)

	require.NoError(t, c.Step(0.25, 0))
	hs := c.Hub.Health()
	assert.Equal(t, "wave", hs.Current)
	assert.Equal(t, 10, hs.Resolution)
	assert.Equal(t, uint64(1), hs.FrameID)
}

func TestConductorSetResolution(t *testing.T) {
	c, err := NewConductor(testConfig("none"))
	require.NoError(t, err)
	require.NoError(t, c.SetResolution(20))

	n := 0
	c.OnFrame = func(_ sequence.State, pts []surface.Point) { n = len(pts) }
	require.NoError(t, c.Step(0.1, 0))
	assert.Equal(t, 400, n)
	assert.Error(t, c.SetResolution(3))
}

type failingSink struct{ err error }

func (f failingSink) Write([]surface.Point) error { return f.err }

func TestFanoutWritesAllAndJoinsErrors(t *testing.T) {
	sim := led.NewSim()
	l := layout.Layout{Dim: layout.Dim{X: 4, Y: 4, Z: 4}}
	cube := led.NewCube(l, sim, led.Power{}, 1)
	boom := errors.New("boom")

	f := fanout{failingSink{boom}, cube}
	err := f.Write([]surface.Point{{X: 0, Y: 0, Z: 0}})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, sim.Frames, "later sinks still receive the frame")
	assert.Equal(t, 1, cube.Lit)
}

func TestConductorStepReportsSinkErrors(t *testing.T) {
	c, err := NewConductor(testConfig("none"))
	require.NoError(t, err)
	boom := errors.New("boom")
	c.Eng.Sink = failingSink{boom}

	assert.ErrorIs(t, c.Step(0.1, 0), boom)
	assert.ErrorIs(t, c.Step(0.1, 0), boom)
	c.Eng.Sink = nil
	require.NoError(t, c.Step(0.1, 0))
	assert.Zero(t, c.failures)
}

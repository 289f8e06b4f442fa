package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cogentcore.org/core/math32"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-surfaces/internal/app"
	"github.com/coreman2200/arcaluminis-surfaces/internal/config"
	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// surfsim runs the schedule headless on a fixed clock and prints one line
// per frame, so timing can be checked without a viewer.
func main() {
	var (
		configPath = flag.String("config", "", "optional config.yaml")
		seconds    = flag.Float64("seconds", 10, "simulated seconds to run")
		fps        = flag.Int("fps", 10, "simulated frames per second")
		resolution = flag.Int("resolution", 0, "grid resolution override")
		mode       = flag.String("mode", "", "transition mode override: cycle | random")
		seed       = flag.Uint64("seed", 1, "random mode seed")
		every      = flag.Int("every", 1, "print every Nth frame")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		cfg = c
	}
	cfg.Sink = "none"
	cfg.Seed = *seed
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if *resolution > 0 {
		cfg.Resolution = *resolution
	}
	if *mode != "" {
		cfg.TransitionMode = *mode
	}

	c, err := app.NewConductor(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup")
	}

	frame := 0
	c.OnFrame = func(st sequence.State, pts []surface.Point) {
		frame++
		if *every > 1 && frame%*every != 0 {
			return
		}
		var box math32.Box3
		box.SetEmpty()
		for _, p := range pts {
			box.ExpandByPoint(p)
		}
		label := st.Current.String()
		if st.Transitioning {
			label = fmt.Sprintf("%s->%s %.2f", st.Current, st.Pending, st.Progress)
		}
		fmt.Printf("%5d  %-24s  min=(%+.3f %+.3f %+.3f) max=(%+.3f %+.3f %+.3f)\n",
			frame, label, box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z)
	}

	dt := float32(1) / float32(cfg.FPS)
	n := int(*seconds * float64(cfg.FPS))
	for i := 1; i <= n; i++ {
		if err := c.Step(dt, float32(i)*dt); err != nil {
			log.Fatal().Err(err).Int("frame", i).Msg("render")
		}
	}
	sampleMS, _, totalMS := c.Last()
	log.Info().Int("frames", n).Float64("sample_ms", sampleMS).Float64("total_ms", totalMS).Msg("done")
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/arcaluminis-surfaces/internal/app"
	"github.com/coreman2200/arcaluminis-surfaces/internal/config"
)

func main() {
	// ---- Flags (set flags win over config.yaml) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		resolution = flag.Int("resolution", 0, "grid resolution (points per side)")
		hold       = flag.Float64("hold", -1, "seconds to hold each function")
		transition = flag.Float64("transition", -1, "seconds to morph between functions")
		mode       = flag.String("mode", "", "transition mode: cycle | random")
		initial    = flag.String("initial", "", "initial function: wave | multiwave | ripple | sphere | torus")
		seed       = flag.Uint64("seed", 0, "random mode seed (0 = time based)")
		workers    = flag.Int("workers", -1, "sampler workers (0 = serial)")
		fps        = flag.Int("fps", 0, "target frames per second")
		sink       = flag.String("sink", "", "output: ws | cube | console | none")
		addr       = flag.String("addr", "", "HTTP listen address")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults and flags")
		cfg = config.Default()
	}

	if *resolution > 0 {
		cfg.Resolution = *resolution
	}
	if *hold >= 0 {
		cfg.FunctionHoldS = *hold
	}
	if *transition >= 0 {
		cfg.TransitionS = *transition
	}
	if *mode != "" {
		cfg.TransitionMode = *mode
	}
	if *initial != "" {
		cfg.InitialFunction = *initial
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if *sink != "" {
		cfg.Sink = *sink
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	c, err := app.NewConductor(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup")
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("close output")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// ---- Render loop ----
	g.Go(func() error {
		if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// ---- HTTP routes ----
	if c.Hub != nil {
		mux := http.NewServeMux()
		c.Hub.Routes(mux)
		srv := &http.Server{
			Addr:         cfg.Addr,
			Handler:      withCORS(mux),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		g.Go(func() error {
			log.Info().Str("addr", cfg.Addr).Str("sink", cfg.Sink).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("stopped")
		return
	}
	log.Info().Msg("shut down")
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}

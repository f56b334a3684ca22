package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/arenaai/internal/ai"
	"github.com/udisondev/arenaai/internal/config"
	"github.com/udisondev/arenaai/internal/render"
)

const (
	ConfigPath = "config/arena.yaml"

	// viewerFPS is the redraw rate of the terminal viewer.
	viewerFPS = 20
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("arena", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "path to the simulation config (default $ARENA_CONFIG or "+ConfigPath+")")
	fast := fs.Bool("fast", false, "run ticks back to back instead of in real time")
	view := fs.Bool("view", false, "show the terminal viewer")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *cfgPath
	if path == "" {
		path = ConfigPath
		if p := os.Getenv("ARENA_CONFIG"); p != "" {
			path = p
		}
	}

	// Load config FIRST to determine log level
	cfg, err := config.LoadSimulation(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	// The viewer owns the terminal; logs are muted until it closes.
	if *view {
		setupLogging(io.Discard, logLevel)
	} else {
		setupLogging(os.Stdout, logLevel)
	}
	ai.SetLogLevel(logLevel)

	slog.Info("config loaded",
		"path", path,
		"seed", cfg.Seed,
		"tick_rate", cfg.TickRate,
		"duration", cfg.Duration,
		"agents", len(cfg.Spawns),
		"archetypes", len(cfg.Archetypes))

	m, err := newMatch(cfg)
	if err != nil {
		return fmt.Errorf("building match: %w", err)
	}

	var screen tcell.Screen
	if *view {
		screen, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("initializing screen: %w", err)
		}
		m.attachViewer(screen)
	}

	err = play(ctx, m, *fast)

	if screen != nil {
		screen.Fini()
		setupLogging(os.Stdout, logLevel)
	}
	if err != nil {
		return err
	}

	m.logSummary()

	if cfg.RecordResults {
		if err := recordMatch(ctx, cfg.Database.DSN(), m); err != nil {
			return fmt.Errorf("recording match: %w", err)
		}
	}
	return nil
}

// play runs the simulation and, when attached, the viewer until the match
// ends, the duration elapses, the viewer is closed or ctx is canceled.
func play(ctx context.Context, m *match, fast bool) error {
	g, gctx := errgroup.WithContext(ctx)

	// Closing the viewer ends the match; the end of the match closes the viewer.
	simCtx, stopSim := context.WithCancel(gctx)
	defer stopSim()
	viewCtx, stopView := context.WithCancel(gctx)
	defer stopView()

	g.Go(func() error {
		defer stopView()
		return m.simulate(simCtx, fast)
	})

	if m.viewer != nil {
		g.Go(func() error {
			err := m.viewer.Run(viewCtx, time.Second/viewerFPS, m.frame)
			if errors.Is(err, render.ErrQuit) {
				stopSim()
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func setupLogging(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}

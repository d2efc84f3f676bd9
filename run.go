package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/game"
	"github.com/iburimskiy/hand-particles/internal/sim"
	"github.com/iburimskiy/hand-particles/internal/sonify"
	"github.com/iburimskiy/hand-particles/internal/source"
	"github.com/iburimskiy/hand-particles/internal/telemetry"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the particle window",
	Long: `Opens the particle window. Drag with the left mouse button to repel, the right
button to attract and shift+left to stretch the swarm with two hands. Optional
producers replay a trace file or listen on a Redis channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		return runWindow(cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("particles", config.DefaultParticleCount, "Number of particles")
	runCmd.Flags().Int64("seed", 0, "Random seed for particle placement (0 picks one)")
	runCmd.Flags().String("trace", "", "Landmark trace (JSON Lines) to replay at startup")
	runCmd.Flags().Bool("loop", false, "Replay traces until the window closes")
	runCmd.Flags().String("redis-addr", "", "Redis address to receive landmark frames from")
	runCmd.Flags().String("redis-channel", config.DefaultRedisChannel, "Redis channel carrying landmark frames")
	runCmd.Flags().String("telemetry-addr", "", "Listen address of the telemetry HTTP server (empty disables it)")
	runCmd.Flags().Bool("audio", false, "Play the sonification hum")
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Simulation.Particles, _ = flags.GetInt("particles")
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("trace") {
		cfg.Trace.Path, _ = flags.GetString("trace")
	}
	if flags.Changed("loop") {
		cfg.Trace.Loop, _ = flags.GetBool("loop")
	}
	if flags.Changed("redis-addr") {
		cfg.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("redis-channel") {
		cfg.Redis.Channel, _ = flags.GetString("redis-channel")
	}
	if flags.Changed("telemetry-addr") {
		cfg.Telemetry.Addr, _ = flags.GetString("telemetry-addr")
	}
	if flags.Changed("audio") {
		cfg.Audio.Enabled, _ = flags.GetBool("audio")
	}
}

// runWindow runs the game on the calling goroutine and every producer and
// server on an errgroup. Closing the window, a signal or a failing background
// service stops everything.
func runWindow(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	driver, err := sim.New(cfg.Simulation, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	eg, egCtx := errgroup.WithContext(ctx)

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithLoop(cfg.Trace.Loop),
		game.WithWindowSize(cfg.Window.Width, cfg.Window.Height),
	}
	if cfg.Audio.Enabled {
		out, err := sonify.Start(driver, config.VisualRingSize, logger)
		if err != nil {
			logger.Warn("audio unavailable, continuing without sound", "error", err)
		} else {
			defer out.Close()
			opts = append(opts, game.WithAudio(out))
		}
	}
	g := game.New(egCtx, driver, opts...)

	if cfg.Trace.Path != "" {
		frames, err := source.LoadTrace(cfg.Trace.Path)
		if err != nil {
			return err
		}
		g.PlayTrace(cfg.Trace.Path, frames)
	}

	if cfg.Redis.Addr != "" {
		sub := source.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel, logger)
		eg.Go(func() error {
			defer sub.Close()
			return sub.Run(egCtx, driver)
		})
	}
	if cfg.Telemetry.Addr != "" {
		srv := telemetry.NewServer(cfg.Telemetry.Addr, telemetry.NewHandler(driver, g.FPS), logger)
		eg.Go(func() error {
			return srv.Run(egCtx)
		})
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	runErr := ebiten.RunGame(g)
	if errors.Is(runErr, ebiten.Termination) {
		runErr = nil
	}

	cancel()
	g.Close()
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("background service: %w", err)
	}
	return runErr
}

// Package main is the entry point for Totemfall.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/internal/config"
	"github.com/Faultbox/totemfall/internal/logger"
	"github.com/Faultbox/totemfall/internal/match"
	"github.com/Faultbox/totemfall/internal/terrain"
	"github.com/Faultbox/totemfall/internal/tui"
)

// botMinutes bounds a headless run when no frame limit is configured.
const botMinutes = 5

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// The terminal view owns stdout, so only the bot logs to the console.
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Debug.Bot); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Totemfall ===", zap.String("config", cfg.Source))
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("game error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("game closed normally")
}

func run(ctx context.Context, cfg *config.Config) error {
	terr, err := terrain.NewGrid(cfg.WorldSize(), cfg.World.Cells,
		terrain.Rolling(cfg.World.Amplitude, cfg.World.Wavelength))
	if err != nil {
		return fmt.Errorf("building terrain: %w", err)
	}

	mc := match.Config{
		Level:     cfg.Match.Level,
		Seed:      cfg.Match.Seed,
		Flight:    cfg.Debug.Flight,
		MaxFrames: cfg.Match.MaxFrames,
	}

	if cfg.Debug.Bot {
		return runBot(ctx, cfg, mc, terr)
	}
	return runTerminal(ctx, cfg, mc, terr)
}

func runBot(ctx context.Context, cfg *config.Config, mc match.Config, terr *terrain.Terrain) error {
	if mc.MaxFrames == 0 {
		mc.MaxFrames = botMinutes * 60 * cfg.Match.FrameRate
	}

	sess, err := match.New(mc, terr, match.Deps{
		HUD: collab.NewLogHUD(logger.Named("hud")),
		Log: logger.Named("match"),
	})
	if err != nil {
		return err
	}

	bot := match.NewBot()
	outcome, err := sess.Run(ctx, match.Fixed{
		DT:    1 / float32(cfg.Match.FrameRate),
		Input: bot.Intents,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("bot run finished",
		zap.Stringer("outcome", outcome),
		zap.Int("score", sess.Score()),
		zap.Int("frames", sess.Frames()))
	return nil
}

func runTerminal(ctx context.Context, cfg *config.Config, mc match.Config, terr *terrain.Terrain) error {
	bindings, err := cfg.Bindings()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	view := tui.NewView(screen, cfg.Display.Scale)
	sess, err := match.New(mc, terr, match.Deps{
		HUD: view,
		Log: logger.Named("match"),
	})
	if err != nil {
		return err
	}

	src := tui.NewSource(screen, view, tui.NewKeys(bindings, cfg.Display.HoldFrames), cfg.Match.FrameRate)
	defer src.Stop()

	outcome, err := sess.Run(ctx, src)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if outcome != match.Running {
		// Leave the banner up for a moment.
		view.Draw(sess)
		select {
		case <-ctx.Done():
		case <-time.After(2 * time.Second):
		}
	}

	logger.Info("match over",
		zap.Stringer("outcome", outcome),
		zap.Int("score", sess.Score()),
		zap.Int("frames", sess.Frames()))
	return nil
}

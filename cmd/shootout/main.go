package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"

	"penaltyshot/internal/audio"
	"penaltyshot/internal/config"
	"penaltyshot/internal/shared/logger"
	"penaltyshot/internal/shared/types"
)

type silent struct{}

func (silent) Play(types.EventType) {}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shootout:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(getEnv("SHOOTOUT_CONFIG", ""))
	if err != nil {
		return err
	}

	// The screen owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.NewWithWriter(logOut, "shootout", cfg.Log.Level)

	var cues cuePlayer = silent{}
	if cfg.Audio.Enabled {
		player := audio.NewPlayer()
		if err := player.Init(); err != nil {
			// Non-fatal, the game runs without sound.
			log.Warn().Err(err).Msg("audio unavailable")
		} else {
			defer player.Close()
			cues = player
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseDragEvents)
	screen.HideCursor()

	g, err := newGame(screen, cfg.Tuning, cues, log)
	if err != nil {
		return err
	}
	defer g.close()

	g.run()
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

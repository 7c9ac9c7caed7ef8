package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"penaltyshot/internal/arena"
	"penaltyshot/internal/shared/types"
	"penaltyshot/internal/simulation"
	"penaltyshot/internal/tui"
)

const frameInterval = 16 * time.Millisecond

// cuePlayer plays the sound for an outcome event.
type cuePlayer interface {
	Play(ev types.EventType)
}

type game struct {
	screen   tcell.Screen
	renderer *tui.Renderer
	tuning   simulation.Tuning
	session  *simulation.Session
	drag     tui.DragTracker
	cues     cuePlayer
	log      zerolog.Logger

	splash bool
	snap   types.Snapshot
	last   time.Time
}

func newGame(screen tcell.Screen, tuning simulation.Tuning, cues cuePlayer, log zerolog.Logger) (*game, error) {
	g := &game{
		screen:   screen,
		renderer: tui.NewRenderer(screen),
		tuning:   tuning,
		cues:     cues,
		log:      log,
		splash:   true,
	}
	if err := g.newSession(); err != nil {
		return nil, err
	}
	return g, nil
}

// newSession starts a game sized to the current terminal.
func (g *game) newSession() error {
	w, h := g.renderer.Viewport().FieldSize()
	s, err := simulation.NewSession(arena.NextID("local"), w, h, g.tuning, simulation.WithLogger(g.log))
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	if g.session != nil {
		g.session.Close()
	}
	g.session = s
	g.snap = s.Snapshot()
	g.log.Info().Str("session", s.ID()).Float64("width", w).Float64("height", h).Msg("session started")
	return nil
}

// handleInput returns false when the player quits.
func (g *game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			return false
		}
	case *tcell.EventMouse:
		if g.splash {
			if ev.Buttons()&tcell.Button1 != 0 {
				g.splash = false
			}
			return true
		}
		gesture, ok := g.drag.Handle(ev, g.renderer.Viewport())
		if !ok {
			return true
		}
		if shot, accepted := g.session.Release(gesture); accepted {
			g.log.Debug().Float64("power", shot.Power).Float64("aim_x", shot.AimX).Msg("shot")
		}
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Resize()
		g.drag.Cancel()
		if err := g.newSession(); err != nil {
			g.log.Error().Err(err).Msg("resize")
			return false
		}
	}
	return true
}

// step advances the session by the wall time since the previous frame.
func (g *game) step(now time.Time) {
	dt := frameInterval.Seconds()
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	g.snap = g.session.Tick(dt)
	if g.snap.Event != types.EventNone {
		g.cues.Play(g.snap.Event)
	}
}

func (g *game) draw() {
	var aim *types.Gesture
	if cur, ok := g.drag.Current(); ok {
		aim = &cur
	}
	g.renderer.Draw(g.snap, aim, g.splash)
}

func (g *game) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			g.step(now)
			g.draw()
		}
	}
}

func (g *game) close() {
	g.session.Close()
}

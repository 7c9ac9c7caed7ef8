package simulation

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"penaltyshot/internal/shared/types"
)

// Phase is the shot lifecycle of a session.
type Phase uint8

const (
	PhaseReady Phase = iota
	PhaseInFlight
	PhaseResolved
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseInFlight:
		return "in_flight"
	case PhaseResolved:
		return "resolved"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const (
	MessageGoal = "GOAL!"
	MessageSave = "Saved by the keeper!"
	MessageMiss = "So close..."
	MessageWin  = "You win!"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a logger; sessions are silent by default.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// Session owns one game: the ball, keeper, goal, score and the deferred
// resets between shots. Tick and Release are serialised by the session lock,
// so a gesture never lands in the middle of a step.
type Session struct {
	mu sync.RWMutex

	id     string
	log    zerolog.Logger
	tuning Tuning
	field  Field
	goal   Goal
	ball   Ball
	keeper Keeper

	score   int
	phase   Phase
	round   uint64
	tick    uint64
	clock   float64
	message string

	sched Scheduler
}

// NewSession creates a game on a width x height field with the ball resting
// at the shooter's spot.
func NewSession(id string, width, height float64, t Tuning, opts ...Option) (*Session, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	f, err := NewField(width, height, t)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	s := &Session{
		id:     id,
		log:    zerolog.Nop(),
		tuning: t,
		field:  f,
		goal:   newGoal(f, t),
		ball:   restingBall(f, t),
		keeper: newKeeper(f, t),
		phase:  PhaseReady,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", id).Logger()
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Release interprets a completed drag. It returns false, leaving the ball
// untouched, when the drag started outside the shoot zone or the session is
// not ready for a shot (ball in flight, reset pending, win on display, closed).
func (s *Session) Release(g types.Gesture) (Shot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady || s.ball.Shooting || s.score >= s.tuning.ScoreToWin {
		return Shot{}, false
	}
	shot, ok := InterpretGesture(g.Start, g.End, s.ball.X, s.field, s.tuning)
	if !ok {
		return Shot{}, false
	}

	s.round++
	ApplyShot(&s.ball, shot)
	s.keeper.Committed = false
	s.phase = PhaseInFlight

	s.log.Debug().
		Uint64("round", s.round).
		Float64("power", shot.Power).
		Float64("aim_x", shot.AimX).
		Msg("shot released")
	return shot, true
}

// Tick advances the session by dt seconds and returns the resulting snapshot
// with at most one event. dt is clamped to [0, MaxStep].
func (s *Session) Tick(dt float64) types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return s.snapshotLocked(types.EventNone)
	}

	dt = clampStep(dt, s.tuning.MaxStep)
	s.tick++
	s.clock += dt
	s.runDeferredLocked()

	event := types.EventNone
	Integrate(&s.ball, dt, s.tuning)
	UpdateKeeper(&s.keeper, s.ball, s.goal, s.field, s.clock, dt, s.tuning)

	if s.ball.Shooting {
		if outcome := ResolveShot(s.ball, s.keeper, s.goal, s.field, s.tuning); outcome != OutcomeNone {
			event = s.resolveLocked(outcome)
		} else if OutOfPlay(s.ball, s.field, s.tuning) {
			s.log.Debug().
				Uint64("round", s.round).
				Float64("x", s.ball.X).
				Float64("depth", s.ball.Depth).
				Msg("ball out of play")
			s.setMessageLocked(MessageMiss, s.tuning.MissMessageDuration)
			s.resetBallLocked()
			event = types.EventMiss
		}
	}

	return s.snapshotLocked(event)
}

// Snapshot returns the current state without advancing it.
func (s *Session) Snapshot() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(types.EventNone)
}

// ResetBall returns the ball to the shooter's spot and the keeper to idle.
// Calling it repeatedly yields the same resting state.
func (s *Session) ResetBall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.CancelKind(DeferredResetBall)
	s.resetBallLocked()
}

// OnGoal adds a goal and reports whether the win condition was reached.
func (s *Session) OnGoal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onGoalLocked()
}

// OnWin schedules the score reset after the win display delay.
func (s *Session) OnWin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onWinLocked()
}

// ResetScore clears the score immediately.
func (s *Session) ResetScore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.CancelKind(DeferredResetScore)
	s.score = 0
}

// Close cancels pending deferred work. A closed session ignores ticks and
// gestures.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClosed {
		return
	}
	s.sched.Clear()
	s.phase = PhaseClosed
	s.log.Debug().Uint64("tick", s.tick).Int("score", s.score).Msg("session closed")
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase == PhaseClosed
}

func (s *Session) resolveLocked(outcome Outcome) types.EventType {
	s.ball.Shooting = false
	s.ball.VX = 0
	s.ball.VY = 0
	s.ball.DepthVel = 0
	s.phase = PhaseResolved

	event := outcome.Event()
	switch outcome {
	case OutcomeSave:
		s.setMessageLocked(MessageSave, s.tuning.SaveMessageDuration)
	case OutcomeGoal:
		if s.onGoalLocked() {
			event = types.EventWin
			s.onWinLocked()
			s.setMessageLocked(MessageWin, s.tuning.WinMessageDuration)
		} else {
			s.setMessageLocked(MessageGoal, s.tuning.GoalMessageDuration)
		}
	case OutcomeMiss:
		s.setMessageLocked(MessageMiss, s.tuning.MissMessageDuration)
	}

	s.sched.Schedule(DeferredResetBall, s.clock+s.tuning.ResetDelay, s.round)
	s.log.Info().
		Uint64("round", s.round).
		Str("outcome", string(event)).
		Int("score", s.score).
		Float64("ball_x", s.ball.X).
		Float64("keeper_x", s.keeper.X).
		Msg("shot resolved")
	return event
}

func (s *Session) onGoalLocked() bool {
	if s.score < s.tuning.ScoreToWin {
		s.score++
	}
	return s.score >= s.tuning.ScoreToWin
}

func (s *Session) onWinLocked() {
	s.sched.CancelKind(DeferredResetScore)
	s.sched.Schedule(DeferredResetScore, s.clock+s.tuning.WinDisplayDelay, s.round)
}

func (s *Session) resetBallLocked() {
	s.ball = restingBall(s.field, s.tuning)
	resetKeeper(&s.keeper, s.field)
	if s.phase != PhaseClosed {
		s.phase = PhaseReady
	}
}

func (s *Session) setMessageLocked(text string, duration float64) {
	s.message = text
	s.sched.CancelKind(DeferredClearMessage)
	s.sched.Schedule(DeferredClearMessage, s.clock+duration, s.round)
}

func (s *Session) runDeferredLocked() {
	for _, d := range s.sched.PopDue(s.clock) {
		switch d.Kind {
		case DeferredResetBall:
			// A reset from an earlier round must not disturb the current shot.
			if d.Round != s.round || s.phase != PhaseResolved {
				continue
			}
			s.resetBallLocked()
		case DeferredResetScore:
			s.score = 0
			s.log.Debug().Msg("score reset")
		case DeferredClearMessage:
			s.message = ""
		}
	}
}

func (s *Session) snapshotLocked(event types.EventType) types.Snapshot {
	return types.Snapshot{
		SessionID: s.id,
		Tick:      s.tick,
		Clock:     s.clock,
		Round:     s.round,
		Phase:     s.phase.String(),
		Field: types.FieldView{
			Width:     s.field.Width,
			Height:    s.field.Height,
			HorizonY:  s.field.HorizonY,
			GoalLineY: s.field.GoalLineY,
		},
		Ball: Project(s.ball, s.field, s.tuning),
		Keeper: types.KeeperView{
			X:             s.keeper.X,
			Y:             s.keeper.Y,
			State:         s.keeper.State.String(),
			DiveTimer:     s.keeper.DiveTimer,
			PredictedX:    s.keeper.PredictedX,
			HasPrediction: s.keeper.HasPrediction,
		},
		Goal: types.GoalView{
			CenterX: s.goal.CenterX,
			Top:     s.goal.Top,
			Width:   s.goal.Width,
			Height:  s.goal.Height,
		},
		Score: types.ScoreView{
			Goals:      s.score,
			ScoreToWin: s.tuning.ScoreToWin,
		},
		Message: s.message,
		Event:   event,
	}
}

package simulation

import (
	"errors"
	"fmt"
)

// ErrInvalidField is returned for non-positive field dimensions.
var ErrInvalidField = errors.New("invalid field")

// KeeperState is the goalkeeper FSM state. Tracking happens inside idle.
type KeeperState uint8

const (
	KeeperIdle KeeperState = iota
	KeeperDiving
)

func (s KeeperState) String() string {
	if s == KeeperDiving {
		return "diving"
	}
	return "idle"
}

// Field is the play area in field units with its derived layout lines.
type Field struct {
	Width     float64
	Height    float64
	HorizonY  float64
	GoalLineY float64
	RestX     float64
	RestY     float64
	KeeperY   float64
}

// NewField derives the layout for a width x height play area.
func NewField(width, height float64, t Tuning) (Field, error) {
	if !(width > 0) || !(height > 0) {
		return Field{}, fmt.Errorf("%w: %vx%v", ErrInvalidField, width, height)
	}
	horizon := height * t.HorizonFraction
	return Field{
		Width:     width,
		Height:    height,
		HorizonY:  horizon,
		GoalLineY: horizon + t.GoalLineOffset,
		RestX:     width / 2,
		RestY:     height - t.BallRestOffset,
		KeeperY:   horizon + t.GoalHeight,
	}, nil
}

// GoalDepth is the depth past which a shot is adjudicated.
func (f Field) GoalDepth(t Tuning) float64 {
	return f.Height * t.GoalDepthFraction
}

// ShootZoneX is the left edge of the region where drags count as shots.
func (f Field) ShootZoneX(t Tuning) float64 {
	return f.Width * t.ShootZoneFraction
}

// Ball is the shot ball. Depth is the simulated distance into the field.
type Ball struct {
	X, Y     float64
	VX, VY   float64
	Depth    float64
	DepthVel float64
	Radius   float64
	Shooting bool
}

// Keeper is the goalkeeper at the goal line.
type Keeper struct {
	X            float64
	Y            float64
	Speed        float64
	State        KeeperState
	DiveTimer    float64
	DiveDuration float64
	// Committed is set once the keeper has dived for the current shot.
	Committed     bool
	PredictedX    float64
	HasPrediction bool
}

// Goal is the target rectangle on the horizon.
type Goal struct {
	CenterX float64
	Top     float64
	Width   float64
	Height  float64
}

// Contains reports whether x lies within the goal mouth.
func (g Goal) Contains(x float64) bool {
	d := x - g.CenterX
	if d < 0 {
		d = -d
	}
	return d <= g.Width/2
}

func newGoal(f Field, t Tuning) Goal {
	return Goal{
		CenterX: f.Width / 2,
		Top:     f.HorizonY,
		Width:   t.GoalWidth,
		Height:  t.GoalHeight,
	}
}

func restingBall(f Field, t Tuning) Ball {
	return Ball{X: f.RestX, Y: f.RestY, Radius: t.BallRadius}
}

func newKeeper(f Field, t Tuning) Keeper {
	return Keeper{
		X:            f.Width / 2,
		Y:            f.KeeperY,
		Speed:        t.KeeperSpeed,
		State:        KeeperIdle,
		DiveDuration: t.DiveDuration,
	}
}

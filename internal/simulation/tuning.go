package simulation

import (
	"errors"
	"fmt"
)

// ErrInvalidTuning is wrapped by Tuning.Validate failures.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds every tunable constant of the simulation. Distances are in
// field units (screen pixels of the reference layout), times in seconds.
type Tuning struct {
	// input
	ShootZoneFraction float64 `mapstructure:"shootZoneFraction"`
	PowerDivisor      float64 `mapstructure:"powerDivisor"`
	MinPower          float64 `mapstructure:"minPower"`
	MaxPower          float64 `mapstructure:"maxPower"`
	AimGain           float64 `mapstructure:"aimGain"`
	LaunchSpeed       float64 `mapstructure:"launchSpeed"`
	DepthSpeed        float64 `mapstructure:"depthSpeed"`

	// physics
	DragBase        float64 `mapstructure:"dragBase"`
	DragReferenceHz float64 `mapstructure:"dragReferenceHz"`
	MaxStep         float64 `mapstructure:"maxStep"`
	StallSpeed      float64 `mapstructure:"stallSpeed"`

	// resolution
	GoalDepthFraction float64 `mapstructure:"goalDepthFraction"`
	SaveRange         float64 `mapstructure:"saveRange"`
	ResetDelay        float64 `mapstructure:"resetDelay"`
	WinDisplayDelay   float64 `mapstructure:"winDisplayDelay"`
	ScoreToWin        int     `mapstructure:"scoreToWin"`

	// keeper
	KeeperSpeed       float64 `mapstructure:"keeperSpeed"`
	TrackMinVY        float64 `mapstructure:"trackMinVY"`
	DiveWindow        float64 `mapstructure:"diveWindow"`
	DiveReach         float64 `mapstructure:"diveReach"`
	DiveDuration      float64 `mapstructure:"diveDuration"`
	TrackCenterFactor float64 `mapstructure:"trackCenterFactor"`
	IdleCenterFactor  float64 `mapstructure:"idleCenterFactor"`
	BobAmplitude      float64 `mapstructure:"bobAmplitude"`
	BobPeriod         float64 `mapstructure:"bobPeriod"`

	// layout
	HorizonFraction float64 `mapstructure:"horizonFraction"`
	GoalLineOffset  float64 `mapstructure:"goalLineOffset"`
	GoalWidth       float64 `mapstructure:"goalWidth"`
	GoalHeight      float64 `mapstructure:"goalHeight"`
	BallRadius      float64 `mapstructure:"ballRadius"`
	BallRestOffset  float64 `mapstructure:"ballRestOffset"`

	// projection
	PerspectiveSpan   float64 `mapstructure:"perspectiveSpan"`
	PerspectiveLimit  float64 `mapstructure:"perspectiveLimit"`
	PerspectiveShrink float64 `mapstructure:"perspectiveShrink"`
	MinDrawRadius     float64 `mapstructure:"minDrawRadius"`
	ShadowBaseOffset  float64 `mapstructure:"shadowBaseOffset"`
	ShadowHorizonPad  float64 `mapstructure:"shadowHorizonPad"`

	// messages
	GoalMessageDuration float64 `mapstructure:"goalMessageDuration"`
	SaveMessageDuration float64 `mapstructure:"saveMessageDuration"`
	MissMessageDuration float64 `mapstructure:"missMessageDuration"`
	WinMessageDuration  float64 `mapstructure:"winMessageDuration"`
}

// DefaultTuning returns the reference game feel.
func DefaultTuning() Tuning {
	return Tuning{
		ShootZoneFraction: 0.35,
		PowerDivisor:      250,
		MinPower:          0.08,
		MaxPower:          1.6,
		AimGain:           3.5,
		LaunchSpeed:       400,
		DepthSpeed:        480,

		DragBase:        0.995,
		DragReferenceHz: 60,
		MaxStep:         0.05,
		StallSpeed:      12,

		GoalDepthFraction: 0.55,
		SaveRange:         70,
		ResetDelay:        0.8,
		WinDisplayDelay:   2.0,
		ScoreToWin:        5,

		KeeperSpeed:       300,
		TrackMinVY:        10,
		DiveWindow:        0.6,
		DiveReach:         90,
		DiveDuration:      0.45,
		TrackCenterFactor: 0.3,
		IdleCenterFactor:  0.2,
		BobAmplitude:      6,
		BobPeriod:         4.4,

		HorizonFraction: 0.22,
		GoalLineOffset:  10,
		GoalWidth:       320,
		GoalHeight:      140,
		BallRadius:      26,
		BallRestOffset:  120,

		PerspectiveSpan:   0.6,
		PerspectiveLimit:  0.98,
		PerspectiveShrink: 0.6,
		MinDrawRadius:     6,
		ShadowBaseOffset:  48,
		ShadowHorizonPad:  60,

		GoalMessageDuration: 1.2,
		SaveMessageDuration: 0.9,
		MissMessageDuration: 0.9,
		WinMessageDuration:  1.4,
	}
}

// Validate rejects values that would break the simulation invariants.
func (t Tuning) Validate() error {
	positive := map[string]float64{
		"powerDivisor":      t.PowerDivisor,
		"maxStep":           t.MaxStep,
		"dragReferenceHz":   t.DragReferenceHz,
		"goalDepthFraction": t.GoalDepthFraction,
		"diveDuration":      t.DiveDuration,
		"keeperSpeed":       t.KeeperSpeed,
		"bobPeriod":         t.BobPeriod,
		"goalWidth":         t.GoalWidth,
		"ballRadius":        t.BallRadius,
		"perspectiveSpan":   t.PerspectiveSpan,
	}
	for name, v := range positive {
		if !(v > 0) {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidTuning, name, v)
		}
	}
	if t.MinPower <= 0 || t.MaxPower < t.MinPower {
		return fmt.Errorf("%w: power range [%v, %v]", ErrInvalidTuning, t.MinPower, t.MaxPower)
	}
	if t.DragBase <= 0 || t.DragBase > 1 {
		return fmt.Errorf("%w: dragBase must be in (0, 1], got %v", ErrInvalidTuning, t.DragBase)
	}
	if t.ShootZoneFraction < 0 || t.ShootZoneFraction >= 1 {
		return fmt.Errorf("%w: shootZoneFraction must be in [0, 1), got %v", ErrInvalidTuning, t.ShootZoneFraction)
	}
	if t.HorizonFraction < 0 || t.HorizonFraction >= 1 {
		return fmt.Errorf("%w: horizonFraction must be in [0, 1), got %v", ErrInvalidTuning, t.HorizonFraction)
	}
	if t.ScoreToWin < 1 {
		return fmt.Errorf("%w: scoreToWin must be >= 1, got %d", ErrInvalidTuning, t.ScoreToWin)
	}
	if t.ResetDelay < 0 || t.WinDisplayDelay < 0 {
		return fmt.Errorf("%w: delays must be >= 0", ErrInvalidTuning)
	}
	return nil
}

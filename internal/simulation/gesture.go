package simulation

import "penaltyshot/internal/shared/types"

// Shot is the launch derived from a released drag.
type Shot struct {
	AimX     float64
	Power    float64
	VX       float64
	VY       float64
	DepthVel float64
}

// InterpretGesture turns a drag into a shot. It returns false for drags that
// did not start inside the shoot zone. Flat or downward drags still shoot at
// minimum power.
func InterpretGesture(start, end types.Point, ballX float64, f Field, t Tuning) (Shot, bool) {
	if !finite(start.X) || !finite(start.Y) || !finite(end.X) || !finite(end.Y) {
		return Shot{}, false
	}
	if start.X <= f.ShootZoneX(t) {
		return Shot{}, false
	}

	dx := end.X - start.X
	dy := end.Y - start.Y
	aimX := f.Width/2 + dx
	power := Clamp(-dy/t.PowerDivisor, t.MinPower, t.MaxPower)

	return Shot{
		AimX:     aimX,
		Power:    power,
		VX:       (aimX - ballX) * t.AimGain,
		VY:       -t.LaunchSpeed * power,
		DepthVel: t.DepthSpeed * power,
	}, true
}

// ApplyShot puts the ball in flight.
func ApplyShot(b *Ball, s Shot) {
	b.VX = s.VX
	b.VY = s.VY
	b.DepthVel = s.DepthVel
	b.Shooting = true
}

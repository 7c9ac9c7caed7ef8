package simulation

import "math"

// DragFactor is the per-step velocity multiplier, normalised so the decay
// over one second is the same for any step size.
func DragFactor(dt float64, t Tuning) float64 {
	return math.Pow(t.DragBase, dt*t.DragReferenceHz)
}

// Integrate advances a ball in flight by dt. Resting balls are untouched.
func Integrate(b *Ball, dt float64, t Tuning) {
	if !b.Shooting || dt <= 0 {
		return
	}

	b.X += b.VX * dt
	b.Y += b.VY * dt
	b.Depth += b.DepthVel * dt

	drag := DragFactor(dt, t)
	b.VX *= drag
	b.VY *= drag
	b.DepthVel *= drag
}

// OutOfPlay reports a ball that can no longer reach goal depth: it left the
// field rectangle or its forward speed decayed below the stall threshold.
func OutOfPlay(b Ball, f Field, t Tuning) bool {
	if !b.Shooting {
		return false
	}
	if b.X < -b.Radius || b.X > f.Width+b.Radius {
		return true
	}
	if b.Y < -b.Radius || b.Y > f.Height+b.Radius {
		return true
	}
	return b.DepthVel < t.StallSpeed && b.Depth <= f.GoalDepth(t)
}

func clampStep(dt, maxStep float64) float64 {
	if !finite(dt) || dt < 0 {
		return 0
	}
	if dt > maxStep {
		return maxStep
	}
	return dt
}

package simulation

import "math"

// PredictCrossing estimates when and where the ball reaches the goal line.
// ok is false when the ball is not heading toward goal fast enough for the
// estimate to be meaningful.
func PredictCrossing(b Ball, f Field, t Tuning) (tToGoal, predX float64, ok bool) {
	if !b.Shooting || !(b.VY < -t.TrackMinVY) {
		return 0, 0, false
	}
	tToGoal = (b.Y - f.GoalLineY) / -b.VY
	predX = b.X + b.VX*tToGoal
	if !finite(tToGoal) || !finite(predX) {
		return 0, 0, false
	}
	return tToGoal, predX, true
}

// UpdateKeeper runs one tick of the goalkeeper AI. clock is the session time
// in seconds and drives the idle bob.
func UpdateKeeper(k *Keeper, b Ball, g Goal, f Field, clock, dt float64, t Tuning) {
	if dt <= 0 {
		return
	}

	switch {
	case b.Shooting:
		tToGoal, predX, ok := PredictCrossing(b, f, t)
		if !ok {
			k.HasPrediction = false
			k.X = approach(k.X, g.CenterX, k.Speed*dt*t.TrackCenterFactor)
			break
		}
		k.PredictedX = predX
		k.HasPrediction = true
		k.X = approach(k.X, predX, k.Speed*dt)

		// One dive per shot.
		if !k.Committed && k.State == KeeperIdle &&
			tToGoal < t.DiveWindow && math.Abs(predX-k.X) < t.DiveReach {
			k.State = KeeperDiving
			k.DiveTimer = k.DiveDuration
			k.Committed = true
		}
	default:
		k.HasPrediction = false
		k.X += math.Sin(2*math.Pi*clock/t.BobPeriod) * t.BobAmplitude * dt
		k.X = approach(k.X, g.CenterX, k.Speed*dt*t.IdleCenterFactor)
	}

	tickDive(k, dt)
}

func tickDive(k *Keeper, dt float64) {
	if k.State != KeeperDiving {
		k.DiveTimer = 0
		return
	}
	k.DiveTimer -= dt
	if k.DiveTimer <= 0 {
		k.DiveTimer = 0
		k.State = KeeperIdle
	}
}

func resetKeeper(k *Keeper, f Field) {
	k.Y = f.KeeperY
	k.State = KeeperIdle
	k.DiveTimer = 0
	k.Committed = false
	k.HasPrediction = false
	k.PredictedX = 0
}

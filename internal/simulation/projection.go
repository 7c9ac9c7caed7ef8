package simulation

import "penaltyshot/internal/shared/types"

// Project fills the perspective fields of a ball view: the ball shrinks and
// its ground shadow slides toward the horizon as depth grows.
func Project(b Ball, f Field, t Tuning) types.BallView {
	span := f.Height * t.PerspectiveSpan

	depthT := Clamp(b.Depth/span, 0, t.PerspectiveLimit)
	scale := 1 - t.PerspectiveShrink*depthT
	drawRadius := b.Radius * scale
	if drawRadius < t.MinDrawRadius {
		drawRadius = t.MinDrawRadius
	}

	shadowT := Clamp(b.Depth/span, 0, 1)
	shadowY := Lerp(f.Height-t.ShadowBaseOffset, f.HorizonY+t.ShadowHorizonPad-t.ShadowBaseOffset, shadowT)
	shadowRadius := (b.Radius / 1.6) * (1 - t.PerspectiveShrink*shadowT)

	return types.BallView{
		X:            b.X,
		Y:            b.Y,
		VX:           b.VX,
		VY:           b.VY,
		Depth:        b.Depth,
		DepthVel:     b.DepthVel,
		Radius:       b.Radius,
		Shooting:     b.Shooting,
		Scale:        scale,
		DrawRadius:   drawRadius,
		ShadowX:      b.X,
		ShadowY:      shadowY,
		ShadowRadius: shadowRadius,
	}
}

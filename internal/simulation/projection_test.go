package simulation

import "testing"

func TestProjectAtRest(t *testing.T) {
	tun := DefaultTuning()
	f := testField(t)
	v := Project(restingBall(f, tun), f, tun)

	if v.Scale != 1 || v.DrawRadius != 26 {
		t.Fatalf("expected full size at rest, got scale=%f radius=%f", v.Scale, v.DrawRadius)
	}
	if !almost(v.ShadowY, 352) || !almost(v.ShadowRadius, 16.25) {
		t.Fatalf("unexpected shadow at rest: y=%f r=%f", v.ShadowY, v.ShadowRadius)
	}
	if v.ShadowX != v.X {
		t.Fatal("expected shadow under the ball")
	}
}

func TestProjectMidFlight(t *testing.T) {
	tun := DefaultTuning()
	f := testField(t)
	b := Ball{X: 300, Y: 200, Depth: 120, Radius: 26, Shooting: true}
	v := Project(b, f, tun)

	if !almost(v.Scale, 0.7) || !almost(v.DrawRadius, 18.2) {
		t.Fatalf("unexpected scale: %+v", v)
	}
	if !almost(v.ShadowY, 226) || !almost(v.ShadowRadius, 11.375) {
		t.Fatalf("unexpected shadow: %+v", v)
	}
}

func TestProjectShrinksMonotonically(t *testing.T) {
	tun := DefaultTuning()
	f := testField(t)
	prev := Project(Ball{Radius: 26}, f, tun)
	for depth := 10.0; depth < 2000; depth += 10 {
		v := Project(Ball{Radius: 26, Depth: depth}, f, tun)
		if v.Scale > prev.Scale || v.ShadowY > prev.ShadowY {
			t.Fatalf("expected shrink with depth at %f: prev=%+v got=%+v", depth, prev, v)
		}
		if v.Scale < 1-tun.PerspectiveShrink*tun.PerspectiveLimit-1e-9 {
			t.Fatalf("scale below limit: %f", v.Scale)
		}
		prev = v
	}
}

func TestProjectKeepsMinimumRadius(t *testing.T) {
	tun := DefaultTuning()
	f := testField(t)
	v := Project(Ball{Radius: 10, Depth: 1e6}, f, tun)
	if v.DrawRadius != tun.MinDrawRadius {
		t.Fatalf("expected minimum draw radius, got=%f", v.DrawRadius)
	}
}

package simulation

import (
	"testing"

	"penaltyshot/internal/shared/types"
)

func TestResolveShot(t *testing.T) {
	tun := DefaultTuning()
	f := testField(t)
	g := newGoal(f, tun)
	past := f.GoalDepth(tun) + 1

	diving := Keeper{X: 400, State: KeeperDiving, DiveTimer: 0.2}
	idle := Keeper{X: 400, State: KeeperIdle}

	cases := []struct {
		name   string
		ball   Ball
		keeper Keeper
		want   Outcome
	}{
		{"resting", Ball{X: 400, Depth: past}, diving, OutcomeNone},
		{"short of goal", Ball{X: 400, Depth: f.GoalDepth(tun), Shooting: true}, diving, OutcomeNone},
		{"save", Ball{X: 430, Depth: past, Shooting: true}, diving, OutcomeSave},
		{"near idle keeper", Ball{X: 430, Depth: past, Shooting: true}, idle, OutcomeGoal},
		{"post", Ball{X: 560, Depth: past, Shooting: true}, idle, OutcomeGoal},
		{"wide", Ball{X: 600, Depth: past, Shooting: true}, idle, OutcomeMiss},
		{"wide of diving keeper", Ball{X: 600, Depth: past, Shooting: true}, diving, OutcomeMiss},
		{"save outranks miss", Ball{X: 600, Depth: past, Shooting: true}, Keeper{X: 580, State: KeeperDiving, DiveTimer: 0.1}, OutcomeSave},
	}
	for _, tc := range cases {
		if got := ResolveShot(tc.ball, tc.keeper, g, f, tun); got != tc.want {
			t.Fatalf("%s: expected %s, got=%s", tc.name, tc.want, got)
		}
	}
}

func TestOutcomeEvent(t *testing.T) {
	want := map[Outcome]types.EventType{
		OutcomeNone: types.EventNone,
		OutcomeSave: types.EventSave,
		OutcomeGoal: types.EventGoal,
		OutcomeMiss: types.EventMiss,
	}
	for o, ev := range want {
		if o.Event() != ev {
			t.Fatalf("expected %s to map to %q, got=%q", o, ev, o.Event())
		}
	}
}

func TestGoalContains(t *testing.T) {
	g := Goal{CenterX: 400, Width: 320}
	if !g.Contains(240) || !g.Contains(560) || !g.Contains(400) {
		t.Fatal("expected mouth to include centre and posts")
	}
	if g.Contains(239.9) || g.Contains(560.1) {
		t.Fatal("expected outside posts to be excluded")
	}
}

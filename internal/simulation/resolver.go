package simulation

import (
	"math"

	"penaltyshot/internal/shared/types"
)

// Outcome is the adjudicated result of a shot.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeSave
	OutcomeGoal
	OutcomeMiss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSave:
		return "save"
	case OutcomeGoal:
		return "goal"
	case OutcomeMiss:
		return "miss"
	default:
		return "none"
	}
}

// Event maps the outcome onto the wire event. Wins are decided by the session.
func (o Outcome) Event() types.EventType {
	switch o {
	case OutcomeSave:
		return types.EventSave
	case OutcomeGoal:
		return types.EventGoal
	case OutcomeMiss:
		return types.EventMiss
	default:
		return types.EventNone
	}
}

// ResolveShot classifies a shot once it is past goal depth. It returns
// OutcomeNone while the ball is resting or still short of the goal.
func ResolveShot(b Ball, k Keeper, g Goal, f Field, t Tuning) Outcome {
	if !b.Shooting || !(b.Depth > f.GoalDepth(t)) {
		return OutcomeNone
	}
	if math.Abs(b.X-k.X) < t.SaveRange && k.State == KeeperDiving {
		return OutcomeSave
	}
	if g.Contains(b.X) {
		return OutcomeGoal
	}
	return OutcomeMiss
}

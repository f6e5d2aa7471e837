package agent

import (
	"math/rand"

	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

const (
	randomChaseRange = 100 // squared distance
	guardAlertRange  = 64  // squared distance
	interceptLead    = 3
)

// Input is everything a behavior may look at when choosing a step.
type Input struct {
	Self core.Point
	Tick int

	// Target is the believed player position; HasTarget is false until the
	// first position update arrives.
	Target    core.Point
	HasTarget bool

	// Prev is the belief at the previous decision (Smart only).
	Prev    core.Point
	HasPrev bool
}

// Decide picks the next step for a behavior. Exactly one of dx, dy is
// non-zero except for Smart's occasional diagonal.
func Decide(b world.Behavior, in Input, rng *rand.Rand) (dx, dy int) {
	if !in.HasTarget {
		return wander(rng)
	}
	switch b {
	case world.BehaviorChase:
		return chase(in.Self, in.Target)
	case world.BehaviorRandom:
		return random(in, rng)
	case world.BehaviorGuard:
		return guard(in)
	case world.BehaviorSmart:
		return smart(in, rng)
	}
	return chase(in.Self, in.Target)
}

// wander picks a uniform cardinal direction.
func wander(rng *rand.Rand) (int, int) {
	switch rng.Intn(4) {
	case 0:
		return 1, 0
	case 1:
		return -1, 0
	case 2:
		return 0, 1
	default:
		return 0, -1
	}
}

// chase steps along the axis with the larger offset; ties go vertical.
func chase(self, target core.Point) (int, int) {
	dx, dy := target.Sub(self)
	if core.Abs(dx) > core.Abs(dy) {
		return core.Toward(dx), 0
	}
	return 0, core.Toward(dy)
}

func random(in Input, rng *rand.Rand) (int, int) {
	if in.Self.DistSq(in.Target) >= randomChaseRange {
		return wander(rng)
	}
	dx, dy := in.Target.Sub(in.Self)
	if rng.Intn(2) == 0 {
		return core.Toward(dx), 0
	}
	return 0, core.Toward(dy)
}

func guard(in Input) (int, int) {
	if in.Self.DistSq(in.Target) < guardAlertRange {
		dx, dy := in.Target.Sub(in.Self)
		if in.Tick%2 == 0 {
			return core.Toward(dx), 0
		}
		return 0, core.Toward(dy)
	}

	// Patrol: right, down, left, up, keyed off the tick.
	step := 1
	if (in.Tick/2)%2 == 1 {
		step = -1
	}
	if in.Tick%2 == 0 {
		return step, 0
	}
	return 0, step
}

func smart(in Input, rng *rand.Rand) (int, int) {
	if !in.HasPrev {
		return chase(in.Self, in.Target)
	}

	vx, vy := in.Target.Sub(in.Prev)
	toX, toY := in.Target.Sub(in.Self)

	switch {
	case core.Abs(vx) > core.Abs(vy) && vx != 0:
		ix := in.Target.X + vx*interceptLead
		if d := ix - in.Self.X; d != 0 {
			return core.Toward(d), 0
		}
		return 0, core.Toward(toY)

	case vy != 0:
		iy := in.Target.Y + vy*interceptLead
		if d := iy - in.Self.Y; d != 0 {
			return 0, core.Toward(d)
		}
		return core.Toward(toX), 0
	}

	if rng.Intn(3) == 0 {
		return core.Toward(toX), core.Toward(toY)
	}
	return chase(in.Self, in.Target)
}

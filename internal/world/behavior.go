package world

import "fmt"

// Behavior selects an enemy's movement policy.
type Behavior uint8

const (
	BehaviorChase Behavior = iota
	BehaviorRandom
	BehaviorGuard
	BehaviorSmart
)

// String returns the behavior name.
func (b Behavior) String() string {
	switch b {
	case BehaviorChase:
		return "chase"
	case BehaviorRandom:
		return "random"
	case BehaviorGuard:
		return "guard"
	case BehaviorSmart:
		return "smart"
	}
	return fmt.Sprintf("behavior(%d)", b)
}

// MarshalText renders the behavior by name in JSON snapshots.
func (b Behavior) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// DefaultBehaviors is the enemy roster, in spawn order.
var DefaultBehaviors = []Behavior{
	BehaviorChase,
	BehaviorRandom,
	BehaviorGuard,
	BehaviorChase,
	BehaviorSmart,
}

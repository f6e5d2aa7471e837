// Package rules applies player moves and enemy hits to the world state.
package rules

import "time"

// Params tunes scoring and combat.
type Params struct {
	TreasureScore   int
	DoorScore       int
	DoorHealth      int
	Damage          int
	Invulnerability time.Duration
	GracePeriod     time.Duration
}

// DefaultParams returns the standard balance.
func DefaultParams() Params {
	return Params{
		TreasureScore:   10,
		DoorScore:       20,
		DoorHealth:      10,
		Damage:          5,
		Invulnerability: time.Second,
		GracePeriod:     20 * time.Second,
	}
}

package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/dungeon.yaml
var defaultDungeonYAML []byte

// Default returns the hardcoded configuration. It matches defaults/dungeon.yaml.
func Default() DungeonConfig {
	return DungeonConfig{
		World: WorldConfig{
			Width:   80,
			Height:  80,
			Enemies: 5,
		},
		Levels: LevelsConfig{
			KeysRequired: []int{5, 7},
		},
		Combat: CombatConfig{
			Damage:          5,
			Invulnerability: time.Second,
			GracePeriod:     20 * time.Second,
		},
		Scoring: ScoringConfig{
			Treasure:   10,
			DoorScore:  20,
			DoorHealth: 10,
		},
		Agents: AgentsConfig{
			Tick: 50 * time.Millisecond,
			MoveEvery: map[string]int{
				"chase":  5,
				"random": 10,
				"guard":  12,
				"smart":  10,
			},
			ShutdownGrace: time.Second,
			Transport:     "chan",
			Buffer:        64,
		},
		Timekeeper: TimekeeperConfig{
			Interval:        500 * time.Millisecond,
			TreasurePercent: 3,
		},
	}
}

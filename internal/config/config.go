// Package config provides YAML-based configuration loading and difficulty
// presets for the dungeon.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/dungeon-conquerors/internal/agent"
	"github.com/vovakirdan/dungeon-conquerors/internal/ipc"
	"github.com/vovakirdan/dungeon-conquerors/internal/level"
	"github.com/vovakirdan/dungeon-conquerors/internal/rules"
	"github.com/vovakirdan/dungeon-conquerors/internal/timekeeper"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// DungeonConfig contains all tunables for a session.
type DungeonConfig struct {
	World      WorldConfig      `yaml:"world"`
	Levels     LevelsConfig     `yaml:"levels"`
	Combat     CombatConfig     `yaml:"combat"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Agents     AgentsConfig     `yaml:"agents"`
	Timekeeper TimekeeperConfig `yaml:"timekeeper"`
}

// WorldConfig sizes the map and roster.
type WorldConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Enemies int `yaml:"enemies"`
}

// LevelsConfig defines level progression.
type LevelsConfig struct {
	KeysRequired []int `yaml:"keys_required"` // per level, non-decreasing
}

// CombatConfig defines enemy hits.
type CombatConfig struct {
	Damage          int           `yaml:"damage"`
	Invulnerability time.Duration `yaml:"invulnerability"`
	GracePeriod     time.Duration `yaml:"grace_period"`
}

// ScoringConfig defines pickups.
type ScoringConfig struct {
	Treasure   int `yaml:"treasure"`
	DoorScore  int `yaml:"door_score"`
	DoorHealth int `yaml:"door_health"`
}

// AgentsConfig defines enemy pacing and messaging.
type AgentsConfig struct {
	Tick          time.Duration  `yaml:"tick"`
	MoveEvery     map[string]int `yaml:"move_every"` // ticks between moves, by behavior name
	ShutdownGrace time.Duration  `yaml:"shutdown_grace"`
	Transport     string         `yaml:"transport"` // "chan" or "pipe"
	Buffer        int            `yaml:"buffer"`
}

// TimekeeperConfig defines the background clock.
type TimekeeperConfig struct {
	Interval        time.Duration `yaml:"interval"`
	TreasurePercent int           `yaml:"treasure_percent"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *DungeonConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Combat.Damage = 3
		cfg.Combat.GracePeriod = 30 * time.Second
		cfg.Combat.Invulnerability = 2 * time.Second
		cfg.World.Enemies = 3
	case DifficultyHard:
		cfg.Combat.Damage = 10
		cfg.Combat.GracePeriod = 10 * time.Second
		cfg.World.Enemies = 7
		cfg.Levels.KeysRequired = []int{6, 8}
	}
}

var behaviorNames = map[string]world.Behavior{
	"chase":  world.BehaviorChase,
	"random": world.BehaviorRandom,
	"guard":  world.BehaviorGuard,
	"smart":  world.BehaviorSmart,
}

// Validate rejects configurations the game cannot run with.
func (c *DungeonConfig) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: "+format, args...))
	}

	wc := world.Config{Width: c.World.Width, Height: c.World.Height, Players: 1, Enemies: c.World.Enemies}
	if err := wc.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(c.Levels.KeysRequired) == 0 {
		add("levels.keys_required must list at least one level")
	}
	maxKeys := level.MaxKeys(c.World.Width, c.World.Height)
	for i, k := range c.Levels.KeysRequired {
		if k < 1 {
			add("levels.keys_required[%d] must be positive, got %d", i, k)
		}
		if k > maxKeys {
			add("levels.keys_required[%d] = %d exceeds %d for a %dx%d map", i, k, maxKeys, c.World.Width, c.World.Height)
		}
		if i > 0 && k < c.Levels.KeysRequired[i-1] {
			add("levels.keys_required must be non-decreasing")
		}
	}

	if c.Combat.Damage < 1 {
		add("combat.damage must be positive")
	}
	if c.Combat.Invulnerability < 0 || c.Combat.GracePeriod < 0 {
		add("combat durations cannot be negative")
	}
	if c.Scoring.Treasure < 0 || c.Scoring.DoorScore < 0 || c.Scoring.DoorHealth < 0 {
		add("scoring values cannot be negative")
	}

	if c.Agents.Tick <= 0 {
		add("agents.tick must be positive")
	}
	for name, n := range c.Agents.MoveEvery {
		if _, ok := behaviorNames[name]; !ok {
			add("agents.move_every: unknown behavior %q", name)
		}
		if n < 1 {
			add("agents.move_every.%s must be at least 1", name)
		}
	}
	switch ipc.Transport(c.Agents.Transport) {
	case "", ipc.TransportChan, ipc.TransportPipe:
	default:
		add("agents.transport must be chan or pipe, got %q", c.Agents.Transport)
	}

	if c.Timekeeper.Interval <= 0 {
		add("timekeeper.interval must be positive")
	}
	if c.Timekeeper.TreasurePercent < 0 || c.Timekeeper.TreasurePercent > 100 {
		add("timekeeper.treasure_percent must be 0..100")
	}
	return errors.Join(errs...)
}

// WorldSize returns the store sizing.
func (c *DungeonConfig) WorldSize() world.Config {
	return world.Config{Width: c.World.Width, Height: c.World.Height, Players: 1, Enemies: c.World.Enemies}
}

// RulesParams returns the movement and combat parameters.
func (c *DungeonConfig) RulesParams() rules.Params {
	return rules.Params{
		TreasureScore:   c.Scoring.Treasure,
		DoorScore:       c.Scoring.DoorScore,
		DoorHealth:      c.Scoring.DoorHealth,
		Damage:          c.Combat.Damage,
		Invulnerability: c.Combat.Invulnerability,
		GracePeriod:     c.Combat.GracePeriod,
	}
}

// AgentConfig returns agent pacing. Behaviors missing from move_every keep
// their defaults.
func (c *DungeonConfig) AgentConfig() agent.Config {
	ac := agent.DefaultConfig()
	ac.Tick = c.Agents.Tick
	ac.Damage = c.Combat.Damage
	ac.GracePeriod = c.Combat.GracePeriod
	for name, n := range c.Agents.MoveEvery {
		if b, ok := behaviorNames[name]; ok {
			ac.MoveEvery[b] = n
		}
	}
	return ac
}

// TimekeeperSettings returns the background clock settings.
func (c *DungeonConfig) TimekeeperSettings() timekeeper.Config {
	return timekeeper.Config{Interval: c.Timekeeper.Interval, TreasurePercent: c.Timekeeper.TreasurePercent}
}

// Transport returns the agent link transport.
func (c *DungeonConfig) Transport() ipc.Transport {
	if c.Agents.Transport == "" {
		return ipc.TransportChan
	}
	return ipc.Transport(c.Agents.Transport)
}

// KeysRequired returns the per-level key schedule.
func (c *DungeonConfig) KeysRequired() []int {
	if len(c.Levels.KeysRequired) == 0 {
		return level.DefaultKeysRequired
	}
	return c.Levels.KeysRequired
}

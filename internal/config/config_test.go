package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/dungeon-conquerors/internal/ipc"
	"github.com/vovakirdan/dungeon-conquerors/internal/level"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultDungeonYAML)
	if err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	def := Default()

	if cfg.World != def.World {
		t.Errorf("world = %+v, expected %+v", cfg.World, def.World)
	}
	if cfg.Combat != def.Combat {
		t.Errorf("combat = %+v, expected %+v", cfg.Combat, def.Combat)
	}
	if cfg.Timekeeper != def.Timekeeper {
		t.Errorf("timekeeper = %+v, expected %+v", cfg.Timekeeper, def.Timekeeper)
	}
	if cfg.Agents.Tick != 50*time.Millisecond || cfg.Agents.ShutdownGrace != time.Second {
		t.Errorf("agent durations = %v / %v", cfg.Agents.Tick, cfg.Agents.ShutdownGrace)
	}
	if len(cfg.Levels.KeysRequired) != 2 || cfg.Levels.KeysRequired[1] != 7 {
		t.Errorf("keys_required = %v", cfg.Levels.KeysRequired)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("embedded config invalid: %v", err)
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dungeon.yaml")
	data := []byte("combat:\n  damage: 9\nagents:\n  transport: pipe\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Combat.Damage != 9 {
		t.Errorf("damage = %d, expected 9", cfg.Combat.Damage)
	}
	if cfg.Transport() != ipc.TransportPipe {
		t.Errorf("transport = %q, expected pipe", cfg.Transport())
	}
	if cfg.World.Width != 80 || cfg.Combat.GracePeriod != 20*time.Second {
		t.Error("fields absent from the file should keep their defaults")
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("world: [unclosed"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("malformed custom config should fail")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *DungeonConfig)
	}{
		{"small map", func(c *DungeonConfig) { c.World.Width = 10 }},
		{"too many enemies", func(c *DungeonConfig) { c.World.Enemies = world.MaxEnemies + 1 }},
		{"no levels", func(c *DungeonConfig) { c.Levels.KeysRequired = nil }},
		{"decreasing keys", func(c *DungeonConfig) { c.Levels.KeysRequired = []int{7, 5} }},
		{"keys overflow zone", func(c *DungeonConfig) {
			c.World.Width, c.World.Height = 32, 32
			c.Levels.KeysRequired = []int{60}
		}},
		{"zero damage", func(c *DungeonConfig) { c.Combat.Damage = 0 }},
		{"zero tick", func(c *DungeonConfig) { c.Agents.Tick = 0 }},
		{"unknown behavior", func(c *DungeonConfig) { c.Agents.MoveEvery["sneaky"] = 3 }},
		{"bad transport", func(c *DungeonConfig) { c.Agents.Transport = "smoke" }},
		{"treasure percent", func(c *DungeonConfig) { c.Timekeeper.TreasurePercent = 101 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestValidateKeyCapFollowsMapSize(t *testing.T) {
	cfg := Default()
	cfg.World.Width, cfg.World.Height = 32, 32
	cfg.Levels.KeysRequired = []int{5, level.MaxKeys(32, 32)}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error at the cap: %v", err)
	}

	cfg.Levels.KeysRequired = []int{5, level.MaxKeys(32, 32) + 1}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "keys_required[1]") {
		t.Errorf("Validate() error = %v, expected keys_required[1] over the cap", err)
	}
}

func TestPresets(t *testing.T) {
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("unknown preset should fail")
	}
	if p, _ := ParsePreset(""); p != DifficultyNormal {
		t.Errorf("empty preset = %q, expected normal", p)
	}

	easy := Default()
	ApplyPreset(&easy, DifficultyEasy)
	hard := Default()
	ApplyPreset(&hard, DifficultyHard)
	normal := Default()
	ApplyPreset(&normal, DifficultyNormal)

	if !(easy.Combat.Damage < normal.Combat.Damage && normal.Combat.Damage < hard.Combat.Damage) {
		t.Error("damage should rise with difficulty")
	}
	if !(easy.World.Enemies < normal.World.Enemies && normal.World.Enemies < hard.World.Enemies) {
		t.Error("enemy count should rise with difficulty")
	}
	for _, c := range []DungeonConfig{easy, normal, hard} {
		if err := c.Validate(); err != nil {
			t.Errorf("preset produced invalid config: %v", err)
		}
	}
}

func TestAgentConfigOverrides(t *testing.T) {
	cfg := Default()
	cfg.Agents.MoveEvery = map[string]int{"guard": 3}
	ac := cfg.AgentConfig()

	if ac.MoveEvery[world.BehaviorGuard] != 3 {
		t.Errorf("guard interval = %d, expected 3", ac.MoveEvery[world.BehaviorGuard])
	}
	if ac.MoveEvery[world.BehaviorChase] != 5 {
		t.Errorf("chase interval = %d, expected default 5", ac.MoveEvery[world.BehaviorChase])
	}
	if ac.Damage != cfg.Combat.Damage || ac.GracePeriod != cfg.Combat.GracePeriod {
		t.Error("agent combat settings should follow the combat section")
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the config directories.
const FileName = "dungeon.yaml"

// Load loads the dungeon configuration.
// Search order: customPath -> ~/.dungeon/configs/dungeon.yaml ->
// ./configs/dungeon.yaml -> embedded default -> Default().
// Files are decoded over Default(), so a partial file only overrides what it names.
func Load(customPath string) (DungeonConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DungeonConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return DungeonConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultDungeonYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadWithPreset loads the configuration, applies a difficulty preset and
// validates the result.
func LoadWithPreset(customPath, preset string) (DungeonConfig, error) {
	p, err := ParsePreset(preset)
	if err != nil {
		return DungeonConfig{}, err
	}
	cfg, err := Load(customPath)
	if err != nil {
		return DungeonConfig{}, err
	}
	ApplyPreset(&cfg, p)
	if err := cfg.Validate(); err != nil {
		return DungeonConfig{}, err
	}
	return cfg, nil
}

func parse(data []byte) (DungeonConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DungeonConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dungeon", "configs", filename)
}

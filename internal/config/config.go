// Package config provides YAML-based configuration loading and
// difficulty presets for NoCtrl.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
)

// NoCtrlConfig contains all configuration for NoCtrl.
type NoCtrlConfig struct {
	Levels LevelsConfig `yaml:"levels"`
	Rules  RulesConfig  `yaml:"rules"`
	Keys   KeysConfig   `yaml:"keys"`
	Debug  DebugConfig  `yaml:"debug"`
}

// LevelsConfig selects the level pack.
type LevelsConfig struct {
	Dir   string `yaml:"dir"`   // Level directory, empty for the built-in pack
	Start int    `yaml:"start"` // First level number
}

// RulesConfig defines rule parameters.
type RulesConfig struct {
	PickupEnergy int `yaml:"pickup_energy"` // Energy of controls created from items
}

// KeysConfig defines key bindings. Keys use Bubble Tea key names ("h", "ctrl+c").
type KeysConfig struct {
	Slots   []string `yaml:"slots"` // One key per control slot, in slot order
	Restart []string `yaml:"restart"`
	Advance []string `yaml:"advance"`
	Quit    []string `yaml:"quit"`
}

// DebugConfig enables developer shortcuts.
type DebugConfig struct {
	AllowAdvance bool `yaml:"allow_advance"` // Enables the level skip key
}

// Validate checks the configuration for values the game cannot run with.
func (c NoCtrlConfig) Validate() error {
	var errs []error

	if c.Levels.Start < 0 {
		errs = append(errs, fmt.Errorf("levels.start must not be negative, got %d", c.Levels.Start))
	}
	if c.Rules.PickupEnergy <= 0 {
		errs = append(errs, fmt.Errorf("rules.pickup_energy must be positive, got %d", c.Rules.PickupEnergy))
	}
	if len(c.Keys.Slots) != core.SlotCount {
		errs = append(errs, fmt.Errorf("keys.slots must list %d keys, got %d", core.SlotCount, len(c.Keys.Slots)))
	}

	seen := make(map[string]string)
	bind := func(group string, keys []string) {
		for _, k := range keys {
			k = strings.TrimSpace(k)
			if k == "" {
				errs = append(errs, fmt.Errorf("keys.%s: empty key", group))
				continue
			}
			if other, ok := seen[k]; ok {
				errs = append(errs, fmt.Errorf("keys.%s: %q already bound in keys.%s", group, k, other))
				continue
			}
			seen[k] = group
		}
	}
	bind("slots", c.Keys.Slots)
	bind("restart", c.Keys.Restart)
	bind("advance", c.Keys.Advance)
	bind("quit", c.Keys.Quit)

	if len(c.Keys.Quit) == 0 {
		errs = append(errs, errors.New("keys.quit must bind at least one key"))
	}

	return errors.Join(errs...)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// PickupEnergyForPreset returns the pickup energy for a difficulty preset.
func PickupEnergyForPreset(preset DifficultyPreset) (int, error) {
	switch preset {
	case DifficultyEasy:
		return 8, nil
	case DifficultyNormal:
		return 5, nil
	case DifficultyHard:
		return 3, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", preset)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// An empty preset leaves the config unchanged.
func ApplyPreset(cfg *NoCtrlConfig, preset DifficultyPreset) error {
	if preset == "" {
		return nil
	}
	energy, err := PickupEnergyForPreset(preset)
	if err != nil {
		return err
	}
	cfg.Rules.PickupEnergy = energy
	return nil
}

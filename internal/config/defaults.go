package config

import (
	_ "embed"
)

//go:embed defaults/noctrl.yaml
var defaultNoCtrlYAML []byte

// DefaultNoCtrlConfig returns the default NoCtrl configuration.
func DefaultNoCtrlConfig() NoCtrlConfig {
	return NoCtrlConfig{
		Levels: LevelsConfig{
			Dir:   "",
			Start: 0,
		},
		Rules: RulesConfig{
			PickupEnergy: 5,
		},
		Keys: KeysConfig{
			Slots:   []string{"h", "j", "k", "l"},
			Restart: []string{"r"},
			Advance: []string{"n"},
			Quit:    []string{"q", "ctrl+c"},
		},
		Debug: DebugConfig{
			AllowAdvance: false,
		},
	}
}

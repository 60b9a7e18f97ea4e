package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name looked up in the config directories.
const ConfigFile = "noctrl.yaml"

// Load loads NoCtrl configuration.
// Search order: customPath -> ~/.noctrl/configs/noctrl.yaml -> ./configs/noctrl.yaml -> embedded default
// Values missing from a file keep their defaults. The result is validated.
func Load(customPath string) (NoCtrlConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return NoCtrlConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return NoCtrlConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return validated(cfg, customPath)
	}

	// Try user config directory
	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return validated(cfg, userCfgPath)
			}
		}
	}

	// Try local configs directory
	localPath := filepath.Join("configs", ConfigFile)
	if data, err := os.ReadFile(localPath); err == nil {
		if cfg, err := parse(data); err == nil {
			return validated(cfg, localPath)
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultNoCtrlYAML)
	if err != nil {
		return DefaultNoCtrlConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes YAML over the hard-coded defaults.
func parse(data []byte) (NoCtrlConfig, error) {
	cfg := DefaultNoCtrlConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return NoCtrlConfig{}, err
	}
	return cfg, nil
}

func validated(cfg NoCtrlConfig, path string) (NoCtrlConfig, error) {
	if err := cfg.Validate(); err != nil {
		return NoCtrlConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".noctrl", "configs", filename)
}

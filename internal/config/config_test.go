package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultNoCtrlConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	cfg, err := parse(defaultNoCtrlYAML)
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	def := DefaultNoCtrlConfig()
	if cfg.Rules.PickupEnergy != def.Rules.PickupEnergy {
		t.Errorf("pickup energy: embedded %d, hardcoded %d", cfg.Rules.PickupEnergy, def.Rules.PickupEnergy)
	}
	if strings.Join(cfg.Keys.Slots, ",") != strings.Join(def.Keys.Slots, ",") {
		t.Errorf("slot keys: embedded %v, hardcoded %v", cfg.Keys.Slots, def.Keys.Slots)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "rules:\n  pickup_energy: 9\nkeys:\n  slots: [a, s, d, f]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Rules.PickupEnergy != 9 {
		t.Errorf("expected pickup energy 9, got %d", cfg.Rules.PickupEnergy)
	}
	if cfg.Keys.Slots[0] != "a" {
		t.Errorf("expected slot keys from file, got %v", cfg.Keys.Slots)
	}
	// Unset sections keep their defaults.
	if len(cfg.Keys.Quit) == 0 || cfg.Keys.Restart[0] != "r" {
		t.Errorf("expected default restart and quit keys, got %+v", cfg.Keys)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("rules: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("rules:\n  pickup_energy: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(invalid)
	if err == nil || !strings.Contains(err.Error(), "pickup_energy") {
		t.Errorf("expected pickup_energy validation error, got %v", err)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".noctrl", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := "levels:\n  start: 2\ndebug:\n  allow_advance: true\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Levels.Start != 2 || !cfg.Debug.AllowAdvance {
		t.Errorf("user config not applied: %+v", cfg)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Rules.PickupEnergy != 5 {
		t.Errorf("expected default pickup energy, got %d", cfg.Rules.PickupEnergy)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*NoCtrlConfig)
		substr string
	}{
		{"negative start", func(c *NoCtrlConfig) { c.Levels.Start = -1 }, "levels.start"},
		{"zero energy", func(c *NoCtrlConfig) { c.Rules.PickupEnergy = 0 }, "pickup_energy"},
		{"three slots", func(c *NoCtrlConfig) { c.Keys.Slots = []string{"a", "b", "c"} }, "keys.slots must list"},
		{"five slots", func(c *NoCtrlConfig) { c.Keys.Slots = []string{"a", "b", "c", "d", "e"} }, "keys.slots must list 4 keys"},
		{"duplicate slot", func(c *NoCtrlConfig) { c.Keys.Slots = []string{"a", "a", "c", "d"} }, "already bound"},
		{"slot clashes with quit", func(c *NoCtrlConfig) { c.Keys.Slots = []string{"q", "w", "e", "t"} }, "already bound"},
		{"empty key", func(c *NoCtrlConfig) { c.Keys.Restart = []string{" "} }, "empty key"},
		{"no quit", func(c *NoCtrlConfig) { c.Keys.Quit = nil }, "keys.quit"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultNoCtrlConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.substr) {
				t.Errorf("error %q does not mention %q", err, tc.substr)
			}
		})
	}
}

func TestSlotKeysMatchInventory(t *testing.T) {
	cfg := DefaultNoCtrlConfig()
	if len(cfg.Keys.Slots) != core.SlotCount {
		t.Errorf("default config binds %d slot keys, inventory has %d slots", len(cfg.Keys.Slots), core.SlotCount)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		energy int
	}{
		{DifficultyEasy, 8},
		{DifficultyNormal, 5},
		{DifficultyHard, 3},
		{"", 5},
	}
	for _, tc := range tests {
		cfg := DefaultNoCtrlConfig()
		if err := ApplyPreset(&cfg, tc.preset); err != nil {
			t.Fatalf("preset %q: %v", tc.preset, err)
		}
		if cfg.Rules.PickupEnergy != tc.energy {
			t.Errorf("preset %q: expected energy %d, got %d", tc.preset, tc.energy, cfg.Rules.PickupEnergy)
		}
	}

	cfg := DefaultNoCtrlConfig()
	if err := ApplyPreset(&cfg, "nightmare"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

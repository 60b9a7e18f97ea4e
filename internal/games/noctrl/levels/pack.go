package levels

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels/formats"
)

// ManifestFile is the name of the optional pack manifest inside a level directory.
const ManifestFile = "pack.yaml"

// Reference level dimensions, used when a pack has no manifest.
const (
	DefaultWidth   = 40
	DefaultHeight  = 30
	DefaultPattern = "level%02d.txt"
)

// Pack describes a level pack: its grid size and how level files are named.
type Pack struct {
	Name    string      `yaml:"name"`
	Width   int         `yaml:"width"`
	Height  int         `yaml:"height"`
	Pattern string      `yaml:"pattern,omitempty"` // fmt pattern taking the level number
	Levels  []PackLevel `yaml:"levels,omitempty"`
}

// PackLevel holds per-level metadata from the manifest.
type PackLevel struct {
	Title string `yaml:"title"`
}

// DefaultPack returns the pack used for a directory without manifest.
func DefaultPack(name string) Pack {
	return Pack{
		Name:    name,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Pattern: DefaultPattern,
	}
}

// ParsePack parses a pack manifest, filling unset fields with defaults.
func ParsePack(data []byte) (Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pack{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if p.Width == 0 {
		p.Width = DefaultWidth
	}
	if p.Height == 0 {
		p.Height = DefaultHeight
	}
	if p.Pattern == "" {
		p.Pattern = DefaultPattern
	}
	if p.Width < 0 || p.Height < 0 || p.Width > formats.MaxSize || p.Height > formats.MaxSize {
		return Pack{}, fmt.Errorf("invalid pack size %dx%d, each side must be 1..%d",
			p.Width, p.Height, formats.MaxSize)
	}
	return p, nil
}

// FileName returns the file name of level number n.
func (p Pack) FileName(n int) string {
	return fmt.Sprintf(p.Pattern, n)
}

// Title returns the manifest title of level n, or a generic one.
func (p Pack) Title(n int) string {
	if n >= 0 && n < len(p.Levels) && p.Levels[n].Title != "" {
		return p.Levels[n].Title
	}
	return fmt.Sprintf("Level %d", n)
}

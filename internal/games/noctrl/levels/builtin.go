package levels

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed data/*.txt data/pack.yaml
var builtinFS embed.FS

// BuiltinName is the pack name used when no level directory is configured.
const BuiltinName = "builtin"

// Builtin returns a loader for the level pack compiled into the binary.
func Builtin() (*Loader, error) {
	sub, err := fs.Sub(builtinFS, "data")
	if err != nil {
		return nil, fmt.Errorf("builtin levels: %w", err)
	}
	return NewLoader(sub, BuiltinName)
}

// Open returns the loader for dir, or the built-in pack when dir is empty.
func Open(dir string) (*Loader, error) {
	if dir == "" {
		return Builtin()
	}
	return FromDir(dir)
}

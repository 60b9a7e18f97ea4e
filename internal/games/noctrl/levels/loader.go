// Package levels provides level loading functionality for NoCtrl.
// This package depends on core but core does not depend on levels.
package levels

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/levels/formats"
)

// ErrLevelNotFound is returned when no resource exists for a level number.
var ErrLevelNotFound = errors.New("level not found")

// LoadError reports a level that could not be opened or parsed.
// It wraps ErrLevelNotFound, the read error or a *formats.SyntaxError.
type LoadError struct {
	Number int
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load level %d: %v", e.Number, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Source opens the raw text of a level by number.
// *Loader implements it; the web API serves level files through it.
type Source interface {
	Open(number int) (io.ReadCloser, error)
}

// Loader reads levels of one pack from a file system.
type Loader struct {
	fsys fs.FS
	pack Pack
}

// NewLoader creates a loader over fsys. A pack.yaml at the root of fsys
// defines the pack; without one the reference defaults apply.
func NewLoader(fsys fs.FS, name string) (*Loader, error) {
	pack := DefaultPack(name)

	data, err := fs.ReadFile(fsys, ManifestFile)
	switch {
	case err == nil:
		pack, err = ParsePack(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
		}
		if pack.Name == "" {
			pack.Name = name
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}

	return &Loader{fsys: fsys, pack: pack}, nil
}

// FromDir creates a loader for a level directory on disk.
func FromDir(dir string) (*Loader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("level directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("level directory %s: not a directory", dir)
	}
	return NewLoader(os.DirFS(dir), filepath.Base(dir))
}

// Pack returns the pack description.
func (l *Loader) Pack() Pack {
	return l.pack
}

// Open implements Source.
func (l *Loader) Open(number int) (io.ReadCloser, error) {
	if number < 0 {
		return nil, ErrLevelNotFound
	}
	f, err := l.fsys.Open(l.pack.FileName(number))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrLevelNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Load opens and parses level number. The returned grid is new on every
// call, so callers can swap it in without sharing state with a previous load.
func (l *Loader) Load(number int) (*core.Grid, error) {
	rc, err := l.Open(number)
	if err != nil {
		return nil, &LoadError{Number: number, Err: err}
	}
	defer rc.Close()

	g, err := formats.ParseText(rc, l.pack.Width, l.pack.Height)
	if err != nil {
		return nil, &LoadError{Number: number, Err: err}
	}
	g.Number = number
	g.Title = l.pack.Title(number)
	return g, nil
}

// Count returns the number of levels in the pack: the manifest length when
// titles are listed, otherwise the run of consecutive files from level 0.
func (l *Loader) Count() int {
	if len(l.pack.Levels) > 0 {
		return len(l.pack.Levels)
	}
	n := 0
	for {
		if _, err := fs.Stat(l.fsys, l.pack.FileName(n)); err != nil {
			return n
		}
		n++
	}
}

// Report is the result of checking one level.
type Report struct {
	Number     int
	Title      string
	Err        error        // Load failure, nil if the level parsed
	OpenBorder []core.Coord // Walkable border cells
	Exits      int
	Items      int
}

// Check loads every level of the pack and reports problems a player
// would hit: parse failures, open borders and missing exits.
func (l *Loader) Check() []Report {
	count := l.Count()
	reports := make([]Report, 0, count)
	for n := 0; n < count; n++ {
		r := Report{Number: n, Title: l.pack.Title(n)}
		g, err := l.Load(n)
		if err != nil {
			r.Err = err
			reports = append(reports, r)
			continue
		}
		r.OpenBorder = g.OpenBorder()
		r.Exits = g.Count(core.TileExit)
		r.Items = len(g.Items)
		reports = append(reports, r)
	}
	return reports
}

// OK returns true if the level loaded, is enclosed and has an exit.
func (r Report) OK() bool {
	return r.Err == nil && len(r.OpenBorder) == 0 && r.Exits > 0
}

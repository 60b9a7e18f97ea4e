// Package formats provides level file format parsers.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
)

// SyntaxError describes a malformed level file.
type SyntaxError struct {
	Line int // 1-based line number, 0 when the whole file is at fault
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func syntaxErr(line int, format string, args ...any) error {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// MaxSize is the largest level width or height accepted.
const MaxSize = 256

// Terrain and item characters.
const (
	charWall   = '#'
	charExit   = '>'
	charPlayer = '@'
)

var itemChars = map[rune]core.ItemKind{
	'u': core.ItemUpControl,
	'r': core.ItemRightControl,
	'd': core.ItemDownControl,
	'l': core.ItemLeftControl,
}

var controlSymbols = map[string]core.Dir{
	"<": core.DirLeft,
	">": core.DirRight,
	"^": core.DirUp,
	"v": core.DirDown,
}

// ParseText parses the plain text level format.
//
// The first height lines are terrain, one character per column and at most
// width characters each; short lines are padded with floor. Up to
// core.SlotCount further lines describe the starting controls as
// "<symbol> <energy>", a blank line leaving its slot empty.
func ParseText(r io.Reader, width, height int) (*core.Grid, error) {
	if width <= 0 || height <= 0 || width > MaxSize || height > MaxSize {
		return nil, syntaxErr(0, "invalid level size %dx%d, each side must be 1..%d", width, height, MaxSize)
	}

	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) < height {
		return nil, syntaxErr(0, "expected %d terrain rows, found %d", height, len(lines))
	}

	g := core.NewGrid(width, height)
	starts := 0
	for y := 0; y < height; y++ {
		row := []rune(lines[y])
		if len(row) > width {
			return nil, syntaxErr(y+1, "row is %d columns wide, limit is %d", len(row), width)
		}
		for x, ch := range row {
			c := core.C(x, y)
			switch ch {
			case charWall:
				g.Set(c, core.TileWall)
			case charExit:
				g.Set(c, core.TileExit)
			case charPlayer:
				g.Start = c
				starts++
			default:
				if kind, ok := itemChars[ch]; ok {
					g.PlaceItem(c, kind)
				}
			}
		}
	}
	switch starts {
	case 0:
		return nil, syntaxErr(0, "no player start '@'")
	case 1:
	default:
		return nil, syntaxErr(0, "%d player starts '@', expected one", starts)
	}

	if err := parseControls(g, lines[height:], height); err != nil {
		return nil, err
	}
	return g, nil
}

// parseControls fills the starting inventory from the trailing lines.
// offset is the number of lines before the first control line.
func parseControls(g *core.Grid, lines []string, offset int) error {
	// Trailing blank lines carry no information.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > core.SlotCount {
		return syntaxErr(offset+core.SlotCount+1, "at most %d control lines allowed", core.SlotCount)
	}

	for i, line := range lines {
		lineNo := offset + i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return syntaxErr(lineNo, "control %q: want \"<symbol> <energy>\"", line)
		}
		dir, ok := controlSymbols[fields[0]]
		if !ok {
			return syntaxErr(lineNo, "unknown control symbol %q", fields[0])
		}
		energy, err := strconv.ParseUint(fields[1], 10, 31)
		if err != nil {
			return syntaxErr(lineNo, "control energy %q is not a number", fields[1])
		}
		if energy == 0 {
			return syntaxErr(lineNo, "control energy must be positive")
		}
		g.Controls[i] = &core.Control{Dir: dir, Energy: int(energy)}
	}
	return nil
}

// readLines splits the input into lines without their terminators.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading level: %w", err)
	}
	return lines, nil
}

// FormatText encodes a grid in the plain text level format.
// Trailing floor is trimmed from each row; ParseText pads it back.
func FormatText(g *core.Grid) string {
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		row := make([]rune, g.W)
		for x := 0; x < g.W; x++ {
			c := core.C(x, y)
			switch {
			case c == g.Start:
				row[x] = charPlayer
			case g.At(c) == core.TileWall:
				row[x] = charWall
			case g.At(c) == core.TileExit:
				row[x] = charExit
			default:
				row[x] = ' '
				if kind, ok := g.ItemAt(c); ok {
					row[x] = itemChar(kind)
				}
			}
		}
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}

	last := -1
	for i, ctl := range g.Controls {
		if ctl != nil {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		if ctl := g.Controls[i]; ctl != nil {
			fmt.Fprintf(&b, "%s %d", controlSymbol(ctl.Dir), ctl.Energy)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func itemChar(kind core.ItemKind) rune {
	for ch, k := range itemChars {
		if k == kind {
			return ch
		}
	}
	return ' '
}

func controlSymbol(dir core.Dir) string {
	for sym, d := range controlSymbols {
		if d == dir {
			return sym
		}
	}
	return "?"
}

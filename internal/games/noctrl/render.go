package noctrl

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	pcore "github.com/vovakirdan/noctrl/internal/core"
	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
)

// Layout rows around the map.
const (
	hudHeight    = 2 // Title line and separator
	footerHeight = 3 // Blank line, slot list, status line
	slotGap      = "  "
)

// Glyphs used to draw the level.
const (
	glyphWall   = '█'
	glyphExit   = '▣'
	glyphFloor  = '·'
	glyphPlayer = '@'
)

// MinScreenSize returns the smallest screen that fits the active level.
func (g *Game) MinScreenSize() (w, h int) {
	if g.grid == nil {
		return 0, 0
	}
	return max(g.grid.W, runewidth.StringWidth(g.slotLine())), g.grid.H + hudHeight + footerHeight
}

// Render draws the game into the screen buffer.
func (g *Game) Render(dst *pcore.Screen) {
	dst.Clear()

	if g.grid == nil {
		g.renderOverlay(dst, "No level loaded", "Press Q to quit")
		return
	}

	g.renderHUD(dst)

	minW, minH := g.MinScreenSize()
	if dst.Width() < minW || dst.Height() < minH {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", minW, minH))
		return
	}

	offX := (dst.Width() - g.grid.W) / 2
	offY := hudHeight
	g.renderMap(dst, offX, offY)
	g.renderSlots(dst, offY+g.grid.H+1)

	if g.notice != "" {
		dst.DrawTextCentered(offY+g.grid.H+2, g.notice, pcore.ColorOrange)
	}

	switch {
	case g.faulted:
		g.renderOverlay(dst, "Level fault", "Press R to reload")
	case g.won:
		g.renderOverlay(dst, "Pack complete!", fmt.Sprintf("%d levels in %d moves", g.cleared, g.totalMoves))
	case g.lost:
		g.renderOverlay(dst, "Out of controls", "Press R to restart")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *pcore.Screen) {
	hud := fmt.Sprintf(" NoCtrl | Level %d: %s | Cleared: %d | Moves: %d",
		g.level, g.grid.Title, g.cleared, g.moves)
	dst.DrawTextWithColor(0, 0, hud, pcore.ColorWhite)

	for x := range dst.Width() {
		dst.SetWithColor(x, 1, '─', pcore.ColorDarkGray)
	}
}

// renderMap draws terrain, items and the player.
func (g *Game) renderMap(dst *pcore.Screen, offX, offY int) {
	for y := 0; y < g.grid.H; y++ {
		for x := 0; x < g.grid.W; x++ {
			switch g.grid.At(core.C(x, y)) {
			case core.TileWall:
				dst.SetWithColor(offX+x, offY+y, glyphWall, pcore.ColorGray)
			case core.TileExit:
				dst.SetWithColor(offX+x, offY+y, glyphExit, pcore.ColorBrightGreen)
			default:
				dst.SetWithColor(offX+x, offY+y, glyphFloor, pcore.ColorDarkGray)
			}
		}
	}

	for _, c := range g.grid.ItemCoords() {
		kind := g.grid.Items[c]
		dst.SetWithColor(offX+c.X, offY+c.Y, kind.Dir().Arrow(), pcore.ColorCyan)
	}

	p := g.player.Pos
	dst.SetWithColor(offX+p.X, offY+p.Y, glyphPlayer, pcore.ColorBrightYellow)
}

// slotText formats one control slot as "[H] → 3", or "[H] --" when empty.
func (g *Game) slotText(i int, ctl *core.Control) string {
	if ctl == nil {
		return fmt.Sprintf("[%s] --", g.slotLabels[i])
	}
	return fmt.Sprintf("[%s] %c %d", g.slotLabels[i], ctl.Dir.Arrow(), ctl.Energy)
}

// slotLine formats every control slot on one line.
func (g *Game) slotLine() string {
	slots := g.inv.Slots()
	parts := make([]string, len(slots))
	for i, ctl := range slots {
		parts[i] = g.slotText(i, ctl)
	}
	return strings.Join(parts, slotGap)
}

// renderSlots draws the control slot list, empty slots dimmed.
func (g *Game) renderSlots(dst *pcore.Screen, y int) {
	x := (dst.Width() - runewidth.StringWidth(g.slotLine())) / 2
	for i, ctl := range g.inv.Slots() {
		color := pcore.ColorBrightCyan
		switch {
		case ctl == nil:
			color = pcore.ColorDarkGray
		case ctl.Energy == 1:
			color = pcore.ColorBrightRed
		}
		text := g.slotText(i, ctl)
		dst.DrawTextWithColor(x, y, text, color)
		x += runewidth.StringWidth(text + slotGap)
	}
}

// renderOverlay draws a centered box with two lines of text.
func (g *Game) renderOverlay(dst *pcore.Screen, line1, line2 string) {
	maxLen := max(runewidth.StringWidth(line1), runewidth.StringWidth(line2))
	boxW := maxLen + 4
	boxH := 5
	box := pcore.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, pcore.ColorYellow)
	dst.DrawTextCentered(box.Y+1, line1, pcore.ColorBrightYellow)
	dst.DrawTextCentered(box.Y+3, line2, pcore.ColorWhite)
}

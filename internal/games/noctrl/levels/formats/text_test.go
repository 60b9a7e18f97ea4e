package formats

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/noctrl/internal/games/noctrl/core"
)

func TestParseTextValid(t *testing.T) {
	src := strings.Join([]string{
		"#####",
		"#@ u#",
		"#r >#",
		"#####",
		"> 3",
		"",
		"^ 12",
	}, "\n")

	g, err := ParseText(strings.NewReader(src), 5, 4)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	if g.W != 5 || g.H != 4 {
		t.Errorf("expected 5x4, got %dx%d", g.W, g.H)
	}
	if g.Start != core.C(1, 1) {
		t.Errorf("expected start (1,1), got %s", g.Start)
	}
	if g.At(g.Start) != core.TileFloor {
		t.Errorf("start tile should be floor, got %s", g.At(g.Start))
	}
	if g.At(core.C(3, 2)) != core.TileExit {
		t.Errorf("expected exit at (3,2), got %s", g.At(core.C(3, 2)))
	}
	if g.At(core.C(0, 0)) != core.TileWall {
		t.Errorf("expected wall at (0,0)")
	}

	if k, ok := g.ItemAt(core.C(3, 1)); !ok || k != core.ItemUpControl {
		t.Errorf("expected UpControl at (3,1), got %v %v", k, ok)
	}
	if k, ok := g.ItemAt(core.C(1, 2)); !ok || k != core.ItemRightControl {
		t.Errorf("expected RightControl at (1,2), got %v %v", k, ok)
	}
	if g.At(core.C(3, 1)) != core.TileFloor {
		t.Error("item tile should be floor")
	}

	if g.Controls[0] == nil || g.Controls[0].Dir != core.DirRight || g.Controls[0].Energy != 3 {
		t.Errorf("slot 0: expected Right 3, got %+v", g.Controls[0])
	}
	if g.Controls[1] != nil {
		t.Errorf("slot 1: expected empty, got %+v", g.Controls[1])
	}
	if g.Controls[2] == nil || g.Controls[2].Dir != core.DirUp || g.Controls[2].Energy != 12 {
		t.Errorf("slot 2: expected Up 12, got %+v", g.Controls[2])
	}
	if g.Controls[3] != nil {
		t.Errorf("slot 3: expected empty, got %+v", g.Controls[3])
	}
}

func TestParseTextPadsShortRows(t *testing.T) {
	src := "@\n\n#"
	g, err := ParseText(strings.NewReader(src), 4, 3)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if g.Count(core.TileWall) != 1 {
		t.Errorf("expected 1 wall, got %d", g.Count(core.TileWall))
	}
	if g.Count(core.TileFloor) != 11 {
		t.Errorf("expected 11 floor tiles, got %d", g.Count(core.TileFloor))
	}
}

func TestParseTextCRLF(t *testing.T) {
	src := "#@>#\r\nv 2\r\n"
	g, err := ParseText(strings.NewReader(src), 4, 1)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if g.Controls[0] == nil || g.Controls[0].Dir != core.DirDown || g.Controls[0].Energy != 2 {
		t.Errorf("expected Down 2, got %+v", g.Controls[0])
	}
}

func TestParseTextAllSymbols(t *testing.T) {
	src := "@\n< 1\n> 2\n^ 3\nv 4"
	g, err := ParseText(strings.NewReader(src), 1, 1)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	want := []core.Dir{core.DirLeft, core.DirRight, core.DirUp, core.DirDown}
	for i, d := range want {
		if g.Controls[i] == nil || g.Controls[i].Dir != d || g.Controls[i].Energy != i+1 {
			t.Errorf("slot %d: expected %s %d, got %+v", i, d, i+1, g.Controls[i])
		}
	}
}

func TestParseTextErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		w, h   int
		line   int
		substr string
	}{
		{"unknown symbol", "@\nx 3", 1, 1, 2, "unknown control symbol"},
		{"missing energy", "@\n>", 1, 1, 2, "want"},
		{"non-numeric energy", "@\n> many", 1, 1, 2, "not a number"},
		{"negative energy", "@\n> -1", 1, 1, 2, "not a number"},
		{"zero energy", "@\n\n> 0", 1, 1, 3, "must be positive"},
		{"extra field", "@\n> 1 2", 1, 1, 2, "want"},
		{"too many controls", "@\n> 1\n> 1\n> 1\n> 1\n> 1", 1, 1, 6, "at most"},
		{"row too long", "@  ", 2, 1, 1, "limit is 2"},
		{"missing rows", "@", 1, 2, 0, "expected 2 terrain rows"},
		{"no start", "  ", 2, 1, 0, "no player start"},
		{"two starts", "@@", 2, 1, 0, "2 player starts"},
		{"bad size", "@", 0, 1, 0, "invalid level size"},
		{"width over limit", "@", MaxSize + 1, 1, 0, "invalid level size"},
		{"overflowing size", "@", math.MaxInt / 2, 4, 0, "invalid level size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseText(strings.NewReader(tc.src), tc.w, tc.h)
			if err == nil {
				t.Fatal("expected error")
			}
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
			}
			if synErr.Line != tc.line {
				t.Errorf("expected line %d, got %d", tc.line, synErr.Line)
			}
			if !strings.Contains(err.Error(), tc.substr) {
				t.Errorf("error %q does not mention %q", err, tc.substr)
			}
		})
	}
}

func TestParseTextTrailingBlankLines(t *testing.T) {
	src := "@\n> 1\n\n\n\n\n\n"
	g, err := ParseText(strings.NewReader(src), 1, 1)
	if err != nil {
		t.Fatalf("trailing blank lines should be ignored: %v", err)
	}
	if g.Controls[0] == nil {
		t.Error("expected control in slot 0")
	}
}

func TestFormatTextReparses(t *testing.T) {
	src := "#####\n#@ r#\n# #>#\n#####\n> 2\n\nv 1\n"
	g, err := ParseText(strings.NewReader(src), 5, 4)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	text := FormatText(g)
	if text != src {
		t.Errorf("FormatText mismatch:\n got %q\nwant %q", text, src)
	}

	again, err := ParseText(strings.NewReader(text), 5, 4)
	if err != nil {
		t.Fatalf("formatted level does not parse: %v", err)
	}
	if again.Start != g.Start || len(again.Items) != len(g.Items) {
		t.Errorf("reparsed level differs: start %s items %d", again.Start, len(again.Items))
	}
	if again.Controls[1] != nil || *again.Controls[2] != *g.Controls[2] {
		t.Error("control slots not preserved")
	}
}

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

func TestViewOrigin(t *testing.T) {
	tests := []struct {
		name         string
		mapW, mapH   int
		focus        core.Point
		viewW, viewH int
		want         core.Point
	}{
		{"centred on focus", 80, 80, core.Pt(40, 40), 20, 10, core.Pt(30, 35)},
		{"clamped top-left", 80, 80, core.Pt(2, 2), 20, 10, core.Pt(0, 0)},
		{"clamped bottom-right", 80, 80, core.Pt(79, 79), 20, 10, core.Pt(60, 70)},
		{"small map centred", 10, 6, core.Pt(1, 1), 20, 10, core.Pt(-5, -2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := viewOrigin(tt.mapW, tt.mapH, tt.focus, tt.viewW, tt.viewH)
			if got != tt.want {
				t.Errorf("viewOrigin() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func drawSnapshot() world.Snapshot {
	m := world.NewMap(40, 40)
	m.Set(21, 20, world.TileWall)
	m.Set(19, 20, world.TileKey)
	return world.Snapshot{
		Level:         1,
		Map:           m,
		Players:       []world.Player{{ID: 0, X: 20, Y: 20, Health: 80, Score: 30, Active: true, Keys: 2}},
		Enemies:       []world.Enemy{{ID: 0, X: 20, Y: 22, Health: 100, Active: true}, {ID: 1, X: 20, Y: 23}},
		WinnerID:      world.WinnerNone,
		KeysRequired:  5,
		KeysCollected: 2,
		Elapsed:       75 * time.Second,
		Notices:       []world.Notice{{Text: "older"}, {Text: "Key collected (2/5)"}},
	}
}

func TestDrawCentresPlayer(t *testing.T) {
	snap := drawSnapshot()
	scr := core.NewScreen(21, 11+hudRows)
	Draw(scr, &snap, 0)

	// player at view centre (10, 5) below the HUD
	if got := scr.Get(10, 5+hudRows); got != '@' {
		t.Errorf("player cell = %q, expected '@'", got)
	}
	if got := scr.Get(11, 5+hudRows); got != '#' {
		t.Errorf("wall cell = %q, expected '#'", got)
	}
	if got := scr.Get(9, 5+hudRows); got != 'k' {
		t.Errorf("key cell = %q, expected 'k'", got)
	}
	if got := scr.Get(10, 7+hudRows); got != 'M' {
		t.Errorf("enemy cell = %q, expected 'M'", got)
	}
	if got := scr.Get(10, 8+hudRows); got == 'M' {
		t.Error("inactive enemy should not be drawn")
	}
}

func TestDrawHUD(t *testing.T) {
	snap := drawSnapshot()
	scr := core.NewScreen(80, 12)
	Draw(scr, &snap, 0)

	hud := scr.Row(0)
	for _, want := range []string{"HP 80/100", "Score 30", "Keys 2/5", "Level 1/2", "01:15"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
	if strings.Contains(hud, "EXIT OPEN") {
		t.Error("exit shown open while locked")
	}
	if got := strings.TrimSpace(scr.Row(1)); got != "Key collected (2/5)" {
		t.Errorf("notice row = %q, expected the latest notice", got)
	}
}

func TestDrawOutcome(t *testing.T) {
	tests := []struct {
		winner int
		want   string
	}{
		{0, "VICTORY"},
		{world.WinnerNone, "DEFEAT"},
		{world.WinnerExited, "left the dungeon"},
	}
	for _, tt := range tests {
		snap := drawSnapshot()
		snap.GameOver = true
		snap.WinnerID = tt.winner
		if tt.winner == world.WinnerNone {
			snap.Players[0].Active = false
		}
		scr := core.NewScreen(60, 20)
		Draw(scr, &snap, 0)

		out := scr.String()
		if !strings.Contains(out, tt.want) {
			t.Errorf("winner %d: screen missing %q", tt.winner, tt.want)
		}
		if !strings.Contains(out, "Final score: 30") {
			t.Errorf("winner %d: final score missing", tt.winner)
		}
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	scr := core.NewScreen(6, 2)
	scr.DrawTextColored(0, 0, "ab", core.ColorRed)
	scr.DrawTextColored(2, 0, "cd", core.ColorGreen)
	scr.DrawText(0, 1, "xyz")

	out := RenderScreen(scr)
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("rendered %d lines, expected 2", len(lines))
	}
	for _, want := range []string{"ab", "cd", "xyz"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q", want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(125*time.Second + 400*time.Millisecond); got != "02:05" {
		t.Errorf("formatElapsed() = %q, expected 02:05", got)
	}
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// hudRows is the number of screen rows above the map.
const hudRows = 2

// palette maps core.Color to ANSI 256-color codes.
var palette = [...]string{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "240",
	core.ColorBrown:         "130",
}

var colorStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for i, code := range palette {
		styles[i] = lipgloss.NewStyle()
		if code != "" {
			styles[i] = styles[i].Foreground(lipgloss.Color(code))
		}
	}
	return styles
}()

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(colorStyles) {
		return colorStyles[c]
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string.
// Adjacent cells of one colour share an escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}

func tileColor(t world.Tile, exitEnabled bool) core.Color {
	switch t {
	case world.TileWall:
		return core.ColorGray
	case world.TileDoor:
		return core.ColorBrown
	case world.TileTreasure:
		return core.ColorBrightYellow
	case world.TileKey:
		return core.ColorBrightCyan
	case world.TileExit:
		if exitEnabled {
			return core.ColorBrightGreen
		}
		return core.ColorRed
	}
	return core.ColorDefault
}

func enemyColor(b world.Behavior) core.Color {
	switch b {
	case world.BehaviorChase:
		return core.ColorBrightRed
	case world.BehaviorRandom:
		return core.ColorMagenta
	case world.BehaviorGuard:
		return core.ColorOrange
	case world.BehaviorSmart:
		return core.ColorBrightMagenta
	}
	return core.ColorRed
}

// viewOrigin returns the map coordinate drawn at the top-left of a view of
// viewW x viewH cells centred on focus. Maps smaller than the view are centred.
func viewOrigin(mapW, mapH int, focus core.Point, viewW, viewH int) core.Point {
	axis := func(size, view, f int) int {
		if size <= view {
			return -(view - size) / 2
		}
		return core.Clamp(f-view/2, 0, size-view)
	}
	return core.Pt(axis(mapW, viewW, focus.X), axis(mapH, viewH, focus.Y))
}

// Draw renders the HUD and the part of the map around player id.
func Draw(scr *core.Screen, snap *world.Snapshot, id int) {
	scr.Clear()
	if scr.Height() <= hudRows {
		return
	}
	drawHUD(scr, snap, id)

	focus := core.Pt(snap.Map.Width/2, snap.Map.Height/2)
	if p := snap.Player(id); p != nil {
		focus = p.Pos()
	}
	viewH := scr.Height() - hudRows
	o := viewOrigin(snap.Map.Width, snap.Map.Height, focus, scr.Width(), viewH)

	for sy := range viewH {
		for sx := range scr.Width() {
			mx, my := o.X+sx, o.Y+sy
			if !snap.Map.InBounds(mx, my) {
				continue
			}
			t := snap.Map.At(mx, my)
			r := t.Glyph()
			if t == world.TileEmpty {
				r = ' '
			}
			scr.SetColored(sx, sy+hudRows, r, tileColor(t, snap.ExitEnabled))
		}
	}

	plot := func(x, y int, r rune, c core.Color) {
		sx, sy := x-o.X, y-o.Y
		if sy >= 0 && sy < viewH {
			scr.SetColored(sx, sy+hudRows, r, c)
		}
	}
	for _, e := range snap.Enemies {
		if e.Active {
			plot(e.X, e.Y, 'M', enemyColor(e.Behavior))
		}
	}
	for _, p := range snap.Players {
		if p.Active {
			plot(p.X, p.Y, '@', core.ColorBrightWhite)
		}
	}

	if snap.GameOver {
		drawOutcome(scr, snap, id)
	}
}

func drawHUD(scr *core.Screen, snap *world.Snapshot, id int) {
	p := snap.Player(id)
	if p == nil {
		return
	}
	hpColor := core.ColorBrightGreen
	switch {
	case p.Health <= world.MaxHealth/4:
		hpColor = core.ColorBrightRed
	case p.Health <= world.MaxHealth/2:
		hpColor = core.ColorYellow
	}

	x := 0
	put := func(text string, c core.Color) {
		scr.DrawTextColored(x, 0, text, c)
		x += len([]rune(text)) + 2
	}
	put(fmt.Sprintf("HP %d/%d", p.Health, world.MaxHealth), hpColor)
	put(fmt.Sprintf("Score %d", p.Score), core.ColorBrightYellow)
	put(fmt.Sprintf("Keys %d/%d", snap.KeysCollected, snap.KeysRequired), core.ColorBrightCyan)
	put(fmt.Sprintf("Level %d/%d", snap.Level, world.MaxLevel), core.ColorWhite)
	put(formatElapsed(snap.Elapsed), core.ColorGray)
	if snap.ExitEnabled {
		put("EXIT OPEN", core.ColorBrightGreen)
	}

	if n := len(snap.Notices); n > 0 {
		scr.DrawTextColored(0, 1, snap.Notices[n-1].Text, core.ColorYellow)
	}
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// outcomeText returns the end-of-round banner.
func outcomeText(o world.Outcome) (string, core.Color) {
	switch o {
	case world.OutcomeVictory:
		return "VICTORY! You conquered the dungeon", core.ColorBrightGreen
	case world.OutcomeDefeat:
		return "DEFEAT. The monsters got you", core.ColorBrightRed
	case world.OutcomeExited:
		return "You left the dungeon", core.ColorYellow
	}
	return "", core.ColorDefault
}

func drawOutcome(scr *core.Screen, snap *world.Snapshot, id int) {
	text, c := outcomeText(snap.Outcome(id))
	score := 0
	if p := snap.Player(id); p != nil {
		score = p.Score
	}
	lines := []string{
		text,
		fmt.Sprintf("Final score: %d   Level: %d", score, snap.Level),
		"r restart   q quit",
	}

	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	box := core.NewRect((scr.Width()-w-4)/2, (scr.Height()-len(lines)-2)/2, w+4, len(lines)+2)
	scr.FillRect(box, ' ', core.ColorDefault)
	scr.DrawBox(box, c)
	for i, l := range lines {
		lc := core.ColorWhite
		if i == 0 {
			lc = c
		}
		scr.DrawTextCentered(box.Y+1+i, l, lc)
	}
}

package level

import (
	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// EnemySpawns returns the preferred spawn cell for each roster slot on a
// w×h map. Slots beyond the roster reuse the layout in order.
func EnemySpawns(w, h int) []core.Point {
	return []core.Point{
		core.Pt(w-10, h-10), // chase
		core.Pt(w-8, 8),     // random
		core.Pt(w-4, h-4),   // guard
		core.Pt(w-15, h/2),  // chase
		core.Pt(15, h-15),   // smart
	}
}

// PlaceEnemies puts every enemy on the open tile nearest its spawn point and
// revives it. Players are left alone.
func PlaceEnemies(st *world.State) {
	spawns := EnemySpawns(st.Map.Width, st.Map.Height)
	taken := make(map[core.Point]bool, len(st.Enemies))
	for i := range st.Enemies {
		e := &st.Enemies[i]
		p := NearestOpen(&st.Map, spawns[i%len(spawns)], taken)
		taken[p] = true
		e.X, e.Y = p.X, p.Y
		e.Active = true
		e.Health = world.MaxHealth
	}
}

// NearestOpen searches outward in square rings for the closest interior
// Empty cell not in taken. It falls back to the map centre.
func NearestOpen(m *world.Map, from core.Point, taken map[core.Point]bool) core.Point {
	limit := max(m.Width, m.Height)
	for r := 0; r < limit; r++ {
		for y := from.Y - r; y <= from.Y+r; y++ {
			for x := from.X - r; x <= from.X+r; x++ {
				if core.Abs(x-from.X) != r && core.Abs(y-from.Y) != r {
					continue
				}
				p := core.Pt(x, y)
				if m.Interior(x, y) && m.At(x, y) == world.TileEmpty && !taken[p] {
					return p
				}
			}
		}
	}
	return m.Center()
}

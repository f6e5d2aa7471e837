package level

import (
	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

// Reachable returns every cell a walker can reach from start by cardinal
// steps over non-Wall tiles.
func Reachable(m *world.Map, start core.Point) map[core.Point]bool {
	seen := map[core.Point]bool{start: true}
	queue := []core.Point{start}
	steps := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range steps {
			n := p.Add(d[0], d[1])
			if seen[n] || !m.InBounds(n.X, n.Y) || !m.At(n.X, n.Y).Passable() {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return seen
}

// Package level lays out dungeon levels: cellular-automaton caves with
// carved guarantee paths from every key and the exit back to spawn.
package level

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dungeon-conquerors/internal/core"
	"github.com/vovakirdan/dungeon-conquerors/internal/world"
)

var (
	// ErrInvalidLevel is returned for level numbers outside 1..MaxLevel.
	ErrInvalidLevel = errors.New("level: invalid level number")
	// ErrKeyPlacement is returned when the key zone cannot hold the keys.
	ErrKeyPlacement = errors.New("level: cannot place keys")
)

const (
	smoothPasses    = 3
	safeZone        = 5 // x < safeZone && y < safeZone never gets noise
	spawnClear      = 8 // spawn region is 1..spawnClear-1 on both axes
	corridorEnd     = 15
	plazaRadius     = 3
	keyStopDistance = 3
	pathDoorPercent = 5
	keyZoneMin      = 20
	keyAttempts     = 1000 // random draws per key before scanning the zone
)

// DefaultKeysRequired is the number of keys per level, indexed by level-1.
var DefaultKeysRequired = []int{5, 7}

// Generator builds levels into a world state.
type Generator struct {
	// KeysRequired holds the key count per level; the last entry repeats.
	KeysRequired []int
	Logger       *log.Logger
}

// NewGenerator returns a generator with the default key schedule.
func NewGenerator(logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{KeysRequired: DefaultKeysRequired, Logger: logger}
}

// keyZone returns the rectangle keys are drawn from on a w×h map.
func keyZone(w, h int) core.Rect {
	return core.NewRect(keyZoneMin, keyZoneMin, max(0, w-25), max(0, h-25))
}

// MaxKeys is the largest key count a w×h map accepts: a quarter of the key
// zone, leaving room for the doors and treasure generated around the keys.
func MaxKeys(w, h int) int {
	z := keyZone(w, h)
	return z.W * z.H / 4
}

// KeysFor returns the number of keys the given level requires.
func (g *Generator) KeysFor(lvl int) int {
	keys := g.KeysRequired
	if len(keys) == 0 {
		keys = DefaultKeysRequired
	}
	if lvl-1 < len(keys) {
		return keys[lvl-1]
	}
	return keys[len(keys)-1]
}

// WallChance returns the noise density in percent for a level.
func WallChance(lvl int) int {
	return min(30+5*(lvl-1), 50)
}

// Generate rebuilds the map in st for the given level and resets the
// per-level objective counters. The caller must hold the store lock.
// An invalid level is logged and leaves st untouched.
func (g *Generator) Generate(st *world.State, lvl int, rng *rand.Rand) error {
	if lvl < 1 || lvl > world.MaxLevel {
		g.Logger.Error("refusing to generate level", "level", lvl, "max", world.MaxLevel)
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidLevel, lvl, world.MaxLevel)
	}

	w, h := st.Map.Width, st.Map.Height
	keys := g.KeysFor(lvl)
	if limit := MaxKeys(w, h); keys > limit {
		g.Logger.Error("too many keys for map", "level", lvl, "keys", keys, "max", limit)
		return fmt.Errorf("%w: level %d needs %d keys, a %dx%d map holds at most %d",
			ErrKeyPlacement, lvl, keys, w, h, limit)
	}

	// Build on a copy so a failure leaves st untouched.
	grid := st.Map.Clone()
	m := &grid

	fillBorder(m)
	addNoise(m, WallChance(lvl), rng)
	for i := 0; i < smoothPasses; i++ {
		smooth(m)
	}
	clearSpawn(m)

	for i := 0; i < 2; i++ {
		x := 15 + rng.Intn(w-25)
		y := 15 + rng.Intn(h-25)
		m.Set(x, y, world.TileDoor)
	}

	treasures := w*h/400 + (lvl - 1)
	for i := 0; i < treasures; i++ {
		x := rng.Intn(w-2) + 1
		y := rng.Intn(h-2) + 1
		if m.At(x, y) == world.TileEmpty {
			m.Set(x, y, world.TileTreasure)
		}
	}

	placeExit(m)
	clearPlaza(m)
	carve(m, m.Center(), world.Spawn, 0, nil)

	spawnTarget := core.Pt(3, 3)
	for i := 0; i < keys; i++ {
		p, ok := pickKeyCell(m, rng)
		if !ok {
			g.Logger.Error("key zone full", "level", lvl, "placed", i, "keys", keys)
			return fmt.Errorf("%w: placed %d of %d on level %d", ErrKeyPlacement, i, keys, lvl)
		}
		m.Set(p.X, p.Y, world.TileKey)

		target := spawnTarget
		if i%2 == 1 {
			target = m.Center()
		}
		carve(m, p, target, keyStopDistance, rng)
	}

	st.Map = grid
	st.KeysRequired = keys
	st.KeysCollected = 0
	st.ExitEnabled = false
	st.LevelComplete = false
	st.Level = lvl

	PlaceEnemies(st)

	g.Logger.Info("level generated", "level", lvl, "keys", st.KeysRequired, "walls", m.Count(world.TileWall))
	return nil
}

// pickKeyCell draws random Empty cells from the key zone. After keyAttempts
// misses it scans the zone for an Empty cell, then for a Wall the key path
// will carve open.
func pickKeyCell(m *world.Map, rng *rand.Rand) (core.Point, bool) {
	z := keyZone(m.Width, m.Height)
	if z.W <= 0 || z.H <= 0 {
		return core.Point{}, false
	}
	for i := 0; i < keyAttempts; i++ {
		x := z.X + rng.Intn(z.W)
		y := z.Y + rng.Intn(z.H)
		if m.At(x, y) == world.TileEmpty {
			return core.Pt(x, y), true
		}
	}
	for _, want := range []world.Tile{world.TileEmpty, world.TileWall} {
		for y := z.Y; y < z.Bottom(); y++ {
			for x := z.X; x < z.Right(); x++ {
				if m.Interior(x, y) && m.At(x, y) == want {
					return core.Pt(x, y), true
				}
			}
		}
	}
	return core.Point{}, false
}

func fillBorder(m *world.Map) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Interior(x, y) {
				m.Set(x, y, world.TileEmpty)
			} else {
				m.Set(x, y, world.TileWall)
			}
		}
	}
}

func addNoise(m *world.Map, percent int, rng *rand.Rand) {
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			if x < safeZone && y < safeZone {
				continue
			}
			if rng.Intn(100) < percent {
				m.Set(x, y, world.TileWall)
			}
		}
	}
}

// smooth runs one automaton pass. Neighbour counts read the pre-pass map.
func smooth(m *world.Map) {
	src := m.Clone()
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			walls := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if src.At(x+dx, y+dy) == world.TileWall {
						walls++
					}
				}
			}
			switch {
			case walls >= 5:
				m.Set(x, y, world.TileWall)
			case walls <= 2:
				m.Set(x, y, world.TileEmpty)
			}
		}
	}
}

func clearSpawn(m *world.Map) {
	for y := 1; y < spawnClear; y++ {
		for x := 1; x < spawnClear; x++ {
			m.Set(x, y, world.TileEmpty)
		}
	}
	for i := spawnClear; i < corridorEnd; i++ {
		m.Set(i, 4, world.TileEmpty)
		m.Set(i, 5, world.TileEmpty)
		m.Set(4, i, world.TileEmpty)
		m.Set(5, i, world.TileEmpty)
	}
	m.Set(corridorEnd-1, 4, world.TileDoor)
	m.Set(4, corridorEnd-1, world.TileDoor)
}

// placeExit opens the far corner pocket and carves a padded path from the
// exit to the centre.
func placeExit(m *world.Map) {
	ex, ey := m.Width-2, m.Height-2
	for y := ey - 1; y <= ey; y++ {
		for x := ex - 1; x <= ex; x++ {
			m.Set(x, y, world.TileEmpty)
		}
	}
	m.Set(ex, ey, world.TileExit)

	c := m.Center()
	x, y := ex, ey
	for x > c.X || y > c.Y {
		if x > c.X {
			x--
			m.Set(x, y, world.TileEmpty)
		}
		if y > c.Y {
			y--
			m.Set(x, y, world.TileEmpty)
		}
		if m.Interior(x+1, y) && m.At(x+1, y) != world.TileExit {
			m.Set(x+1, y, world.TileEmpty)
		}
		if m.Interior(x, y+1) && m.At(x, y+1) != world.TileExit {
			m.Set(x, y+1, world.TileEmpty)
		}
	}
}

func clearPlaza(m *world.Map) {
	c := m.Center()
	for y := c.Y - plazaRadius; y <= c.Y+plazaRadius; y++ {
		for x := c.X - plazaRadius; x <= c.X+plazaRadius; x++ {
			if m.At(x, y) == world.TileWall && m.Interior(x, y) {
				m.Set(x, y, world.TileEmpty)
			}
		}
	}
}

// carve walks from one cell toward another until both axis distances are at
// most stop, turning Walls into Empty. The axis with the strictly larger
// distance advances; ties advance x. With a non-nil rng, Empty steps become
// Doors pathDoorPercent of the time.
func carve(m *world.Map, from, to core.Point, stop int, rng *rand.Rand) {
	p := from
	for core.Abs(p.X-to.X) > stop || core.Abs(p.Y-to.Y) > stop {
		dx, dy := to.Sub(p)
		if core.Abs(dy) > core.Abs(dx) {
			p.Y += core.Sign(dy)
		} else {
			p.X += core.Sign(dx)
		}

		if m.At(p.X, p.Y) == world.TileWall && m.Interior(p.X, p.Y) {
			m.Set(p.X, p.Y, world.TileEmpty)
		}
		if rng != nil && rng.Intn(100) < pathDoorPercent && m.At(p.X, p.Y) == world.TileEmpty {
			m.Set(p.X, p.Y, world.TileDoor)
		}
	}
}

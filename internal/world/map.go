package world

import (
	"encoding/json"
	"strings"

	"github.com/vovakirdan/dungeon-conquerors/internal/core"
)

// Map is a W×H tile grid stored row-major. Readers take it by value so
// they work on snapshot copies; only Set needs a pointer.
type Map struct {
	Width  int
	Height int
	Tiles  []Tile
}

// NewMap allocates a map with every cell Empty.
func NewMap(w, h int) Map {
	return Map{Width: w, Height: h, Tiles: make([]Tile, w*h)}
}

// InBounds reports whether (x, y) is on the grid.
func (m Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Interior reports whether (x, y) is inside the border ring.
func (m Map) Interior(x, y int) bool {
	return x > 0 && x < m.Width-1 && y > 0 && y < m.Height-1
}

// At returns the tile at (x, y). Out-of-bounds cells read as Wall.
func (m Map) At(x, y int) Tile {
	if !m.InBounds(x, y) {
		return TileWall
	}
	return m.Tiles[y*m.Width+x]
}

// Set writes a tile. Out-of-bounds writes are ignored.
func (m *Map) Set(x, y int, t Tile) {
	if !m.InBounds(x, y) {
		return
	}
	m.Tiles[y*m.Width+x] = t
}

// Center returns the middle cell of the map.
func (m Map) Center() core.Point {
	return core.Pt(m.Width/2, m.Height/2)
}

// Count returns how many cells hold the given tile.
func (m Map) Count(t Tile) int {
	n := 0
	for _, c := range m.Tiles {
		if c == t {
			n++
		}
	}
	return n
}

// Find returns the first cell holding t in row-major order.
func (m Map) Find(t Tile) (core.Point, bool) {
	for i, c := range m.Tiles {
		if c == t {
			return core.Pt(i%m.Width, i/m.Width), true
		}
	}
	return core.Point{}, false
}

// Clone returns a deep copy.
func (m Map) Clone() Map {
	tiles := make([]Tile, len(m.Tiles))
	copy(tiles, m.Tiles)
	m.Tiles = tiles
	return m
}

// Rows renders the map as one glyph string per row.
func (m Map) Rows() []string {
	rows := make([]string, m.Height)
	var sb strings.Builder
	for y := 0; y < m.Height; y++ {
		sb.Reset()
		for x := 0; x < m.Width; x++ {
			sb.WriteRune(m.At(x, y).Glyph())
		}
		rows[y] = sb.String()
	}
	return rows
}

// String renders the map as newline-separated glyph rows.
func (m Map) String() string {
	return strings.Join(m.Rows(), "\n")
}

// MarshalJSON encodes the map as glyph rows, which keeps spectator frames small.
func (m Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Width  int      `json:"width"`
		Height int      `json:"height"`
		Rows   []string `json:"rows"`
	}{m.Width, m.Height, m.Rows()})
}

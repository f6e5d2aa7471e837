package world

import "fmt"

// Tile is the content of one map cell.
type Tile uint8

const (
	TileEmpty Tile = iota
	TileWall
	TileDoor
	TileTreasure
	TileExit
	TileKey
)

var tileNames = [...]string{"empty", "wall", "door", "treasure", "exit", "key"}

// String returns the tile name.
func (t Tile) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return fmt.Sprintf("tile(%d)", t)
}

// Glyph returns the ASCII glyph used by text dumps and the spectator feed.
func (t Tile) Glyph() rune {
	switch t {
	case TileEmpty:
		return '.'
	case TileWall:
		return '#'
	case TileDoor:
		return '+'
	case TileTreasure:
		return '$'
	case TileExit:
		return 'E'
	case TileKey:
		return 'k'
	}
	return '?'
}

// Passable reports whether something can stand on the tile.
func (t Tile) Passable() bool {
	return t != TileWall
}

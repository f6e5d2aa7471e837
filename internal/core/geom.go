package core

// Point is a cell coordinate on the dungeon grid.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the point offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) (dx, dy int) {
	return p.X - q.X, p.Y - q.Y
}

// DistSq returns the squared Euclidean distance between two points.
func (p Point) DistSq(q Point) int {
	dx, dy := p.Sub(q)
	return dx*dx + dy*dy
}

// Manhattan returns the taxicab distance between two points.
func (p Point) Manhattan(q Point) int {
	dx, dy := p.Sub(q)
	return Abs(dx) + Abs(dy)
}

// Rect represents an axis-aligned rectangle of cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Toward returns a unit step (-1 or 1) in the direction of delta.
// A zero delta steps negatively, matching the grid's "not greater" convention.
func Toward(delta int) int {
	if delta > 0 {
		return 1
	}
	return -1
}

// Package hexgrid implements odd-row offset hex coordinates: cube-distance
// math, parity-dependent neighbor lookup, and A* pathfinding on a bounded
// field. Rows with odd y are shifted half a tile to the right.
package hexgrid

// Coord is an odd-row offset hex coordinate. X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// cube converts an offset coordinate to cube coordinates.
// The y component is implied by x+y+z = 0 and never materialized.
func (c Coord) cube() (x, z int) {
	return c.X - (c.Y-(c.Y&1))/2, c.Y
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Coord) int {
	ax, az := a.cube()
	bx, bz := b.cube()
	ay := -ax - az
	by := -bx - bz
	return (abs(ax-bx) + abs(ay-by) + abs(az-bz)) / 2
}

// Neighbor offsets depend on row parity and must not be collapsed into a
// single table: odd rows sit half a tile to the right of even rows.
var (
	evenRowOffsets = [6]Coord{{1, 0}, {-1, 0}, {0, -1}, {-1, -1}, {0, 1}, {-1, 1}}
	oddRowOffsets  = [6]Coord{{1, 0}, {-1, 0}, {1, -1}, {0, -1}, {1, 1}, {0, 1}}
)

// Neighbors appends the six neighbors of c to dst and returns it. The order
// is fixed so callers iterating the result stay deterministic.
func Neighbors(c Coord, dst []Coord) []Coord {
	offsets := &evenRowOffsets
	if c.Y&1 == 1 {
		offsets = &oddRowOffsets
	}
	for _, o := range offsets {
		dst = append(dst, Coord{c.X + o.X, c.Y + o.Y})
	}
	return dst
}

// InBounds reports whether c lies on a width×height field.
func InBounds(c Coord, width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

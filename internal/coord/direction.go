package coord

// Direction is one of the eight compass headings a mob can step or face.
type Direction int8

const (
	DirNone Direction = iota - 1
	DirNorthWest
	DirNorth
	DirNorthEast
	DirWest
	DirEast
	DirSouthWest
	DirSouth
	DirSouthEast
)

var directionDeltas = [...][2]int{
	DirNorthWest: {-1, 1},
	DirNorth:     {0, 1},
	DirNorthEast: {1, 1},
	DirWest:      {-1, 0},
	DirEast:      {1, 0},
	DirSouthWest: {-1, -1},
	DirSouth:     {0, -1},
	DirSouthEast: {1, -1},
}

// Delta returns the (dx, dy) offset of one step in direction d.
func (d Direction) Delta() (int, int) {
	if d < 0 || int(d) >= len(directionDeltas) {
		return 0, 0
	}
	v := directionDeltas[d]
	return v[0], v[1]
}

// DirectionBetween returns the heading of a single step from a to b,
// or DirNone when the positions are equal or not adjacent.
func DirectionBetween(a, b Position) Direction {
	dx, dy := b.X-a.X, b.Y-a.Y
	for d, v := range directionDeltas {
		if v[0] == dx && v[1] == dy {
			return Direction(d)
		}
	}
	return DirNone
}

func (d Direction) String() string {
	switch d {
	case DirNorthWest:
		return "NW"
	case DirNorth:
		return "N"
	case DirNorthEast:
		return "NE"
	case DirWest:
		return "W"
	case DirEast:
		return "E"
	case DirSouthWest:
		return "SW"
	case DirSouth:
		return "S"
	case DirSouthEast:
		return "SE"
	default:
		return "none"
	}
}

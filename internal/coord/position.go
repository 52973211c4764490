package coord

import (
	"fmt"
	"math"
)

// Map geometry constants. A chunk is 8x8 tiles, a map region 64x64 tiles,
// and the world has four stacked levels (0 = ground floor).
const (
	ChunkSize  = 8
	RegionSize = 64
	Levels     = 4
)

// Position is a tile coordinate on one map level.
// It is a value type; copying a Position never aliases another entity's state.
type Position struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Level int `json:"level"`
}

// Key is the composite map key derived from a Position.
// Two equal positions always produce equal keys.
type Key struct {
	X, Y, Level int
}

func New(x, y, level int) Position {
	return Position{X: x, Y: y, Level: level}
}

func (p Position) Key() Key {
	return Key{X: p.X, Y: p.Y, Level: p.Level}
}

// ChunkX returns the chunk column containing the position (floor division by 8).
func (p Position) ChunkX() int { return p.X >> 3 }

// ChunkY returns the chunk row containing the position (floor division by 8).
func (p Position) ChunkY() int { return p.Y >> 3 }

// RegionX returns the 64-tile map region column.
func (p Position) RegionX() int { return p.X >> 6 }

// RegionY returns the 64-tile map region row.
func (p Position) RegionY() int { return p.Y >> 6 }

// Move returns a copy of p relocated to (x, y, level).
func (p Position) Move(x, y, level int) Position {
	return Position{X: x, Y: y, Level: level}
}

// Translate returns p shifted by (dx, dy) on the same level.
func (p Position) Translate(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Level: p.Level}
}

// Step returns the adjacent tile in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return p.Translate(dx, dy)
}

// Distance returns the floored euclidean distance, ignoring levels.
func (p Position) Distance(o Position) int {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return int(math.Floor(math.Sqrt(dx*dx + dy*dy)))
}

// Chebyshev returns max(|dx|, |dy|), ignoring levels.
func (p Position) Chebyshev(o Position) int {
	dx := abs(p.X - o.X)
	dy := abs(p.Y - o.Y)
	if dy > dx {
		return dy
	}
	return dx
}

// WithinDistance reports whether o is on the same level and within d tiles (Chebyshev).
func (p Position) WithinDistance(o Position, d int) bool {
	return p.Level == o.Level && p.Chebyshev(o) <= d
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Level)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package coord

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestPositionChunkCoordinates(t *testing.T) {
	tests := map[string]struct {
		pos    Position
		chunkX int
		chunkY int
	}{
		"origin":         {pos: New(0, 0, 0), chunkX: 0, chunkY: 0},
		"inside chunk":   {pos: New(7, 7, 0), chunkX: 0, chunkY: 0},
		"next chunk":     {pos: New(8, 15, 1), chunkX: 1, chunkY: 1},
		"lumbridge":      {pos: New(3222, 3218, 0), chunkX: 402, chunkY: 402},
		"negative floor": {pos: New(-1, -9, 0), chunkX: -1, chunkY: -2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "chunk x", tt.pos.ChunkX(), tt.chunkX)
			testutil.AssertEqual(t, "chunk y", tt.pos.ChunkY(), tt.chunkY)
		})
	}
}

func TestPositionKeyStable(t *testing.T) {
	a := New(3200, 3200, 2)
	b := New(3200, 3200, 2)
	c := New(3200, 3200, 1)

	testutil.AssertEqual(t, "equal keys", a.Key() == b.Key(), true)
	testutil.AssertEqual(t, "level differs", a.Key() == c.Key(), false)
}

func TestPositionDistances(t *testing.T) {
	a := New(10, 10, 0)
	b := New(13, 14, 0)

	testutil.AssertEqual(t, "euclidean", a.Distance(b), 5)
	testutil.AssertEqual(t, "chebyshev", a.Chebyshev(b), 4)
	testutil.AssertEqual(t, "within", a.WithinDistance(b, 4), true)
	testutil.AssertEqual(t, "other level", a.WithinDistance(New(13, 14, 1), 4), false)
}

func TestDirectionBetween(t *testing.T) {
	from := New(5, 5, 0)
	testutil.AssertEqual(t, "north", DirectionBetween(from, from.Step(DirNorth)), DirNorth)
	testutil.AssertEqual(t, "south west", DirectionBetween(from, from.Step(DirSouthWest)), DirSouthWest)
	testutil.AssertEqual(t, "same tile", DirectionBetween(from, from), DirNone)
	testutil.AssertEqual(t, "two tiles", DirectionBetween(from, from.Translate(2, 0)), DirNone)
}

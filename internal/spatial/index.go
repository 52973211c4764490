package spatial

import (
	"sort"

	"github.com/l1jgo/worldcore/internal/coord"
)

// cellSize is the side of one bucket in tiles.
const cellSize = 16

type cellKey struct {
	cx, cy int
}

func toCell(v int) int {
	if v < 0 {
		return (v - cellSize + 1) / cellSize
	}
	return v / cellSize
}

// Index is a bucketed point index for square range queries. Levels are not
// part of the key; callers filter by level when they care.
// Accessed only from the tick goroutine.
type Index[K comparable] struct {
	cells map[cellKey]map[K]coord.Position
	where map[K]coord.Position
}

func New[K comparable]() *Index[K] {
	return &Index[K]{
		cells: make(map[cellKey]map[K]coord.Position),
		where: make(map[K]coord.Position),
	}
}

// Insert adds k at p. An existing entry for k is removed first.
func (ix *Index[K]) Insert(k K, p coord.Position) {
	if _, ok := ix.where[k]; ok {
		ix.Remove(k)
	}
	ck := cellKey{toCell(p.X), toCell(p.Y)}
	cell := ix.cells[ck]
	if cell == nil {
		cell = make(map[K]coord.Position)
		ix.cells[ck] = cell
	}
	cell[k] = p
	ix.where[k] = p
}

// Remove deletes k. It reports whether k was present.
func (ix *Index[K]) Remove(k K) bool {
	p, ok := ix.where[k]
	if !ok {
		return false
	}
	delete(ix.where, k)
	ck := cellKey{toCell(p.X), toCell(p.Y)}
	if cell := ix.cells[ck]; cell != nil {
		delete(cell, k)
		if len(cell) == 0 {
			delete(ix.cells, ck)
		}
	}
	return true
}

// Move relocates k: the old entry is removed, then the new one inserted.
func (ix *Index[K]) Move(k K, p coord.Position) {
	ix.Remove(k)
	ix.Insert(k, p)
}

// Position returns the indexed position of k.
func (ix *Index[K]) Position(k K) (coord.Position, bool) {
	p, ok := ix.where[k]
	return p, ok
}

func (ix *Index[K]) Len() int { return len(ix.where) }

// Query returns every key inside the square of side distance centred on
// centre, i.e. |x - cx| <= distance/2 on both axes.
func (ix *Index[K]) Query(centre coord.Position, distance int) []K {
	if distance < 0 {
		return nil
	}
	half := (distance + 1) / 2
	minX, maxX := toCell(centre.X-half), toCell(centre.X+half)
	minY, maxY := toCell(centre.Y-half), toCell(centre.Y+half)

	type hit struct {
		k K
		p coord.Position
	}
	var hits []hit
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for k, p := range ix.cells[cellKey{cx, cy}] {
				if inSquare(centre, p, distance) {
					hits = append(hits, hit{k, p})
				}
			}
		}
	}
	// map iteration is random; order by position for reproducible results
	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i].p, hits[j].p
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Level < b.Level
	})
	out := make([]K, len(hits))
	for i, h := range hits {
		out[i] = h.k
	}
	return out
}

func inSquare(c, p coord.Position, d int) bool {
	dx := 2 * (p.X - c.X)
	dy := 2 * (p.Y - c.Y)
	return dx >= -d && dx <= d && dy >= -d && dy <= d
}

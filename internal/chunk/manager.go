package chunk

import (
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
	"go.uber.org/zap"
)

type regionKey struct{ x, y int }

// Manager owns every chunk, the active collision tile map and the cache of
// registered map regions.
// Accessed only from the tick goroutine.
type Manager struct {
	source  RegionSource
	log     *zap.Logger
	regions map[regionKey]*MapRegion
	tiles   map[coord.Key]Tile // only non-walkable and bridge tiles
	chunks  map[coord.Key]*Chunk
}

func NewManager(source RegionSource, log *zap.Logger) *Manager {
	return &Manager{
		source:  source,
		log:     log,
		regions: make(map[regionKey]*MapRegion),
		tiles:   make(map[coord.Key]Tile),
		chunks:  make(map[coord.Key]*Chunk),
	}
}

// RegisterMapRegion loads region (rx, ry) once. A region that fails to load
// is logged and registered as empty so it is never retried.
func (m *Manager) RegisterMapRegion(rx, ry int) *MapRegion {
	k := regionKey{rx, ry}
	if r, ok := m.regions[k]; ok {
		return r
	}

	var data *RegionData
	if m.source != nil {
		d, err := m.source.LoadRegion(rx, ry)
		if err != nil {
			m.log.Error("load map region",
				zap.Int("region_x", rx),
				zap.Int("region_y", ry),
				zap.Error(err),
			)
		} else {
			data = d
		}
	}
	if data == nil {
		data = &RegionData{}
	}

	r := &MapRegion{
		X:       rx,
		Y:       ry,
		OriginX: (rx & 0xff) * coord.RegionSize,
		OriginY: ry * coord.RegionSize,
		Data:    data,
	}
	m.regions[k] = r

	tiles := make([]Tile, 0, 64)
	for level := 0; level < coord.Levels; level++ {
		for x := 0; x < coord.RegionSize; x++ {
			for y := 0; y < coord.RegionSize; y++ {
				s := data.Settings[level][x][y]
				if s == 0 {
					continue
				}
				tiles = append(tiles, Tile{X: r.OriginX + x, Y: r.OriginY + y, Level: level, Settings: s})
			}
		}
	}
	m.RegisterTiles(tiles)
	m.RegisterObjects(data.Objects, r.OriginX, r.OriginY)
	return r
}

// RegisterTiles adds tiles to the collision map in order. A bridge tile
// writes a blank companion tile one level below and then itself; a
// non-walkable tile is only written if nothing occupies its key yet.
func (m *Manager) RegisterTiles(tiles []Tile) {
	for _, t := range tiles {
		switch {
		case t.Bridge():
			below := Tile{X: t.X, Y: t.Y, Level: t.Level - 1}
			m.tiles[below.Key()] = below
			m.tiles[t.Key()] = t
		case t.NonWalkable():
			if _, ok := m.tiles[t.Key()]; !ok {
				m.tiles[t.Key()] = t
			}
		}
	}
}

// RegisterObjects places region-local objects into their chunks. The level
// used for chunk placement drops by one if the object's tile is a bridge
// and by one more if the tile above it is a bridge.
func (m *Manager) RegisterObjects(objects []LandscapeObject, originX, originY int) {
	for _, o := range objects {
		o.X += originX
		o.Y += originY
		pos := o.Position()

		if t, ok := m.tiles[coord.Key{X: o.X, Y: o.Y, Level: o.Level}]; ok && t.Bridge() {
			pos.Level--
		}
		if t, ok := m.tiles[coord.Key{X: o.X, Y: o.Y, Level: o.Level + 1}]; ok && t.Bridge() {
			pos.Level--
		}

		m.ChunkForWorldPosition(pos).SetFilestoreObject(o)
	}
}

// EnsureRegionsAround registers the region containing p and its eight
// neighbours.
func (m *Manager) EnsureRegionsAround(p coord.Position) {
	rx, ry := p.RegionX(), p.RegionY()
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if rx+dx < 0 || ry+dy < 0 {
				continue
			}
			m.RegisterMapRegion(rx+dx, ry+dy)
		}
	}
}

// GetChunk returns the chunk at chunk coordinates (x, y, level), creating it
// on first use. Equal coordinates always return the same instance.
func (m *Manager) GetChunk(x, y, level int) *Chunk {
	k := coord.Key{X: x, Y: y, Level: level}
	if c, ok := m.chunks[k]; ok {
		return c
	}
	c := newChunk(x, y, level)
	m.chunks[k] = c
	return c
}

func (m *Manager) ChunkForWorldPosition(p coord.Position) *Chunk {
	return m.GetChunk(p.ChunkX(), p.ChunkY(), p.Level)
}

// SurroundingChunks returns the 5x5 block of chunks centred on c, c included.
func (m *Manager) SurroundingChunks(c *Chunk) []*Chunk {
	out := make([]*Chunk, 0, 25)
	for x := c.X - 2; x <= c.X+2; x++ {
		for y := c.Y - 2; y <= c.Y+2; y++ {
			out = append(out, m.GetChunk(x, y, c.Level))
		}
	}
	return out
}

// RegionIDForWorldPosition packs the 64-tile region coordinates into one id.
func (m *Manager) RegionIDForWorldPosition(p coord.Position) int {
	return ((p.X >> 6) << 8) + (p.Y >> 6)
}

// Tile returns the active collision tile at (x, y, level), if any.
func (m *Manager) Tile(x, y, level int) (Tile, bool) {
	t, ok := m.tiles[coord.Key{X: x, Y: y, Level: level}]
	return t, ok
}

// IsBlocked reports whether a mob may not stand on p: the tile is
// non-walkable, or a solid object occupies it.
func (m *Manager) IsBlocked(p coord.Position) bool {
	if t, ok := m.tiles[p.Key()]; ok && t.NonWalkable() {
		return true
	}
	for _, o := range m.ChunkForWorldPosition(p).ObjectsAt(p.X, p.Y) {
		if o.Type != ObjectTypeGroundDecoration {
			return true
		}
	}
	return false
}

// NearbyPlayers collects the players of the 5x5 neighbourhood around p.
func (m *Manager) NearbyPlayers(p coord.Position) []*entity.Player {
	var out []*entity.Player
	for _, c := range m.SurroundingChunks(m.ChunkForWorldPosition(p)) {
		out = append(out, c.Players()...)
	}
	return out
}

func (m *Manager) RegionCount() int { return len(m.regions) }
func (m *Manager) ChunkCount() int  { return len(m.chunks) }
func (m *Manager) TileCount() int   { return len(m.tiles) }

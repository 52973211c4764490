package chunk

import (
	"errors"
	"testing"

	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/pixil98/go-testutil"
	"go.uber.org/zap"
)

type fakeSource struct {
	regions map[regionKey]*RegionData
	calls   int
}

func (f *fakeSource) LoadRegion(rx, ry int) (*RegionData, error) {
	f.calls++
	d, ok := f.regions[regionKey{rx, ry}]
	if !ok {
		return nil, errors.New("no such region")
	}
	return d, nil
}

func TestBridgeTileRegistersBothLevels(t *testing.T) {
	m := NewManager(nil, zap.NewNop())
	m.RegisterTiles([]Tile{{X: 3200, Y: 3200, Level: 1, Settings: SettingBridge}})

	upper, ok := m.Tile(3200, 3200, 1)
	testutil.AssertEqual(t, "bridge present", ok, true)
	testutil.AssertEqual(t, "bridge flag", upper.Bridge(), true)

	lower, ok := m.Tile(3200, 3200, 0)
	testutil.AssertEqual(t, "companion present", ok, true)
	testutil.AssertEqual(t, "companion blank", lower.Settings, byte(0))
}

func TestNonWalkableDoesNotOverwrite(t *testing.T) {
	m := NewManager(nil, zap.NewNop())
	m.RegisterTiles([]Tile{
		{X: 10, Y: 10, Level: 1, Settings: SettingBridge},
		{X: 10, Y: 10, Level: 0, Settings: SettingNonWalkable},
	})

	lower, _ := m.Tile(10, 10, 0)
	testutil.AssertEqual(t, "companion kept", lower.NonWalkable(), false)

	m.RegisterTiles([]Tile{{X: 11, Y: 10, Level: 0, Settings: 0}})
	_, ok := m.Tile(11, 10, 0)
	testutil.AssertEqual(t, "walkable not stored", ok, false)
}

func TestObjectLevelShift(t *testing.T) {
	tests := map[string]struct {
		tiles []Tile
		exp   int
	}{
		"plain": {
			exp: 1,
		},
		"on bridge": {
			tiles: []Tile{{X: 100, Y: 100, Level: 1, Settings: SettingBridge}},
			exp:   0,
		},
		"under bridge": {
			tiles: []Tile{{X: 100, Y: 100, Level: 2, Settings: SettingBridge}},
			exp:   0,
		},
		"on and under bridge": {
			// upper first so the lower bridge is not blanked by its companion
			tiles: []Tile{
				{X: 100, Y: 100, Level: 2, Settings: SettingBridge},
				{X: 100, Y: 100, Level: 1, Settings: SettingBridge},
			},
			exp: -1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewManager(nil, zap.NewNop())
			m.RegisterTiles(tt.tiles)
			m.RegisterObjects([]LandscapeObject{{ObjectID: 1276, X: 100, Y: 100, Level: 1, Type: 10}}, 0, 0)

			c := m.GetChunk(100>>3, 100>>3, tt.exp)
			_, ok := c.FilestoreObject(100, 100, 1276)
			testutil.AssertEqual(t, "placed at level", ok, true)
		})
	}
}

func TestRegisterMapRegionOffsetsAndCaches(t *testing.T) {
	data := &RegionData{}
	data.Settings[0][5][6] = SettingNonWalkable
	data.Objects = []LandscapeObject{{ObjectID: 1530, X: 1, Y: 2, Level: 0, Type: 0}}
	src := &fakeSource{regions: map[regionKey]*RegionData{{50, 50}: data}}

	m := NewManager(src, zap.NewNop())
	r := m.RegisterMapRegion(50, 50)
	again := m.RegisterMapRegion(50, 50)

	testutil.AssertEqual(t, "cached", r == again, true)
	testutil.AssertEqual(t, "loads", src.calls, 1)
	testutil.AssertEqual(t, "origin x", r.OriginX, 3200)
	testutil.AssertEqual(t, "origin y", r.OriginY, 3200)

	tile, ok := m.Tile(3205, 3206, 0)
	testutil.AssertEqual(t, "tile registered", ok, true)
	testutil.AssertEqual(t, "tile blocks", tile.NonWalkable(), true)

	testutil.AssertEqual(t, "tile blocked", m.IsBlocked(coord.New(3205, 3206, 0)), true)
	testutil.AssertEqual(t, "object blocked", m.IsBlocked(coord.New(3201, 3202, 0)), true)
	testutil.AssertEqual(t, "open", m.IsBlocked(coord.New(3210, 3210, 0)), false)
}

func TestRegisterMapRegionLoadFailureIsEmpty(t *testing.T) {
	src := &fakeSource{}
	m := NewManager(src, zap.NewNop())
	r := m.RegisterMapRegion(1, 1)
	m.RegisterMapRegion(1, 1)

	testutil.AssertEqual(t, "loads", src.calls, 1)
	testutil.AssertEqual(t, "objects", len(r.Data.Objects), 0)
	testutil.AssertEqual(t, "regions", m.RegionCount(), 1)
}

func TestGetChunkReferentiallyStable(t *testing.T) {
	m := NewManager(nil, zap.NewNop())
	a := m.GetChunk(400, 400, 0)
	b := m.GetChunk(400, 400, 0)
	c := m.ChunkForWorldPosition(coord.New(3200, 3207, 0))

	testutil.AssertEqual(t, "same instance", a == b, true)
	testutil.AssertEqual(t, "via world position", a == c, true)
	testutil.AssertEqual(t, "other level", a == m.GetChunk(400, 400, 1), false)
	testutil.AssertEqual(t, "chunks", m.ChunkCount(), 2)
}

func TestSurroundingChunks(t *testing.T) {
	m := NewManager(nil, zap.NewNop())
	centre := m.GetChunk(400, 400, 0)
	around := m.SurroundingChunks(centre)

	testutil.AssertEqual(t, "count", len(around), 25)
	seen := map[*Chunk]bool{}
	for _, c := range around {
		seen[c] = true
		if c.Level != 0 || c.X < 398 || c.X > 402 || c.Y < 398 || c.Y > 402 {
			t.Fatalf("chunk outside neighbourhood: %d,%d,%d", c.X, c.Y, c.Level)
		}
	}
	testutil.AssertEqual(t, "distinct", len(seen), 25)
	testutil.AssertEqual(t, "includes centre", seen[centre], true)
}

func TestRegionIDForWorldPosition(t *testing.T) {
	m := NewManager(nil, zap.NewNop())
	testutil.AssertEqual(t, "lumbridge", m.RegionIDForWorldPosition(coord.New(3222, 3218, 0)), 12850)
	testutil.AssertEqual(t, "origin", m.RegionIDForWorldPosition(coord.New(0, 0, 0)), 0)
}

func TestChunkObjectMarkers(t *testing.T) {
	m := NewManager(nil, zap.NewNop())
	door := LandscapeObject{ObjectID: 1530, X: 3200, Y: 3200, Level: 0, Type: 0}
	m.RegisterObjects([]LandscapeObject{door}, 0, 0)
	c := m.ChunkForWorldPosition(door.Position())
	pos := door.Position()

	c.RemoveObject(door, pos, true)
	testutil.AssertEqual(t, "removed marker", c.HasRemovedMarker(door, pos), true)
	testutil.AssertEqual(t, "no objects", len(c.ObjectsAt(3200, 3200)), 0)

	c.AddObject(door, pos)
	testutil.AssertEqual(t, "marker cleared", c.HasRemovedMarker(door, pos), false)
	testutil.AssertEqual(t, "not added", c.HasAddedMarker(door, pos), false)
	testutil.AssertEqual(t, "restored", len(c.ObjectsAt(3200, 3200)), 1)

	open := LandscapeObject{ObjectID: 1531, Type: 0}
	openPos := coord.New(3201, 3200, 0)
	c.AddObject(open, openPos)
	testutil.AssertEqual(t, "added marker", c.HasAddedMarker(open, openPos), true)
	testutil.AssertEqual(t, "added coords", c.AddedObjects()[0].X, 3201)

	c.RemoveObject(open, openPos, false)
	testutil.AssertEqual(t, "added cleared", c.HasAddedMarker(open, openPos), false)
	testutil.AssertEqual(t, "not marked", c.HasRemovedMarker(open, openPos), false)
}

func TestChunkMembersSortedBySlot(t *testing.T) {
	c := newChunk(0, 0, 0)
	a := entity.NewPlayer("a", coord.New(0, 0, 0))
	b := entity.NewPlayer("b", coord.New(0, 0, 0))
	a.SetSlot(5)
	b.SetSlot(2)
	c.AddPlayer(a)
	c.AddPlayer(b)

	ps := c.Players()
	testutil.AssertEqual(t, "first", ps[0].Username, "b")
	testutil.AssertEqual(t, "second", ps[1].Username, "a")

	c.RemovePlayer(a)
	testutil.AssertEqual(t, "count", c.PlayerCount(), 1)
}

func TestWorldItemRemovedOnce(t *testing.T) {
	viewer := entity.NewPlayer("a", coord.New(0, 0, 0))
	other := entity.NewPlayer("b", coord.New(0, 0, 0))
	w := NewWorldItem(995, 10, coord.New(0, 0, 0), viewer, 5)

	testutil.AssertEqual(t, "viewer sees", w.VisibleTo(viewer), true)
	testutil.AssertEqual(t, "other hidden", w.VisibleTo(other), false)
	testutil.AssertEqual(t, "first remove", w.MarkRemoved(), true)
	testutil.AssertEqual(t, "second remove", w.MarkRemoved(), false)
	testutil.AssertEqual(t, "viewer after", w.VisibleTo(viewer), false)
}

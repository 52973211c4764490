package chunk

import "github.com/l1jgo/worldcore/internal/coord"

// Tile settings bits.
const (
	SettingNonWalkable byte = 0x1
	SettingBridge      byte = 0x2
)

// ObjectTypeGroundDecoration objects never block movement.
const ObjectTypeGroundDecoration = 22

// Tile is one map cell's collision settings.
type Tile struct {
	X        int
	Y        int
	Level    int
	Settings byte
}

func (t Tile) NonWalkable() bool { return t.Settings&SettingNonWalkable != 0 }
func (t Tile) Bridge() bool      { return t.Settings&SettingBridge != 0 }

func (t Tile) Key() coord.Key { return coord.Key{X: t.X, Y: t.Y, Level: t.Level} }

// LandscapeObject is a static or dynamically placed map object.
type LandscapeObject struct {
	ObjectID int `yaml:"id" json:"objectId"`
	X        int `yaml:"x" json:"x"`
	Y        int `yaml:"y" json:"y"`
	Level    int `yaml:"level" json:"level"`
	Type     int `yaml:"type" json:"type"`
	Rotation int `yaml:"rotation" json:"rotation"`
}

func (o LandscapeObject) Position() coord.Position {
	return coord.New(o.X, o.Y, o.Level)
}

// ObjectKey identifies an object marker within a chunk: its tile and id.
type ObjectKey struct {
	X, Y     int
	ObjectID int
}

func keyFor(o LandscapeObject, p coord.Position) ObjectKey {
	return ObjectKey{X: p.X, Y: p.Y, ObjectID: o.ObjectID}
}

// RegionData is the raw content of one 64x64 map region. Tile settings are
// indexed [level][localX][localY]; object coordinates are region-local.
type RegionData struct {
	Settings [coord.Levels][coord.RegionSize][coord.RegionSize]byte
	Objects  []LandscapeObject
}

// RegionSource supplies map region data.
type RegionSource interface {
	LoadRegion(regionX, regionY int) (*RegionData, error)
}

// MapRegion is a registered region, cached for the life of the process.
type MapRegion struct {
	X, Y    int
	OriginX int
	OriginY int
	Data    *RegionData
}

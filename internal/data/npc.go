package data

import (
	"strings"

	"github.com/l1jgo/worldcore/internal/coord"
)

// NpcDef holds static data for an NPC type.
type NpcDef struct {
	NpcID       int      `yaml:"id"`
	Name        string   `yaml:"name"`
	CombatLevel int      `yaml:"combat_level"`
	Options     []string `yaml:"options"` // right-click menu entries
}

// NpcSpawn places one NPC in the world.
type NpcSpawn struct {
	NpcID  int    `yaml:"npcId"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Level  int    `yaml:"level"`
	Radius int    `yaml:"radius"` // wander radius, 0 = stationary
	Face   string `yaml:"face"`   // NORTH, SOUTH_WEST, ...
}

func (s NpcSpawn) Position() coord.Position {
	return coord.New(s.X, s.Y, s.Level)
}

// Direction parses Face; unknown or empty values face south.
func (s NpcSpawn) Direction() coord.Direction {
	switch strings.ToUpper(strings.ReplaceAll(s.Face, "-", "_")) {
	case "NORTH":
		return coord.DirNorth
	case "NORTH_EAST":
		return coord.DirNorthEast
	case "EAST":
		return coord.DirEast
	case "SOUTH_EAST":
		return coord.DirSouthEast
	case "WEST":
		return coord.DirWest
	case "NORTH_WEST":
		return coord.DirNorthWest
	case "SOUTH_WEST":
		return coord.DirSouthWest
	default:
		return coord.DirSouth
	}
}

type npcListFile struct {
	Npcs []NpcDef `yaml:"npcs"`
}

type spawnListFile struct {
	Spawns []NpcSpawn `yaml:"spawns"`
}

// NpcTable holds all NPC definitions indexed by id.
type NpcTable struct {
	defs map[int]*NpcDef
}

func NewNpcTable(defs []NpcDef) *NpcTable {
	t := &NpcTable{defs: make(map[int]*NpcDef, len(defs))}
	for i := range defs {
		d := &defs[i]
		t.defs[d.NpcID] = d
	}
	return t
}

// LoadNpcTable loads NPC definitions from a YAML file.
func LoadNpcTable(path string) (*NpcTable, error) {
	var f npcListFile
	if err := readYAML(path, "npcs", &f); err != nil {
		return nil, err
	}
	return NewNpcTable(f.Npcs), nil
}

func (t *NpcTable) Get(npcID int) (*NpcDef, bool) {
	d, ok := t.defs[npcID]
	return d, ok
}

func (t *NpcTable) Count() int {
	return len(t.defs)
}

// LoadSpawnList loads NPC spawn entries from a YAML file.
func LoadSpawnList(path string) ([]NpcSpawn, error) {
	var f spawnListFile
	if err := readYAML(path, "npc_spawns", &f); err != nil {
		return nil, err
	}
	return f.Spawns, nil
}

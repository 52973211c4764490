package data

import (
	"path/filepath"

	"go.uber.org/zap"
)

// Tables bundles the static definitions the world needs at startup.
type Tables struct {
	Items   *ItemTable
	Npcs    *NpcTable
	Objects *ObjectTable
	Shops   *ShopTable
	Spawns  []NpcSpawn
}

// LoadTables reads every table under dir. A table that fails to load is
// logged and replaced by an empty one so the server still starts.
func LoadTables(dir string, log *zap.Logger) *Tables {
	t := &Tables{}

	items, err := LoadItemTable(filepath.Join(dir, "items.yaml"))
	if err != nil {
		log.Error("load items", zap.Error(err))
		items = NewItemTable(nil)
	}
	t.Items = items

	npcs, err := LoadNpcTable(filepath.Join(dir, "npcs.yaml"))
	if err != nil {
		log.Error("load npcs", zap.Error(err))
		npcs = NewNpcTable(nil)
	}
	t.Npcs = npcs

	objects, err := LoadObjectTable(filepath.Join(dir, "objects.yaml"))
	if err != nil {
		log.Error("load objects", zap.Error(err))
		objects = NewObjectTable(nil)
	}
	t.Objects = objects

	shops, err := LoadShopTable(filepath.Join(dir, "shops.yaml"))
	if err != nil {
		log.Error("load shops", zap.Error(err))
		shops = NewShopTable(nil)
	}
	t.Shops = shops

	spawns, err := LoadSpawnList(filepath.Join(dir, "npc_spawns.yaml"))
	if err != nil {
		log.Error("load npc spawns", zap.Error(err))
	}
	t.Spawns = spawns

	log.Info("static data loaded",
		zap.Int("items", t.Items.Count()),
		zap.Int("npcs", t.Npcs.Count()),
		zap.Int("objects", t.Objects.Count()),
		zap.Int("shops", t.Shops.Count()),
		zap.Int("spawns", len(t.Spawns)),
	)
	return t
}

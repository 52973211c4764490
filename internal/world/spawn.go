package world

import (
	"fmt"

	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/data"
	"github.com/l1jgo/worldcore/internal/entity"
	"go.uber.org/zap"
)

// FakeSpawnOrigin is where generated load-test players are placed.
var FakeSpawnOrigin = coord.New(3222, 3222, 0)

// SpawnNpcs registers one npc per spawn entry and returns how many were
// placed. Entries naming an npc id missing from npcs are skipped.
func (w *World) SpawnNpcs(spawns []data.NpcSpawn, npcs *data.NpcTable) int {
	count := 0
	for _, s := range spawns {
		def, ok := npcs.Get(s.NpcID)
		if !ok {
			w.log.Warn("unknown npc in spawn list",
				zap.Int("npc_id", s.NpcID),
				zap.Stringer("pos", s.Position()),
			)
			continue
		}
		n := entity.NewNpc(def.NpcID, def.Name, s.Position(), s.Radius, s.Direction())
		if err := w.RegisterNpc(n); err != nil {
			w.log.Error("spawn npc", zap.Int("npc_id", s.NpcID), zap.Error(err))
			break
		}
		count++
	}
	return count
}

// GenerateFakePlayers fills the world with n wandering players laid out in
// rows of 21 south of FakeSpawnOrigin.
func (w *World) GenerateFakePlayers(n int) int {
	xOffset, yOffset := 0, 0
	count := 0
	for i := 0; i < n; i++ {
		xOffset++
		if xOffset > 20 {
			xOffset = 0
			yOffset--
		}
		p := entity.NewPlayer(fmt.Sprintf("test%d", i), FakeSpawnOrigin.Translate(xOffset, yOffset))
		p.Fake = true
		if err := w.RegisterPlayer(p); err != nil {
			w.log.Warn("fake players stopped", zap.Int("registered", count), zap.Error(err))
			break
		}
		count++
	}
	return count
}

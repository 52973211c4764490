package persist

import (
	"context"
	"time"

	coresys "github.com/l1jgo/worldcore/internal/core/system"
	"github.com/l1jgo/worldcore/internal/entity"
	"go.uber.org/zap"
)

// AutosaveSystem snapshots every online player each interval ticks.
// Phase 5 (Persist).
type AutosaveSystem struct {
	players   func() []*entity.Player
	saves     Saves
	log       *zap.Logger
	tickCount int
	interval  int
}

// NewAutosaveSystem returns a system that saves every intervalTicks ticks.
// An interval of zero disables periodic saves; SaveAll still works.
func NewAutosaveSystem(players func() []*entity.Player, saves Saves, log *zap.Logger, intervalTicks int) *AutosaveSystem {
	return &AutosaveSystem{
		players:  players,
		saves:    saves,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *AutosaveSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *AutosaveSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	if n := s.SaveAll(); n > 0 {
		s.log.Info("autosave complete", zap.Int("players", n))
	}
}

// SaveAll persists every real player immediately and returns how many were
// written. Called on shutdown.
func (s *AutosaveSystem) SaveAll() int {
	count := 0
	for _, p := range s.players() {
		if s.SavePlayer(p) {
			count++
		}
	}
	return count
}

// SavePlayer writes one snapshot. Fake players are skipped.
func (s *AutosaveSystem) SavePlayer(p *entity.Player) bool {
	if p.Fake {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.saves.Save(ctx, p.Snapshot()); err != nil {
		s.log.Error("save player failed", zap.String("player", p.Username), zap.Error(err))
		return false
	}
	return true
}

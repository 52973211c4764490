package entity

import (
	"github.com/l1jgo/worldcore/internal/action"
	"github.com/l1jgo/worldcore/internal/coord"
)

// NoSlot marks a mob that is not registered in any arena.
const NoSlot = -1

// UpdateFlags are per-tick transient markers consumed by the sync phase and
// cleared in the reset phase.
type UpdateFlags struct {
	MapRegionUpdateRequired  bool
	AppearanceUpdateRequired bool
	Moved                    bool
	Teleported               bool
	Face                     coord.Direction
	Animation                int // -1 = none
	ChatMessage              string
}

func (f *UpdateFlags) Reset() {
	*f = UpdateFlags{Face: coord.DirNone, Animation: -1}
}

// Mob is the state shared by players and NPCs.
// Accessed only from the tick goroutine.
type Mob struct {
	slot     int
	pos      coord.Position
	lastPos  coord.Position
	walk     []coord.Position
	Running  bool
	Flags    UpdateFlags
	pipeline *action.Pipeline
}

func newMob(pos coord.Position) Mob {
	m := Mob{
		slot:     NoSlot,
		pos:      pos,
		lastPos:  pos,
		pipeline: action.NewPipeline(),
	}
	m.Flags.Reset()
	return m
}

func (m *Mob) Slot() int        { return m.slot }
func (m *Mob) SetSlot(slot int) { m.slot = slot }

func (m *Mob) Position() coord.Position     { return m.pos }
func (m *Mob) LastPosition() coord.Position { return m.lastPos }

// SetPosition records the previous position and moves the mob. Callers that
// maintain chunk membership or spatial indices must update them too.
func (m *Mob) SetPosition(p coord.Position) {
	m.lastPos = m.pos
	m.pos = p
}

func (m *Mob) Pipeline() *action.Pipeline { return m.pipeline }

// QueueWalk replaces the pending walk path.
func (m *Mob) QueueWalk(path []coord.Position) {
	m.walk = append(m.walk[:0], path...)
}

func (m *Mob) ClearWalk() { m.walk = m.walk[:0] }

func (m *Mob) Walking() bool { return len(m.walk) > 0 }

// NextStep pops the next queued tile.
func (m *Mob) NextStep() (coord.Position, bool) {
	if len(m.walk) == 0 {
		return coord.Position{}, false
	}
	p := m.walk[0]
	m.walk = m.walk[1:]
	return p, true
}

// StepsPerTick is 2 while running, 1 otherwise.
func (m *Mob) StepsPerTick() int {
	if m.Running {
		return 2
	}
	return 1
}

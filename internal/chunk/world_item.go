package chunk

import (
	"github.com/google/uuid"
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
)

// WorldItem is an item lying on the ground.
type WorldItem struct {
	ID       uuid.UUID
	ItemID   int
	Amount   int
	Position coord.Position
	Viewer   *entity.Player // only player who can see it while private; nil = public
	Expires  int            // ticks until automatic removal, 0 = never

	removed bool
}

func NewWorldItem(itemID, amount int, pos coord.Position, viewer *entity.Player, expires int) *WorldItem {
	return &WorldItem{
		ID:       uuid.New(),
		ItemID:   itemID,
		Amount:   amount,
		Position: pos,
		Viewer:   viewer,
		Expires:  expires,
	}
}

func (w *WorldItem) Removed() bool { return w.removed }

// MarkRemoved sets the removed flag. It reports true only for the call that
// performed the transition.
func (w *WorldItem) MarkRemoved() bool {
	if w.removed {
		return false
	}
	w.removed = true
	return true
}

func (w *WorldItem) Private() bool { return w.Viewer != nil }

// VisibleTo reports whether p should currently see the item.
func (w *WorldItem) VisibleTo(p *entity.Player) bool {
	if w.removed {
		return false
	}
	return w.Viewer == nil || w.Viewer == p
}

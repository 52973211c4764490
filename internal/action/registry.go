package action

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/l1jgo/worldcore/internal/coord"
	"go.uber.org/zap"
)

// Kind enumerates the inbound interactions content can hook.
type Kind int

const (
	KindNpcInteraction Kind = iota
	KindObjectInteraction
	KindItemInteraction
	KindItemOnItem
	KindItemOnObject
	KindItemOnPlayer
	KindItemOnNpc
	KindButton
	KindCommand
	KindPlayerInit
	KindMagicOnNpc
	kindCount
)

var kindNames = [...]string{
	KindNpcInteraction:    "npc_interaction",
	KindObjectInteraction: "object_interaction",
	KindItemInteraction:   "item_interaction",
	KindItemOnItem:        "item_on_item",
	KindItemOnObject:      "item_on_object",
	KindItemOnPlayer:      "item_on_player",
	KindItemOnNpc:         "item_on_npc",
	KindButton:            "button",
	KindCommand:           "command",
	KindPlayerInit:        "player_init",
	KindMagicOnNpc:        "magic_on_npc",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a kind by its snake_case name.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Actor is an entity that can be the subject of a dispatched event.
type Actor interface {
	Pipeline() *Pipeline
	QuestStage(questID string) int
}

// Event is a decoded inbound interaction.
type Event struct {
	Kind        Kind
	Actor       Actor
	ID          int // npc id, object id, item id, button id
	SecondaryID int // used item id for item-on-x
	Option      string
	WidgetID    int
	ContainerID int
	Slot        int
	Command     string
	Args        []string
	Target      any
	Position    coord.Position
	Payload     any
}

// QuestGate restricts a hook to actors at a given quest progress. When
// Stages is non-empty it takes precedence over Stage.
type QuestGate struct {
	QuestID string
	Stage   int
	Stages  []int
}

func (q *QuestGate) permits(a Actor) bool {
	stage := a.QuestStage(q.QuestID)
	if len(q.Stages) > 0 {
		return slices.Contains(q.Stages, stage)
	}
	return stage == q.Stage
}

// Hook is a content handler with inspectable match data. Empty match sets
// match every event of the hook's kind.
type Hook struct {
	Name         string
	Priority     int
	IDs          []int
	Options      []string
	WidgetIDs    []int
	Commands     []string
	Quest        *QuestGate
	CancelOthers bool
	Handler      func(*Event) error
}

func (h *Hook) matches(ev *Event) bool {
	if len(h.IDs) > 0 && !slices.Contains(h.IDs, ev.ID) {
		return false
	}
	if len(h.WidgetIDs) > 0 && !slices.Contains(h.WidgetIDs, ev.WidgetID) {
		return false
	}
	if len(h.Options) > 0 && !containsFold(h.Options, ev.Option) {
		return false
	}
	if len(h.Commands) > 0 && !containsFold(h.Commands, ev.Command) {
		return false
	}
	return true
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// Registry maps interaction kinds to ordered hook lists.
type Registry struct {
	hooks [kindCount][]Hook
	log   *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log}
}

// Register adds a hook and re-sorts the kind's list: quest-gated hooks
// first, then by descending priority, otherwise in registration order.
func (r *Registry) Register(kind Kind, h Hook) error {
	if kind < 0 || kind >= kindCount {
		return fmt.Errorf("register hook %q: unknown kind %d", h.Name, int(kind))
	}
	if h.Handler == nil {
		return fmt.Errorf("register hook %q: nil handler", h.Name)
	}
	list := append(r.hooks[kind], h)
	sort.SliceStable(list, func(i, j int) bool {
		gi, gj := list[i].Quest != nil, list[j].Quest != nil
		if gi != gj {
			return gi
		}
		return list[i].Priority > list[j].Priority
	})
	r.hooks[kind] = list
	return nil
}

// Hooks returns the ordered hooks registered for kind.
func (r *Registry) Hooks(kind Kind) []Hook {
	if kind < 0 || kind >= kindCount {
		return nil
	}
	return r.hooks[kind]
}

func (r *Registry) Count() int {
	n := 0
	for _, l := range r.hooks {
		n += len(l)
	}
	return n
}

// Dispatch runs the first hook that matches ev and whose quest gate permits
// the actor. It reports whether a hook ran. Handler errors and panics are
// contained here.
func (r *Registry) Dispatch(ev *Event) bool {
	for i := range r.Hooks(ev.Kind) {
		h := &r.hooks[ev.Kind][i]
		if !h.matches(ev) {
			continue
		}
		if h.Quest != nil && (ev.Actor == nil || !h.Quest.permits(ev.Actor)) {
			continue
		}
		if h.CancelOthers && ev.Actor != nil {
			ev.Actor.Pipeline().Cancel()
		}
		r.safeCall(h, ev)
		return true
	}
	r.log.Debug("no hook for event",
		zap.Stringer("kind", ev.Kind),
		zap.Int("id", ev.ID),
		zap.String("option", ev.Option),
	)
	return false
}

func (r *Registry) safeCall(h *Hook, ev *Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("hook panic",
				zap.String("hook", h.Name),
				zap.Stringer("kind", ev.Kind),
				zap.Any("panic", rec),
			)
		}
	}()
	err := h.Handler(ev)
	switch {
	case err == nil:
	case errors.Is(err, ErrStateViolation):
		r.log.Debug("action aborted", zap.String("hook", h.Name), zap.Error(err))
	default:
		r.log.Warn("hook failed",
			zap.String("hook", h.Name),
			zap.Stringer("kind", ev.Kind),
			zap.Error(err),
		)
	}
}

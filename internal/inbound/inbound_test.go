package inbound

import (
	"testing"

	"github.com/l1jgo/worldcore/internal/action"
	"github.com/l1jgo/worldcore/internal/chunk"
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/net/packet"
	"github.com/l1jgo/worldcore/internal/outbound"
	"github.com/l1jgo/worldcore/internal/world"
	"github.com/pixil98/go-testutil"
	"go.uber.org/zap"
)

type fixture struct {
	w      *world.World
	reg    *packet.Registry
	events []*action.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	actions := action.NewRegistry(log)
	w, err := world.New(chunk.NewManager(nil, log), actions, &outbound.Recorder{}, world.Options{Seed: 1}, log)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	t.Cleanup(w.Close)

	f := &fixture{w: w, reg: packet.NewRegistry(log)}
	record := func(ev *action.Event) error {
		f.events = append(f.events, ev)
		return nil
	}
	for _, k := range []action.Kind{action.KindItemInteraction, action.KindItemOnPlayer, action.KindCommand, action.KindButton} {
		if err := actions.Register(k, action.Hook{Name: "record", Handler: record}); err != nil {
			t.Fatalf("register hook: %v", err)
		}
	}
	Register(f.reg, w, log)
	return f
}

func (f *fixture) player(t *testing.T, name string, pos coord.Position) *entity.Player {
	t.Helper()
	p := entity.NewPlayer(name, pos)
	if err := f.w.RegisterPlayer(p); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return p
}

func TestDropItemMixedEndian(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, "alice", coord.New(3222, 3222, 0))

	payload := packet.NewWriter().
		Put(packet.Short, packet.LittleEndian, 149).
		Put(packet.Short, packet.LittleEndian, 0).
		Put(packet.Short, packet.BigEndian, 5).
		Put(packet.Short, packet.LittleEndian, 1351).
		Bytes()
	if err := f.reg.Dispatch(p, OpDropItem, payload); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(f.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.events))
	}
	ev := f.events[0]
	testutil.AssertEqual(t, "kind", ev.Kind, action.KindItemInteraction)
	testutil.AssertEqual(t, "widget", ev.WidgetID, 149)
	testutil.AssertEqual(t, "container", ev.ContainerID, 0)
	testutil.AssertEqual(t, "slot", ev.Slot, 5)
	testutil.AssertEqual(t, "item", ev.ID, 1351)
	testutil.AssertEqual(t, "option", ev.Option, "drop")
}

func TestDropItemWrongSize(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, "alice", coord.New(3222, 3222, 0))
	err := f.reg.Dispatch(p, OpDropItem, []byte{1, 2, 3})
	testutil.AssertErrorContains(t, err, "expects 8 bytes")
	testutil.AssertEqual(t, "no event", len(f.events), 0)
}

func itemOnPlayerPayload(index, widget, container, itemID, slot int) []byte {
	return packet.NewWriter().
		Put(packet.Short, packet.LittleEndian, index+1).
		Put(packet.Short, packet.LittleEndian, widget).
		Put(packet.Short, packet.BigEndian, container).
		Put(packet.Short, packet.BigEndian, itemID).
		Put(packet.Short, packet.BigEndian, slot).
		Bytes()
}

func TestItemOnPlayer(t *testing.T) {
	tests := map[string]struct {
		targetPos coord.Position
		index     func(bob *entity.Player) int
		itemID    int
		slot      int
		expEvent  bool
	}{
		"dispatched": {
			targetPos: coord.New(3225, 3222, 0), itemID: 1511, slot: 3, expEvent: true,
		},
		"wrong item id": {
			targetPos: coord.New(3225, 3222, 0), itemID: 1512, slot: 3,
		},
		"empty slot": {
			targetPos: coord.New(3225, 3222, 0), itemID: 1511, slot: 4,
		},
		"slot out of range": {
			targetPos: coord.New(3225, 3222, 0), itemID: 1511, slot: 28,
		},
		"no such player": {
			targetPos: coord.New(3225, 3222, 0), itemID: 1511, slot: 3,
			index: func(*entity.Player) int { return 500 },
		},
		"too far": {
			targetPos: coord.New(3239, 3222, 0), itemID: 1511, slot: 3,
		},
		"exactly sixteen": {
			targetPos: coord.New(3238, 3222, 0), itemID: 1511, slot: 3, expEvent: true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			alice := f.player(t, "alice", coord.New(3222, 3222, 0))
			bob := f.player(t, "bob", tt.targetPos)
			alice.Inventory.Set(3, &entity.Item{ItemID: 1511, Amount: 1})

			index := bob.Slot()
			if tt.index != nil {
				index = tt.index(bob)
			}
			payload := itemOnPlayerPayload(index, InventoryWidgetID, InventoryContainerID, tt.itemID, tt.slot)
			if err := f.reg.Dispatch(alice, OpItemOnPlayer, payload); err != nil {
				t.Fatalf("dispatch: %v", err)
			}

			testutil.AssertEqual(t, "event", len(f.events) == 1, tt.expEvent)
			if !tt.expEvent {
				return
			}
			ev := f.events[0]
			testutil.AssertEqual(t, "kind", ev.Kind, action.KindItemOnPlayer)
			testutil.AssertEqual(t, "target", ev.Target.(*entity.Player) == bob, true)
			testutil.AssertEqual(t, "position", ev.Position, tt.targetPos)
			testutil.AssertEqual(t, "used item", ev.Payload.(*entity.Item).ItemID, 1511)
		})
	}
}

func TestCommandParsing(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, "alice", coord.New(3222, 3222, 0))

	payload := packet.NewWriter().String("::MOVE 3200  3201").Bytes()
	if err := f.reg.Dispatch(p, OpCommand, payload); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(f.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.events))
	}
	testutil.AssertEqual(t, "command", f.events[0].Command, "move")
	testutil.AssertEqual(t, "args", len(f.events[0].Args), 2)
	testutil.AssertEqual(t, "arg y", f.events[0].Args[1], "3201")

	if err := f.reg.Dispatch(p, OpCommand, packet.NewWriter().String("   ").Bytes()); err != nil {
		t.Fatalf("dispatch blank: %v", err)
	}
	testutil.AssertEqual(t, "blank ignored", len(f.events), 1)
}

func TestButtonResolvesPendingInput(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, "alice", coord.New(3222, 3222, 0))

	got := -1
	f.w.OpenWidget(p, 228, []string{"Pick one", "Yes", "No"})
	p.Pipeline().AwaitInput(func(v any) { got = v.(int) }, func() {})

	button := packet.NewWriter().Short(228).Short(2).Bytes()
	if err := f.reg.Dispatch(p, OpButton, button); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	testutil.AssertEqual(t, "choice", got, 2)
	testutil.AssertEqual(t, "no button event", len(f.events), 0)

	if err := f.reg.Dispatch(p, OpButton, button); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	testutil.AssertEqual(t, "plain button", len(f.events), 1)
	testutil.AssertEqual(t, "button id", f.events[0].ID, 2)
	testutil.AssertEqual(t, "widget", f.events[0].WidgetID, 228)
}

func TestWalkQueuesPath(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, "alice", coord.New(3222, 3222, 0))

	payload := packet.NewWriter().Short(3225).Short(3220).Byte(1).Bytes()
	if err := f.reg.Dispatch(p, OpWalk, payload); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	testutil.AssertEqual(t, "walking", p.Walking(), true)
	testutil.AssertEqual(t, "running", p.Running, true)
}

func TestStraightPath(t *testing.T) {
	path := StraightPath(coord.New(0, 0, 0), coord.New(3, -1, 0), 25)
	exp := []coord.Position{
		coord.New(1, -1, 0),
		coord.New(2, -1, 0),
		coord.New(3, -1, 0),
	}
	testutil.AssertEqual(t, "len", len(path), len(exp))
	for i := range exp {
		testutil.AssertEqual(t, "step", path[i], exp[i])
	}

	testutil.AssertEqual(t, "capped", len(StraightPath(coord.New(0, 0, 0), coord.New(100, 0, 0), 25)), 25)
	testutil.AssertEqual(t, "already there", len(StraightPath(coord.New(5, 5, 0), coord.New(5, 5, 1), 25)), 0)
}

package action

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pixil98/go-testutil"
	"go.uber.org/zap"
)

type stubActor struct {
	pipe   *Pipeline
	quests map[string]int
}

func newStubActor() *stubActor {
	return &stubActor{pipe: NewPipeline(), quests: map[string]int{}}
}

func (a *stubActor) Pipeline() *Pipeline { return a.pipe }
func (a *stubActor) QuestStage(id string) int {
	return a.quests[id]
}

func TestRegistryQuestGatedFirst(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	var ran string
	mk := func(name string) func(*Event) error {
		return func(*Event) error { ran = name; return nil }
	}

	_ = r.Register(KindNpcInteraction, Hook{Name: "plain-high", Priority: 10, IDs: []int{0}, Handler: mk("plain-high")})
	_ = r.Register(KindNpcInteraction, Hook{Name: "plain-low", IDs: []int{0}, Handler: mk("plain-low")})
	_ = r.Register(KindNpcInteraction, Hook{
		Name:    "quest",
		IDs:     []int{0},
		Quest:   &QuestGate{QuestID: "cooks_assistant", Stage: 1},
		Handler: mk("quest"),
	})

	hooks := r.Hooks(KindNpcInteraction)
	testutil.AssertEqual(t, "first", hooks[0].Name, "quest")
	testutil.AssertEqual(t, "second", hooks[1].Name, "plain-high")
	testutil.AssertEqual(t, "third", hooks[2].Name, "plain-low")

	actor := newStubActor()
	r.Dispatch(&Event{Kind: KindNpcInteraction, Actor: actor, ID: 0})
	testutil.AssertEqual(t, "gate closed", ran, "plain-high")

	actor.quests["cooks_assistant"] = 1
	r.Dispatch(&Event{Kind: KindNpcInteraction, Actor: actor, ID: 0})
	testutil.AssertEqual(t, "gate open", ran, "quest")
}

func TestRegistryPriorityThenRegistrationOrder(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	noop := func(*Event) error { return nil }
	for _, h := range []Hook{
		{Name: "a", Handler: noop},
		{Name: "b", Handler: noop},
		{Name: "urgent", Priority: 5, Handler: noop},
		{Name: "c", Handler: noop},
		{Name: "gated", Quest: &QuestGate{QuestID: "q"}, Handler: noop},
	} {
		if err := r.Register(KindButton, h); err != nil {
			t.Fatalf("register %s: %v", h.Name, err)
		}
	}

	exp := []string{"gated", "urgent", "a", "b", "c"}
	hooks := r.Hooks(KindButton)
	testutil.AssertEqual(t, "count", len(hooks), len(exp))
	for i, name := range exp {
		if hooks[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, hooks[i].Name)
		}
	}
}

func TestRegistryQuestGateStages(t *testing.T) {
	gate := &QuestGate{QuestID: "q", Stage: 9, Stages: []int{2, 3}}
	a := newStubActor()
	a.quests["q"] = 3
	testutil.AssertEqual(t, "listed stage", gate.permits(a), true)
	a.quests["q"] = 9
	testutil.AssertEqual(t, "stages override stage", gate.permits(a), false)
}

func TestRegistryMatching(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	hit := 0
	_ = r.Register(KindObjectInteraction, Hook{
		Name:    "doors",
		IDs:     []int{1530, 1531},
		Options: []string{"open", "close"},
		Handler: func(*Event) error { hit++; return nil },
	})

	tests := map[string]struct {
		ev  Event
		exp bool
	}{
		"match":        {ev: Event{Kind: KindObjectInteraction, ID: 1530, Option: "Open"}, exp: true},
		"wrong id":     {ev: Event{Kind: KindObjectInteraction, ID: 1, Option: "open"}, exp: false},
		"wrong option": {ev: Event{Kind: KindObjectInteraction, ID: 1531, Option: "search"}, exp: false},
		"wrong kind":   {ev: Event{Kind: KindNpcInteraction, ID: 1530, Option: "open"}, exp: false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev := tt.ev
			ev.Actor = newStubActor()
			testutil.AssertEqual(t, "dispatched", r.Dispatch(&ev), tt.exp)
		})
	}
	testutil.AssertEqual(t, "hits", hit, 1)
}

func TestRegistryContainsFaults(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	_ = r.Register(KindButton, Hook{Name: "panics", IDs: []int{1}, Handler: func(*Event) error { panic("boom") }})
	_ = r.Register(KindButton, Hook{Name: "aborts", IDs: []int{2}, Handler: func(*Event) error {
		return fmt.Errorf("item moved: %w", ErrStateViolation)
	}})
	_ = r.Register(KindButton, Hook{Name: "fails", IDs: []int{3}, Handler: func(*Event) error {
		return errors.New("broken")
	}})

	for _, id := range []int{1, 2, 3} {
		testutil.AssertEqual(t, "dispatched", r.Dispatch(&Event{Kind: KindButton, ID: id, Actor: newStubActor()}), true)
	}
}

func TestRegistryCancelOthers(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	_ = r.Register(KindItemInteraction, Hook{Name: "eat", CancelOthers: true, Handler: func(*Event) error { return nil }})

	a := newStubActor()
	a.pipe.StartLoop(1, func(*Loop) {})
	r.Dispatch(&Event{Kind: KindItemInteraction, Actor: a})
	testutil.AssertEqual(t, "state", a.pipe.State(), StateIdle)
}

func TestRegistryRejectsBadHooks(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	testutil.AssertErrorContains(t, r.Register(KindButton, Hook{Name: "nil"}), "nil handler")
	testutil.AssertErrorContains(t, r.Register(Kind(99), Hook{Name: "x", Handler: func(*Event) error { return nil }}), "unknown kind")
	testutil.AssertEqual(t, "count", r.Count(), 0)
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("item_on_player")
	testutil.AssertEqual(t, "ok", ok, true)
	testutil.AssertEqual(t, "kind", k, KindItemOnPlayer)
	_, ok = ParseKind("nope")
	testutil.AssertEqual(t, "unknown", ok, false)
}

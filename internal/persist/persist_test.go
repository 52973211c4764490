package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/pixil98/go-testutil"
	"go.uber.org/zap"
)

func TestMemoryStoreAuthenticate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	err := m.Authenticate(ctx, "alice", "secret", false)
	testutil.AssertEqual(t, "unknown rejected", errors.Is(err, ErrBadCredentials), true)

	if err := m.Authenticate(ctx, "alice", "secret", true); err != nil {
		t.Fatalf("auto create: %v", err)
	}
	if err := m.Authenticate(ctx, "alice", "secret", false); err != nil {
		t.Fatalf("login: %v", err)
	}
	err = m.Authenticate(ctx, "alice", "wrong", true)
	testutil.AssertEqual(t, "wrong password", errors.Is(err, ErrBadCredentials), true)

	if err := m.SetOnline(ctx, "alice", true); err != nil {
		t.Fatalf("set online: %v", err)
	}
	testutil.AssertEqual(t, "online", m.Online("alice"), true)
}

func TestMemoryStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, ok, err := m.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "missing", ok, false)

	p := entity.NewPlayer("bob", coord.New(3200, 3201, 1))
	p.SetQuestStage("cooks_assistant", 2)
	if err := m.Save(ctx, p.Snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, ok, err := m.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "position", s.Position, entity.SavedPosition{X: 3200, Y: 3201, Level: 1})
	testutil.AssertEqual(t, "quest", s.Quests["cooks_assistant"], 2)
}

type failingSaves struct{ MemoryStore }

func (f *failingSaves) Save(context.Context, entity.PlayerSave) error {
	return errors.New("disk full")
}

func TestAutosaveInterval(t *testing.T) {
	store := NewMemoryStore()
	alice := entity.NewPlayer("alice", coord.New(1, 1, 0))
	fake := entity.NewPlayer("test0", coord.New(2, 2, 0))
	fake.Fake = true
	players := func() []*entity.Player { return []*entity.Player{alice, fake} }

	sys := NewAutosaveSystem(players, store, zap.NewNop(), 3)
	sys.Update(0)
	sys.Update(0)
	_, ok, _ := store.Load(context.Background(), "alice")
	testutil.AssertEqual(t, "not yet", ok, false)

	sys.Update(0)
	_, ok, _ = store.Load(context.Background(), "alice")
	testutil.AssertEqual(t, "saved on interval", ok, true)
	_, ok, _ = store.Load(context.Background(), "test0")
	testutil.AssertEqual(t, "fake skipped", ok, false)
}

func TestAutosaveDisabledStillSavesAll(t *testing.T) {
	store := NewMemoryStore()
	alice := entity.NewPlayer("alice", coord.New(1, 1, 0))
	sys := NewAutosaveSystem(func() []*entity.Player { return []*entity.Player{alice} }, store, zap.NewNop(), 0)
	for range 10 {
		sys.Update(0)
	}
	_, ok, _ := store.Load(context.Background(), "alice")
	testutil.AssertEqual(t, "no periodic save", ok, false)
	testutil.AssertEqual(t, "save all", sys.SaveAll(), 1)
}

func TestAutosaveErrorIsLogged(t *testing.T) {
	alice := entity.NewPlayer("alice", coord.New(1, 1, 0))
	sys := NewAutosaveSystem(func() []*entity.Player { return []*entity.Player{alice} }, &failingSaves{}, zap.NewNop(), 1)
	testutil.AssertEqual(t, "nothing saved", sys.SaveAll(), 0)
}

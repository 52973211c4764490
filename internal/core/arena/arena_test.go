package arena

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

type mob struct{ name string }

func TestArenaRegisterUntilFull(t *testing.T) {
	a := New[*mob](3)
	for i := 0; i < 3; i++ {
		idx, err := a.Register(&mob{})
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		testutil.AssertEqual(t, "index", idx, i)
	}

	idx, err := a.Register(&mob{})
	if !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	testutil.AssertEqual(t, "index on full", idx, -1)
	testutil.AssertEqual(t, "len", a.Len(), 3)
}

func TestArenaReleaseReusesLowestSlot(t *testing.T) {
	a := New[*mob](4)
	ms := []*mob{{"a"}, {"b"}, {"c"}, {"d"}}
	for _, m := range ms {
		if _, err := a.Register(m); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	testutil.AssertEqual(t, "release c", a.Release(2, ms[2]), true)
	testutil.AssertEqual(t, "release a", a.Release(0, ms[0]), true)

	fresh := &mob{"e"}
	idx, err := a.Register(fresh)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	testutil.AssertEqual(t, "reused index", idx, 0)
	testutil.AssertEqual(t, "exists", a.Exists(0, fresh), true)
	testutil.AssertEqual(t, "stale handle", a.Exists(0, ms[0]), false)
}

func TestArenaReleaseRequiresIdentity(t *testing.T) {
	a := New[*mob](2)
	owner := &mob{"owner"}
	idx, _ := a.Register(owner)

	testutil.AssertEqual(t, "foreign release", a.Release(idx, &mob{"other"}), false)
	testutil.AssertEqual(t, "out of range", a.Release(9, owner), false)
	testutil.AssertEqual(t, "still there", a.Exists(idx, owner), true)

	testutil.AssertEqual(t, "owner release", a.Release(idx, owner), true)
	testutil.AssertEqual(t, "double release", a.Release(idx, owner), false)
	testutil.AssertEqual(t, "len", a.Len(), 0)
}

func TestArenaEachInIndexOrder(t *testing.T) {
	a := New[*mob](5)
	ms := []*mob{{"a"}, {"b"}, {"c"}}
	for _, m := range ms {
		_, _ = a.Register(m)
	}
	a.Release(1, ms[1])

	var seen []int
	a.Each(func(i int, _ *mob) bool {
		seen = append(seen, i)
		return true
	})
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 2 {
		t.Fatalf("unexpected order %v", seen)
	}
	testutil.AssertEqual(t, "values", len(a.Values()), 2)
}

package clock

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var order []string

	m.AfterFunc(300*time.Millisecond, func() { order = append(order, "late") })
	m.AfterFunc(100*time.Millisecond, func() { order = append(order, "early") })
	m.AfterFunc(100*time.Millisecond, func() { order = append(order, "early-second") })

	m.Advance(200 * time.Millisecond)
	if len(order) != 2 || order[0] != "early" || order[1] != "early-second" {
		t.Fatalf("unexpected order after 200ms: %v", order)
	}
	testutil.AssertEqual(t, "pending", m.Pending(), 1)

	m.Advance(100 * time.Millisecond)
	testutil.AssertEqual(t, "fired", len(order), 3)
	testutil.AssertEqual(t, "now", m.Now().Equal(time.Unix(0, 0).Add(300*time.Millisecond)), true)
}

func TestManualStop(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	fired := false
	tm := m.AfterFunc(time.Second, func() { fired = true })

	testutil.AssertEqual(t, "stop", tm.Stop(), true)
	testutil.AssertEqual(t, "stop again", tm.Stop(), false)
	m.Advance(2 * time.Second)
	testutil.AssertEqual(t, "fired", fired, false)
}

func TestManualNestedScheduleInsideWindow(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	count := 0
	m.AfterFunc(100*time.Millisecond, func() {
		count++
		m.AfterFunc(100*time.Millisecond, func() { count++ })
	})

	m.Advance(250 * time.Millisecond)
	testutil.AssertEqual(t, "count", count, 2)
}

package world

import (
	"sync"
	"time"

	"github.com/l1jgo/worldcore/internal/core/clock"
)

// mailbox carries work from wall-clock timer goroutines into the tick.
type mailbox struct {
	mu  sync.Mutex
	fns []func()
}

func (m *mailbox) post(fn func()) {
	m.mu.Lock()
	m.fns = append(m.fns, fn)
	m.mu.Unlock()
}

func (m *mailbox) drain() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fns := m.fns
	m.fns = nil
	return fns
}

type scheduledTask struct {
	due uint64
	fn  func()
}

// After runs fn on the tick goroutine once ticks worth of wall-clock time
// has passed. fn must re-check whatever state it is about to mutate; a
// manual action may already have handled it.
func (w *World) After(ticks int, fn func()) {
	d := time.Duration(ticks) * w.opts.TickLength
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.closed {
		return
	}
	var t clock.Timer
	t = w.clk.AfterFunc(d, func() {
		w.mail.post(func() {
			w.timerMu.Lock()
			delete(w.timers, t)
			w.timerMu.Unlock()
			fn()
		})
	})
	w.timers[t] = struct{}{}
}

// Schedule runs fn at the start of the tick that is ticks from now,
// counted in world ticks rather than wall-clock time.
func (w *World) Schedule(ticks int, fn func()) {
	if ticks < 1 {
		ticks = 1
	}
	w.scheduled = append(w.scheduled, scheduledTask{due: w.tick + uint64(ticks), fn: fn})
}

// PendingTimers returns the number of armed wall-clock timers.
func (w *World) PendingTimers() int {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	return len(w.timers)
}

func (w *World) runTimers() {
	w.tick++

	if len(w.scheduled) > 0 {
		var due []scheduledTask
		keep := w.scheduled[:0]
		for _, s := range w.scheduled {
			if s.due <= w.tick {
				due = append(due, s)
			} else {
				keep = append(keep, s)
			}
		}
		w.scheduled = keep
		for _, s := range due {
			w.guard("scheduled task", s.fn)
		}
	}

	for _, fn := range w.mail.drain() {
		w.guard("timer callback", fn)
	}
}

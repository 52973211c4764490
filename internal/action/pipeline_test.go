package action

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestLoopCancelTwiceSingleEffect(t *testing.T) {
	p := NewPipeline()
	calls := 0
	effects := 0

	l := p.StartLoop(1, func(*Loop) { calls++ })
	l.OnCancel(func() { effects++ })

	p.Advance()
	p.Advance()
	testutil.AssertEqual(t, "calls before cancel", calls, 2)

	l.Cancel()
	l.Cancel()
	p.Cancel()

	p.Advance()
	p.Advance()
	testutil.AssertEqual(t, "calls after cancel", calls, 2)
	testutil.AssertEqual(t, "termination effects", effects, 1)
	testutil.AssertEqual(t, "state", p.State(), StateIdle)
}

func TestLoopElapsedAndInterval(t *testing.T) {
	p := NewPipeline()
	var seen []int
	p.StartLoop(5, func(l *Loop) {
		seen = append(seen, l.Elapsed())
		if l.Elapsed() >= 10 {
			l.Cancel()
		}
	})

	for i := 0; i < 20; i++ {
		p.Advance()
	}
	if len(seen) != 3 || seen[0] != 0 || seen[1] != 5 || seen[2] != 10 {
		t.Fatalf("unexpected elapsed values %v", seen)
	}
}

func TestLoopFirstInvocationOnNextAdvance(t *testing.T) {
	p := NewPipeline()
	calls := 0
	p.StartLoop(1, func(*Loop) { calls++ })
	testutil.AssertEqual(t, "before advance", calls, 0)
	testutil.AssertEqual(t, "state", p.State(), StateLooping)
	p.Advance()
	testutil.AssertEqual(t, "after advance", calls, 1)
}

func TestStartLoopSupersedesPrevious(t *testing.T) {
	p := NewPipeline()
	first, second, cancelled := 0, 0, 0

	old := p.StartLoop(1, func(*Loop) { first++ })
	old.OnCancel(func() { cancelled++ })
	p.Advance()

	p.StartLoop(1, func(*Loop) { second++ })
	p.Advance()
	p.Advance()

	testutil.AssertEqual(t, "first", first, 1)
	testutil.AssertEqual(t, "second", second, 2)
	testutil.AssertEqual(t, "old cancelled", old.Cancelled(), true)
	testutil.AssertEqual(t, "cancel effects", cancelled, 1)
}

func TestWaitResumesOnce(t *testing.T) {
	p := NewPipeline()
	resumed := 0
	p.Wait(3, func() { resumed++ })

	p.Advance()
	p.Advance()
	testutil.AssertEqual(t, "early", resumed, 0)
	testutil.AssertEqual(t, "state", p.State(), StateWaiting)

	p.Advance()
	testutil.AssertEqual(t, "resumed", resumed, 1)
	for i := 0; i < 5; i++ {
		p.Advance()
	}
	testutil.AssertEqual(t, "resumed once", resumed, 1)
	testutil.AssertEqual(t, "idle", p.State(), StateIdle)
}

func TestWaitCancelledNeverResumes(t *testing.T) {
	p := NewPipeline()
	resumed := false
	p.Wait(1, func() { resumed = true })
	p.Cancel()
	p.Advance()
	testutil.AssertEqual(t, "resumed", resumed, false)
}

func TestSequenceRunsStepsInOrder(t *testing.T) {
	p := NewPipeline()
	var log []uint64
	mark := func() { log = append(log, p.Tick()) }

	p.Sequence(
		Step{Delay: 1, Do: mark},
		Step{Delay: 2, Do: mark},
		Step{Delay: 3, Do: mark},
	)
	for i := 0; i < 10; i++ {
		p.Advance()
	}
	if len(log) != 3 || log[0] != 1 || log[1] != 3 || log[2] != 6 {
		t.Fatalf("unexpected step ticks %v", log)
	}
}

func TestSequenceStopsWhenCancelled(t *testing.T) {
	p := NewPipeline()
	steps := 0
	p.Sequence(
		Step{Delay: 1, Do: func() { steps++ }},
		Step{Delay: 1, Do: func() { steps++ }},
	)
	p.Advance()
	p.Cancel()
	p.Advance()
	p.Advance()
	testutil.AssertEqual(t, "steps", steps, 1)
}

func TestAwaitInputResolves(t *testing.T) {
	p := NewPipeline()
	var got any
	closed := 0
	p.AwaitInput(func(v any) { got = v }, func() { closed++ })
	testutil.AssertEqual(t, "state", p.State(), StateAwaitingInput)

	testutil.AssertEqual(t, "provided", p.ProvideInput(2), true)
	testutil.AssertEqual(t, "value", got, any(2))

	p.CloseInteraction()
	testutil.AssertEqual(t, "closed after resolve", closed, 0)
	testutil.AssertEqual(t, "second input", p.ProvideInput(3), false)
}

func TestCloseInteractionIdempotent(t *testing.T) {
	p := NewPipeline()
	inputs, closed := 0, 0
	p.AwaitInput(func(any) { inputs++ }, func() { closed++ })

	p.CloseInteraction()
	p.CloseInteraction()
	testutil.AssertEqual(t, "closed", closed, 1)
	testutil.AssertEqual(t, "late input", p.ProvideInput("x"), false)
	testutil.AssertEqual(t, "inputs", inputs, 0)
}

func TestCloseInteractionLeavesLoopAlone(t *testing.T) {
	p := NewPipeline()
	p.StartLoop(1, func(*Loop) {})
	p.CloseInteraction()
	testutil.AssertEqual(t, "state", p.State(), StateLooping)
}

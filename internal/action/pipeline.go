package action

import "errors"

// ErrStateViolation aborts an action whose precondition no longer holds.
// Handlers return it (possibly wrapped) to stop quietly.
var ErrStateViolation = errors.New("action state violation")

// State is the shape of a pipeline's current primary behavior.
type State int

const (
	StateIdle State = iota
	StateLooping
	StateWaiting
	StateAwaitingInput
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLooping:
		return "looping"
	case StateWaiting:
		return "waiting"
	case StateAwaitingInput:
		return "awaiting_input"
	default:
		return "unknown"
	}
}

// Pipeline sequences one entity's multi-tick behavior. It holds at most one
// primary task; starting a new task cancels the previous one. A pipeline is
// only touched from the tick goroutine.
type Pipeline struct {
	tick uint64
	task task
}

type task interface {
	state() State
	cancel()
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Tick returns how many times Advance has been called.
func (p *Pipeline) Tick() uint64 { return p.tick }

func (p *Pipeline) State() State {
	if p.task == nil {
		return StateIdle
	}
	return p.task.state()
}

func (p *Pipeline) Busy() bool { return p.task != nil }

// Advance steps the pipeline by one tick.
func (p *Pipeline) Advance() {
	p.tick++
	switch t := p.task.(type) {
	case *Loop:
		t.step()
	case *waitTask:
		if p.tick >= t.until {
			p.task = nil
			t.fn()
		}
	}
}

// Cancel terminates whatever task is active. Safe to call when idle.
func (p *Pipeline) Cancel() {
	t := p.task
	if t == nil {
		return
	}
	p.task = nil
	t.cancel()
}

// StartLoop makes a tick loop the primary behavior. fn runs on every Advance
// whose elapsed count is a multiple of interval, starting with the next one.
func (p *Pipeline) StartLoop(interval int, fn func(*Loop)) *Loop {
	p.Cancel()
	if interval < 1 {
		interval = 1
	}
	l := &Loop{owner: p, interval: interval, fn: fn}
	p.task = l
	return l
}

// Wait resumes fn exactly once after ticks more Advance calls.
// A non-positive count resumes on the next Advance.
func (p *Pipeline) Wait(ticks int, fn func()) {
	p.Cancel()
	if ticks < 1 {
		ticks = 1
	}
	p.task = &waitTask{until: p.tick + uint64(ticks), fn: fn}
}

// Step is one stage of a Sequence.
type Step struct {
	Delay int
	Do    func()
}

// Sequence runs steps one after another, each after its own tick delay.
// The sequence stops early if it is cancelled or if a step starts a
// different task on the pipeline.
func (p *Pipeline) Sequence(steps ...Step) {
	var run func(i int)
	run = func(i int) {
		if i >= len(steps) {
			return
		}
		s := steps[i]
		p.Wait(s.Delay, func() {
			if s.Do != nil {
				s.Do()
			}
			if p.task == nil {
				run(i + 1)
			}
		})
	}
	run(0)
}

// AwaitInput suspends the pipeline until ProvideInput or CloseInteraction.
// Exactly one of onInput and onClosed will be called, at most once.
func (p *Pipeline) AwaitInput(onInput func(any), onClosed func()) {
	p.Cancel()
	p.task = &inputTask{onInput: onInput, onClosed: onClosed}
}

// ProvideInput resolves a pending AwaitInput. It reports false if nothing
// was waiting for input.
func (p *Pipeline) ProvideInput(v any) bool {
	t, ok := p.task.(*inputTask)
	if !ok {
		return false
	}
	p.task = nil
	t.done = true
	if t.onInput != nil {
		t.onInput(v)
	}
	return true
}

// CloseInteraction cancels a pending input continuation. Calling it again, or
// after the input already resolved, has no effect.
func (p *Pipeline) CloseInteraction() {
	if _, ok := p.task.(*inputTask); ok {
		p.Cancel()
	}
}

// Loop is a tick-driven subscription owned by one pipeline.
type Loop struct {
	owner     *Pipeline
	interval  int
	elapsed   int
	fn        func(*Loop)
	cancelled bool
	onCancel  []func()
}

func (l *Loop) state() State { return StateLooping }

// Elapsed returns the number of ticks this loop has been stepped before the
// current invocation.
func (l *Loop) Elapsed() int { return l.elapsed }

func (l *Loop) Cancelled() bool { return l.cancelled }

// OnCancel registers f to run when the loop terminates by cancellation.
func (l *Loop) OnCancel(f func()) {
	l.onCancel = append(l.onCancel, f)
}

// Cancel stops the loop. Only the first call has an effect.
func (l *Loop) Cancel() {
	if l.cancelled {
		return
	}
	if l.owner.task == l {
		l.owner.task = nil
	}
	l.cancel()
}

func (l *Loop) cancel() {
	if l.cancelled {
		return
	}
	l.cancelled = true
	fs := l.onCancel
	l.onCancel = nil
	for _, f := range fs {
		f()
	}
}

func (l *Loop) step() {
	if l.cancelled {
		return
	}
	if l.elapsed%l.interval == 0 {
		l.fn(l)
	}
	l.elapsed++
}

type waitTask struct {
	until uint64
	fn    func()
}

func (w *waitTask) state() State { return StateWaiting }
func (w *waitTask) cancel()      {}

type inputTask struct {
	onInput  func(any)
	onClosed func()
	done     bool
}

func (t *inputTask) state() State { return StateAwaitingInput }

func (t *inputTask) cancel() {
	if t.done {
		return
	}
	t.done = true
	if t.onClosed != nil {
		t.onClosed()
	}
}

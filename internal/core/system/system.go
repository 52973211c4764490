package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseTimers  Phase = iota // 0: drain wall-clock timer callbacks into the tick
	PhaseInput                // 1: drain decoded inbound events
	PhaseAdvance              // 2: step every entity's action pipeline and movement
	PhaseSync                 // 3: visibility diffs + flush outbound intents
	PhaseReset                // 4: clear per-tick update flags
	PhasePersist              // 5: periodic autosave

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseTimers:
		return "timers"
	case PhaseInput:
		return "input"
	case PhaseAdvance:
		return "advance"
	case PhaseSync:
		return "sync"
	case PhaseReset:
		return "reset"
	case PhasePersist:
		return "persist"
	default:
		return "unknown"
	}
}

// System is the interface every tick stage implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a plain function to System.
type Func struct {
	P  Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase            { return f.P }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }

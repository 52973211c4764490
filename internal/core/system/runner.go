package system

import "time"

// Runner holds systems bucketed by phase. Systems sharing a phase run in
// registration order.
type Runner struct {
	phases [phaseCount][]System
}

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Register(s System) {
	p := s.Phase()
	if p < 0 || p >= phaseCount {
		panic("system: phase out of range: " + p.String())
	}
	r.phases[p] = append(r.phases[p], s)
}

// Len reports how many systems are registered.
func (r *Runner) Len() int {
	n := 0
	for _, ss := range r.phases {
		n += len(ss)
	}
	return n
}

// TickRange runs the systems whose phase lies in [lo, hi], in phase order.
func (r *Runner) TickRange(lo, hi Phase, dt time.Duration) {
	for p := lo; p <= hi && p < phaseCount; p++ {
		for _, s := range r.phases[p] {
			s.Update(dt)
		}
	}
}

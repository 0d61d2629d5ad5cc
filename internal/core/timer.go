package core

import "time"

// PhaseTimer accumulates wall time per named pipeline phase, keeping the
// order in which phases were first seen.
type PhaseTimer struct {
	order []string
	total map[string]time.Duration
	now   func() time.Time
}

// NewPhaseTimer constructs an empty timer.
func NewPhaseTimer() *PhaseTimer {
	return &PhaseTimer{total: map[string]time.Duration{}, now: time.Now}
}

// Start begins timing phase and returns a function that stops it. Typical
// use is `defer t.Start("fill")()`.
func (p *PhaseTimer) Start(phase string) func() {
	begin := p.now()
	return func() { p.Add(phase, p.now().Sub(begin)) }
}

// Add records d against phase.
func (p *PhaseTimer) Add(phase string, d time.Duration) {
	if _, ok := p.total[phase]; !ok {
		p.order = append(p.order, phase)
	}
	p.total[phase] += d
}

// Phase is a single phase total.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Phases returns the recorded totals in first-seen order.
func (p *PhaseTimer) Phases() []Phase {
	out := make([]Phase, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, Phase{Name: name, Duration: p.total[name]})
	}
	return out
}

// Get returns the total for phase, zero if it never ran.
func (p *PhaseTimer) Get(phase string) time.Duration { return p.total[phase] }

// Total sums every phase.
func (p *PhaseTimer) Total() time.Duration {
	var sum time.Duration
	for _, d := range p.total {
		sum += d
	}
	return sum
}

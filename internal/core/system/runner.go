package system

import (
	"sort"
	"time"

	"github.com/l1jgo/ecscore/internal/core/access"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Systems returns the registered systems in execution order.
func (r *Runner) Systems() []System {
	r.ensureSorted()
	return r.systems
}

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
}

// TickPhase runs only the systems of one phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

// Plan groups the systems of phase into batches. Systems in one batch have
// pairwise compatible access, and a system never lands in a batch before one
// holding an earlier system it conflicts with, so running the batches in
// order preserves registration order wherever it matters. Batches are still
// executed one system at a time.
func (r *Runner) Plan(phase Phase) [][]System {
	r.ensureSorted()
	var (
		batches [][]System
		terms   [][]access.Term
	)
	for _, s := range r.systems {
		if s.Phase() != phase {
			continue
		}
		acc := s.Access()
		at := 0
		for i, t := range terms {
			if access.Conflicts(acc, t) {
				at = i + 1
			}
		}
		if at == len(batches) {
			batches = append(batches, nil)
			terms = append(terms, nil)
		}
		batches[at] = append(batches[at], s)
		terms[at] = append(terms[at], acc...)
	}
	return batches
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
